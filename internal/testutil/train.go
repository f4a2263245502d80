package testutil

import "github.com/roach88/induction/internal/fleet"

// ReferenceDate is the reference date used by trains built here.
const ReferenceDate = "2025-09-26"

// TrainBuilder builds fleet.Train values for tests. The zero state is a
// perfect train: every certificate valid for 30 days, no open job cards,
// compliant branding, zero mileage variance and completed cleaning. It
// scores 100.
type TrainBuilder struct {
	t fleet.Train
}

// NewTrain starts a perfect, unranked train with the given id.
func NewTrain(id string) *TrainBuilder {
	cert := fleet.Certificate{Valid: true, Expiry: "2025-10-26"}
	return &TrainBuilder{t: fleet.Train{
		ID:     id,
		Status: fleet.StatusRevenueService,
		Bay:    "A1",
		Fitness: fleet.Fitness{
			Rolling: cert,
			Signal:  cert,
			Telecom: cert,
		},
		JobCards: fleet.JobCards{},
		Branding: fleet.Branding{
			WrapID:        "BR-" + id,
			Advertiser:    "Test",
			RequiredHours: 8,
			AttainedHours: 8,
		},
		Mileage:    fleet.Mileage{Current: 45000, Target: 45000},
		Cleaning:   fleet.Cleaning{Status: fleet.CleaningCompleted},
		Confidence: 0.9,
	}}
}

// Status sets the operational status.
func (b *TrainBuilder) Status(s fleet.Status) *TrainBuilder {
	b.t.Status = s
	return b
}

// Bay sets the stabling bay.
func (b *TrainBuilder) Bay(bay string) *TrainBuilder {
	b.t.Bay = bay
	return b
}

// Invalid marks the named certificates (rolling, signal, telecom) invalid.
func (b *TrainBuilder) Invalid(names ...string) *TrainBuilder {
	for _, n := range names {
		switch n {
		case fleet.CertRolling:
			b.t.Fitness.Rolling.Valid = false
		case fleet.CertSignal:
			b.t.Fitness.Signal.Valid = false
		case fleet.CertTelecom:
			b.t.Fitness.Telecom.Valid = false
		}
	}
	return b
}

// Expiry sets the expiry date of every certificate.
func (b *TrainBuilder) Expiry(date string) *TrainBuilder {
	b.t.Fitness.Rolling.Expiry = date
	b.t.Fitness.Signal.Expiry = date
	b.t.Fitness.Telecom.Expiry = date
	return b
}

// JobCards sets the open and critical counts.
func (b *TrainBuilder) JobCards(open, critical int) *TrainBuilder {
	b.t.JobCards.Open = open
	b.t.JobCards.Critical = critical
	return b
}

// Branding sets required and attained exposure hours.
func (b *TrainBuilder) Branding(required, attained float64) *TrainBuilder {
	b.t.Branding.RequiredHours = required
	b.t.Branding.AttainedHours = attained
	return b
}

// Mileage sets current and target kilometres.
func (b *TrainBuilder) Mileage(current, target int) *TrainBuilder {
	b.t.Mileage.Current = current
	b.t.Mileage.Target = target
	return b
}

// Cleaning sets the cleaning status.
func (b *TrainBuilder) Cleaning(status string) *TrainBuilder {
	b.t.Cleaning.Status = status
	return b
}

// Rank sets a prior rank.
func (b *TrainBuilder) Rank(r int) *TrainBuilder {
	b.t.AIRank = fleet.IntPtr(r)
	return b
}

// Confidence sets the confidence value.
func (b *TrainBuilder) Confidence(c float64) *TrainBuilder {
	b.t.Confidence = c
	return b
}

// Build derives the train against ReferenceDate and returns it. It panics
// on an unparseable expiry date.
func (b *TrainBuilder) Build() fleet.Train {
	t := b.t.Clone()
	if err := t.Derive(ReferenceDate); err != nil {
		panic(err)
	}
	return t
}
