package engine

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/roach88/induction/internal/fleet"
)

// Kind names a scenario type.
type Kind string

const (
	KindFCCancelled         Kind = "fc_cancelled"
	KindCriticalMaintenance Kind = "critical_maintenance"
	KindEmergencyRepair     Kind = "emergency_repair"
	KindStandbyActivation   Kind = "standby_activation"
	KindCustom              Kind = "custom"
)

// Kinds lists every scenario kind.
var Kinds = []Kind{
	KindFCCancelled,
	KindCriticalMaintenance,
	KindEmergencyRepair,
	KindStandbyActivation,
	KindCustom,
}

// ParseKind returns the Kind named by s. Unknown names fail with
// INVALID_SCENARIO_TYPE.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", NewInvalidScenarioTypeError(s)
}

// Mutation is a single-train change applied by the Simulator. The set of
// mutations is closed: FCCancelled, CriticalMaintenance, EmergencyRepair,
// StandbyActivation and Custom.
type Mutation interface {
	Kind() Kind
	validate() error
	// apply mutates t and reports whether anything was changed.
	apply(t *fleet.Train, today string) bool
}

// FCCancelled revokes the rolling stock certificate and withdraws the train.
type FCCancelled struct{}

func (FCCancelled) Kind() Kind      { return KindFCCancelled }
func (FCCancelled) validate() error { return nil }

func (FCCancelled) apply(t *fleet.Train, _ string) bool {
	t.Fitness.Rolling.Valid = false
	t.Status = fleet.StatusOutOfService
	t.Confidence = 0
	return true
}

// CriticalMaintenance raises one new critical open job card.
type CriticalMaintenance struct{}

func (CriticalMaintenance) Kind() Kind      { return KindCriticalMaintenance }
func (CriticalMaintenance) validate() error { return nil }

func (CriticalMaintenance) apply(t *fleet.Train, today string) bool {
	addCriticalCards(&t.JobCards, 1, true, today)
	t.Status = fleet.StatusIBLMaintenance
	t.Confidence = math.Max(0.1, t.Confidence-0.4)
	return true
}

// EmergencyRepair invalidates rolling and signal certificates and raises
// two critical job cards. The telecom certificate is untouched.
type EmergencyRepair struct{}

func (EmergencyRepair) Kind() Kind      { return KindEmergencyRepair }
func (EmergencyRepair) validate() error { return nil }

func (EmergencyRepair) apply(t *fleet.Train, today string) bool {
	t.Fitness.Rolling = fleet.Certificate{Valid: false, Expiry: today}
	t.Fitness.Signal = fleet.Certificate{Valid: false, Expiry: today}
	t.Status = fleet.StatusEmergencyRepair
	addCriticalCards(&t.JobCards, 2, false, today)
	t.Confidence = 0
	return true
}

// StandbyActivation moves a standby train into revenue service. Trains in
// any other status are left alone.
type StandbyActivation struct{}

func (StandbyActivation) Kind() Kind      { return KindStandbyActivation }
func (StandbyActivation) validate() error { return nil }

func (StandbyActivation) apply(t *fleet.Train, _ string) bool {
	if t.Status != fleet.StatusStandby {
		return false
	}
	t.Status = fleet.StatusRevenueService
	t.Confidence = math.Min(0.95, t.Confidence+0.1)
	return true
}

// Custom merges a caller-supplied patch onto the train. An empty patch
// applies nothing but still re-ranks the fleet.
type Custom struct {
	Patch fleet.TrainPatch
}

func (Custom) Kind() Kind { return KindCustom }

func (c Custom) validate() error {
	if c.Patch.IsEmpty() {
		return nil
	}
	return c.Patch.Validate()
}

func (c Custom) apply(t *fleet.Train, _ string) bool {
	*t = c.Patch.Apply(*t)
	return true
}

// addCriticalCards raises n critical job cards. Trains that carry a job
// card list get synthetic entries, so the counts re-derive consistently;
// otherwise the counters are bumped directly.
func addCriticalCards(jc *fleet.JobCards, n int, countOpen bool, today string) {
	if len(jc.Entries) > 0 {
		entries := append([]fleet.JobCard(nil), jc.Entries...)
		for i := 0; i < n; i++ {
			entries = append(entries, fleet.JobCard{
				Title:       "Critical defect raised",
				Description: "Raised by what-if simulation",
				Priority:    fleet.PriorityCritical,
				Status:      fleet.JobOpen,
				CreatedDate: today,
			})
		}
		jc.Entries = entries
		return
	}
	jc.Critical += n
	if countOpen {
		jc.Open += n
	}
}

// MutationFor builds the mutation for kind. patch is only used by
// KindCustom.
func MutationFor(kind Kind, patch fleet.TrainPatch) (Mutation, error) {
	switch kind {
	case KindFCCancelled:
		return FCCancelled{}, nil
	case KindCriticalMaintenance:
		return CriticalMaintenance{}, nil
	case KindEmergencyRepair:
		return EmergencyRepair{}, nil
	case KindStandbyActivation:
		return StandbyActivation{}, nil
	case KindCustom:
		return Custom{Patch: patch}, nil
	default:
		return nil, NewInvalidScenarioTypeError(string(kind))
	}
}

// Scenario is the result of one what-if simulation. It is never modified
// after the Simulator returns it.
type Scenario struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"kind"`
	TrainID     string `json:"train_id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Applied is false when the mutation's precondition did not hold; the
	// modified fleet then equals the baseline and the impact is zero.
	Applied bool `json:"applied"`

	// BaselineDigest identifies the fleet the scenario was derived from.
	BaselineDigest string `json:"baseline_digest"`

	ModifiedFleet []fleet.Train `json:"modified_fleet"`
	Impact        Impact        `json:"impact"`
}

// Ranked returns the modified fleet in rank order.
func (s *Scenario) Ranked() []fleet.Train {
	return ByRank(s.ModifiedFleet)
}

var scenarioNames = map[Kind]string{
	KindFCCancelled:         "FC Cancelled - %s",
	KindCriticalMaintenance: "Critical Maintenance - %s",
	KindEmergencyRepair:     "Emergency Repair - %s",
	KindStandbyActivation:   "Standby Activation - %s",
	KindCustom:              "Custom Modification - %s",
}

var scenarioDescriptions = map[Kind]string{
	KindFCCancelled:         "Fitness Certificate cancelled for %s. Train removed from service immediately.",
	KindCriticalMaintenance: "Critical maintenance issue discovered on %s. Requires immediate attention.",
	KindEmergencyRepair:     "Emergency repair required for %s. Multiple systems affected.",
	KindStandbyActivation:   "Standby train %s activated for revenue service.",
	KindCustom:              "Custom modifications applied to %s.",
}

// Simulator runs what-if scenarios against a baseline fleet.
//
// A Simulator holds no fleet state; every call forks its own copy of the
// baseline. The zero value is usable.
type Simulator struct {
	// Today is the simulation date (YYYY-MM-DD). It stamps repairs and is
	// the reference for re-deriving the mutated train. Empty means the
	// current UTC date.
	Today string

	// IDs generates scenario IDs. Nil means UUIDv7.
	IDs IDGenerator

	Logger *slog.Logger
}

// Simulate runs the scenario named by kind against baseline. patch is the
// override payload for the custom kind and ignored otherwise.
func (s *Simulator) Simulate(baseline []fleet.Train, kind string, trainID string, patch fleet.TrainPatch) (*Scenario, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	m, err := MutationFor(k, patch)
	if err != nil {
		return nil, err
	}
	return s.Run(baseline, trainID, m)
}

// Run applies m to the train with trainID in a private copy of baseline,
// re-ranks the copy and measures the impact. baseline is never modified.
func (s *Simulator) Run(baseline []fleet.Train, trainID string, m Mutation) (*Scenario, error) {
	if m == nil {
		return nil, NewInvalidScenarioTypeError("")
	}

	i := fleet.Find(baseline, trainID)
	if i < 0 {
		return nil, NewNotFoundError(trainID)
	}
	if err := m.validate(); err != nil {
		return nil, NewInvalidPatchError(trainID, err)
	}

	today := s.today()
	modified := fleet.CloneAll(baseline)
	applied := m.apply(&modified[i], today)
	if applied {
		if err := modified[i].Derive(today); err != nil {
			return nil, NewInvalidPatchError(trainID, err)
		}
		AssignRanks(modified)
	}

	digest, err := fleet.Digest(baseline)
	if err != nil {
		return nil, fmt.Errorf("digest baseline: %w", err)
	}

	sc := &Scenario{
		ID:             s.ids().Generate(),
		Kind:           m.Kind(),
		TrainID:        trainID,
		Name:           fmt.Sprintf(scenarioNames[m.Kind()], trainID),
		Description:    fmt.Sprintf(scenarioDescriptions[m.Kind()], trainID),
		Applied:        applied,
		BaselineDigest: digest,
		ModifiedFleet:  modified,
		Impact:         computeImpact(baseline, modified),
	}

	s.logger().Debug("scenario simulated",
		"id", sc.ID,
		"kind", sc.Kind,
		"train", trainID,
		"applied", applied,
		"eligible_change", sc.Impact.EligibleTrainsChange,
		"affected", sc.Impact.AffectedTrainsCount,
	)
	return sc, nil
}

func (s *Simulator) today() string {
	if s.Today != "" {
		return s.Today
	}
	return time.Now().UTC().Format(fleet.DateLayout)
}

func (s *Simulator) ids() IDGenerator {
	if s.IDs != nil {
		return s.IDs
	}
	return UUIDv7Generator{}
}

func (s *Simulator) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
