package fleet

import "fmt"

// Status is the operational state of a trainset.
type Status string

const (
	StatusRevenueService  Status = "Revenue Service"
	StatusStandby         Status = "Standby"
	StatusIBLMaintenance  Status = "IBL Maintenance"
	StatusOutOfService    Status = "Out of Service"
	StatusEmergencyRepair Status = "Emergency Repair"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{
	StatusRevenueService,
	StatusStandby,
	StatusIBLMaintenance,
	StatusOutOfService,
	StatusEmergencyRepair,
}

// ParseStatus returns the Status named by s.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown train status %q", s)
}

// Certificate is one fitness credential. DaysLeft is derived from Expiry
// and the reference date; negative means lapsed.
type Certificate struct {
	Valid    bool   `yaml:"valid" json:"valid"`
	Expiry   string `yaml:"expiry" json:"expiry"`
	DaysLeft int    `yaml:"days_left,omitempty" json:"days_left"`
}

// Certificate names, in the fixed evaluation order.
const (
	CertRolling = "rolling"
	CertSignal  = "signal"
	CertTelecom = "telecom"
)

// Fitness holds the three independent fitness certificates.
type Fitness struct {
	Rolling Certificate `yaml:"rolling" json:"rolling"`
	Signal  Certificate `yaml:"signal" json:"signal"`
	Telecom Certificate `yaml:"telecom" json:"telecom"`
}

// NamedCertificate pairs a certificate with its name.
type NamedCertificate struct {
	Name string
	Certificate
}

// Each returns the certificates in rolling, signal, telecom order.
func (f Fitness) Each() []NamedCertificate {
	return []NamedCertificate{
		{Name: CertRolling, Certificate: f.Rolling},
		{Name: CertSignal, Certificate: f.Signal},
		{Name: CertTelecom, Certificate: f.Telecom},
	}
}

// AllValid reports whether every certificate is valid.
func (f Fitness) AllValid() bool {
	return f.Rolling.Valid && f.Signal.Valid && f.Telecom.Valid
}

// Job card priorities.
const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

// Job card states.
const (
	JobOpen       = "Open"
	JobInProgress = "In Progress"
	JobClosed     = "Closed"
)

// Job card aggregate states.
const (
	JobCardsClear = "Clear"
	JobCardsMinor = "Minor"
	JobCardsMajor = "Major"
)

// JobCard is an individual maintenance work order.
type JobCard struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Priority    string `yaml:"priority" json:"priority"`
	Status      string `yaml:"status" json:"status"`
	AssignedTo  string `yaml:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	CreatedDate string `yaml:"created_date,omitempty" json:"created_date,omitempty"`
}

// JobCards carries aggregate counts and the optional detail list. When
// Entries is non-empty the counts are derived from it.
type JobCards struct {
	Open     int       `yaml:"open" json:"open"`
	Closed   int       `yaml:"closed" json:"closed"`
	Critical int       `yaml:"critical" json:"critical"`
	Status   string    `yaml:"status,omitempty" json:"status"`
	Entries  []JobCard `yaml:"entries,omitempty" json:"entries,omitempty"`
}

// Branding SLA states.
const (
	SLACompliant    = "Compliant"
	SLAAtRisk       = "At Risk"
	SLANonCompliant = "Non-Compliant"
)

// Branding describes an advertising wrap and its exposure SLA.
type Branding struct {
	WrapID        string  `yaml:"wrap_id" json:"wrap_id"`
	Advertiser    string  `yaml:"advertiser" json:"advertiser"`
	RequiredHours float64 `yaml:"required_hours" json:"required_hours"`
	AttainedHours float64 `yaml:"attained_hours" json:"attained_hours"`
	SLAStatus     string  `yaml:"sla_status,omitempty" json:"sla_status"`
	Priority      string  `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// Mileage in kilometres. Variance is always Current - Target.
type Mileage struct {
	Current      int `yaml:"current" json:"current"`
	Target       int `yaml:"target" json:"target"`
	Variance     int `yaml:"variance,omitempty" json:"variance"`
	LastOverhaul int `yaml:"last_overhaul,omitempty" json:"last_overhaul"`
}

// Cleaning states.
const (
	CleaningCompleted  = "Completed"
	CleaningScheduled  = "Scheduled"
	CleaningInProgress = "In Progress"
	CleaningOverdue    = "Overdue"
)

// Cleaning is the interior cleaning schedule.
type Cleaning struct {
	Status        string `yaml:"status" json:"status"`
	NextScheduled string `yaml:"next_scheduled,omitempty" json:"next_scheduled,omitempty"`
	AssignedSlot  string `yaml:"assigned_slot,omitempty" json:"assigned_slot,omitempty"`
	Crew          string `yaml:"crew,omitempty" json:"crew,omitempty"`
}

// Train is one trainset record.
type Train struct {
	ID         string   `yaml:"id" json:"id"`
	Status     Status   `yaml:"status" json:"status"`
	Bay        string   `yaml:"bay" json:"bay"`
	Fitness    Fitness  `yaml:"fitness" json:"fitness"`
	JobCards   JobCards `yaml:"job_cards" json:"job_cards"`
	Branding   Branding `yaml:"branding" json:"branding"`
	Mileage    Mileage  `yaml:"mileage" json:"mileage"`
	Cleaning   Cleaning `yaml:"cleaning" json:"cleaning"`
	AIRank     *int     `yaml:"ai_rank,omitempty" json:"ai_rank"`
	Confidence float64  `yaml:"confidence" json:"confidence"`
}

// HasRank reports whether the train carries a rank from a previous ranking.
func (t Train) HasRank() bool {
	return t.AIRank != nil
}

// Rank returns the assigned rank, or 0 when unranked.
func (t Train) Rank() int {
	if t.AIRank == nil {
		return 0
	}
	return *t.AIRank
}

// Conflict severities.
const (
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// Conflict types.
const (
	ConflictFitness     = "Fitness Certificate"
	ConflictMaintenance = "Maintenance"
)

// Conflict is an advisory about a structural problem with a train.
type Conflict struct {
	ID          string `yaml:"id" json:"id"`
	TrainID     string `yaml:"train_id" json:"train_id"`
	Type        string `yaml:"type" json:"type"`
	Severity    string `yaml:"severity" json:"severity"`
	Description string `yaml:"description" json:"description"`
	Suggestion  string `yaml:"suggestion" json:"suggestion"`
	Impact      string `yaml:"impact" json:"impact"`
	Handled     bool   `yaml:"handled,omitempty" json:"handled"`
}

// Snapshot is a complete fleet fixture: the reference date used for
// derivations, the trains, and any recorded conflicts.
type Snapshot struct {
	ReferenceDate string     `yaml:"reference_date" json:"reference_date"`
	Trains        []Train    `yaml:"trains" json:"trains"`
	Conflicts     []Conflict `yaml:"conflicts,omitempty" json:"conflicts"`
}

// Find returns the index of the train with id, or -1.
func Find(trains []Train, id string) int {
	for i := range trains {
		if trains[i].ID == id {
			return i
		}
	}
	return -1
}
