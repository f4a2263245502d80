package engine

import "github.com/roach88/induction/internal/fleet"

// ExpiryWarningDays is the horizon for counting certificates as expiring.
const ExpiryWarningDays = 7

// Summary is the fleet overview shown with an induction plan.
type Summary struct {
	Total              int     `json:"total"`
	Eligible           int     `json:"eligible"`
	SuccessRatePercent float64 `json:"success_rate_percent"`
	RevenueService     int     `json:"revenue_service"`
	Standby            int     `json:"standby"`
	Maintenance        int     `json:"maintenance"`

	// ExpiringCertificates counts trains with a valid certificate expiring
	// within ExpiryWarningDays.
	ExpiringCertificates int `json:"expiring_certificates"`
}

// Summarize computes the fleet overview.
func Summarize(trains []fleet.Train) Summary {
	s := Summary{Total: len(trains)}
	for _, t := range trains {
		if IsEligible(t) {
			s.Eligible++
		}
		switch t.Status {
		case fleet.StatusRevenueService:
			s.RevenueService++
		case fleet.StatusStandby:
			s.Standby++
		case fleet.StatusIBLMaintenance:
			s.Maintenance++
		}
		if fleet.ExpiringSoon(t, ExpiryWarningDays) {
			s.ExpiringCertificates++
		}
	}
	if s.Total > 0 {
		s.SuccessRatePercent = round1(float64(s.Eligible) / float64(s.Total) * 100)
	}
	return s
}

// PlanEntry is one line of an induction plan.
type PlanEntry struct {
	Rank       int          `json:"rank"`
	TrainID    string       `json:"train_id"`
	Status     fleet.Status `json:"status"`
	Bay        string       `json:"bay"`
	Score      float64      `json:"score"`
	Eligible   bool         `json:"eligible"`
	Confidence float64      `json:"confidence"`
	Breakdown  Breakdown    `json:"breakdown"`
}

// Plan is a ranked induction plan with its summary and detected conflicts.
type Plan struct {
	Entries   []PlanEntry      `json:"entries"`
	Summary   Summary          `json:"summary"`
	Conflicts []fleet.Conflict `json:"conflicts"`
}

// BuildPlan ranks trains and assembles the plan. trains is not modified.
func BuildPlan(trains []fleet.Train) Plan {
	ranked := Rank(trains)

	entries := make([]PlanEntry, len(ranked))
	for i, t := range ranked {
		a := Assess(t)
		entries[i] = PlanEntry{
			Rank:       t.Rank(),
			TrainID:    t.ID,
			Status:     t.Status,
			Bay:        t.Bay,
			Score:      a.Score,
			Eligible:   a.Eligible,
			Confidence: t.Confidence,
			Breakdown:  a.Breakdown,
		}
	}

	return Plan{
		Entries:   entries,
		Summary:   Summarize(ranked),
		Conflicts: DetectConflicts(trains),
	}
}

// RankedTrains returns the plan's trains in plan order as rank assignments,
// suitable for committing back to a fleet store.
func (p Plan) RankedTrains() []fleet.Train {
	out := make([]fleet.Train, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = fleet.Train{ID: e.TrainID, AIRank: fleet.IntPtr(e.Rank)}
	}
	return out
}
