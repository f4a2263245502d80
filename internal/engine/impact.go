package engine

import (
	"math"

	"github.com/roach88/induction/internal/fleet"
)

// Impact summarizes how a scenario changes the fleet.
type Impact struct {
	// EligibleTrainsChange is eligible(modified) - eligible(baseline).
	EligibleTrainsChange int `json:"eligible_trains_change"`

	// ServiceCapacityImpactPercent is |EligibleTrainsChange| as a percentage
	// of the baseline eligible count, 0 when the baseline has none.
	ServiceCapacityImpactPercent float64 `json:"service_capacity_impact_percent"`

	// AffectedTrainsCount counts trains whose status, certificate validity,
	// critical job cards or rank differ from the baseline.
	AffectedTrainsCount int `json:"affected_trains_count"`
}

// IsZero reports whether the scenario changed nothing measurable.
func (i Impact) IsZero() bool {
	return i == Impact{}
}

func computeImpact(baseline, modified []fleet.Train) Impact {
	before := CountEligible(baseline)
	change := CountEligible(modified) - before

	var pct float64
	if before > 0 {
		pct = math.Abs(float64(change)) / float64(before) * 100
	}

	affected := 0
	for _, b := range baseline {
		j := fleet.Find(modified, b.ID)
		if j < 0 || trainChanged(b, modified[j]) {
			affected++
		}
	}

	return Impact{
		EligibleTrainsChange:         change,
		ServiceCapacityImpactPercent: pct,
		AffectedTrainsCount:          affected,
	}
}

func trainChanged(a, b fleet.Train) bool {
	if a.Status != b.Status || a.JobCards.Critical != b.JobCards.Critical {
		return true
	}
	if a.Fitness.Rolling.Valid != b.Fitness.Rolling.Valid ||
		a.Fitness.Signal.Valid != b.Fitness.Signal.Valid ||
		a.Fitness.Telecom.Valid != b.Fitness.Telecom.Valid {
		return true
	}
	if a.HasRank() != b.HasRank() {
		return true
	}
	return a.HasRank() && a.Rank() != b.Rank()
}
