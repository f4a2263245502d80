package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/induction/internal/fleet"
)

func TestSummarize_Demo(t *testing.T) {
	assert.Equal(t, Summary{
		Total:                6,
		Eligible:             4,
		SuccessRatePercent:   66.7,
		RevenueService:       3,
		Standby:              1,
		Maintenance:          2,
		ExpiringCertificates: 4,
	}, Summarize(fleet.Demo().Trains))
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestBuildPlan_Demo(t *testing.T) {
	trains := fleet.Demo().Trains
	before := fleet.CloneAll(trains)

	plan := BuildPlan(trains)
	assert.Equal(t, before, trains)

	require.Len(t, plan.Entries, 6)
	first := plan.Entries[0]
	assert.Equal(t, PlanEntry{
		Rank:       1,
		TrainID:    "KM-001",
		Status:     fleet.StatusRevenueService,
		Bay:        "B1",
		Score:      94,
		Eligible:   true,
		Confidence: 0.98,
		Breakdown:  Breakdown{Fitness: 30, JobCards: 25, Branding: 15, Mileage: 14, Cleaning: 10},
	}, first)

	last := plan.Entries[5]
	assert.Equal(t, "KM-005", last.TrainID)
	assert.Equal(t, 6, last.Rank)
	assert.False(t, last.Eligible)
	assert.Zero(t, last.Score)

	assert.Len(t, plan.Conflicts, 6)
	assert.Equal(t, 4, plan.Summary.Eligible)
}

func TestPlan_RankedTrains(t *testing.T) {
	plan := BuildPlan(fleet.Demo().Trains)
	ranked := plan.RankedTrains()

	require.Len(t, ranked, 6)
	assert.Equal(t, "KM-004", ranked[1].ID)
	assert.Equal(t, 2, ranked[1].Rank())
}
