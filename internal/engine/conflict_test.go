package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/induction/internal/fleet"
	"github.com/roach88/induction/internal/testutil"
)

func TestDetectConflicts_Demo(t *testing.T) {
	got := DetectConflicts(fleet.Demo().Trains)
	require.Len(t, got, 6)

	type row struct{ id, train, typ, severity string }
	var rows []row
	for _, c := range got {
		rows = append(rows, row{c.ID, c.TrainID, c.Type, c.Severity})
	}
	assert.Equal(t, []row{
		{"C001", "KM-003", fleet.ConflictFitness, fleet.SeverityCritical},
		{"C002", "KM-003", fleet.ConflictMaintenance, fleet.SeverityCritical},
		{"C003", "KM-005", fleet.ConflictFitness, fleet.SeverityCritical},
		{"C004", "KM-005", fleet.ConflictFitness, fleet.SeverityCritical},
		{"C005", "KM-005", fleet.ConflictFitness, fleet.SeverityCritical},
		{"C006", "KM-005", fleet.ConflictMaintenance, fleet.SeverityHigh},
	}, rows)

	assert.Equal(t, "Rolling stock certificate invalid (expiry 2025-09-12)", got[0].Description)
	assert.Equal(t, "Recertify the rolling certificate or move the train to IBL maintenance", got[0].Suggestion)
	assert.Equal(t, "2 critical job card(s) open", got[1].Description)
	assert.Equal(t, "Recertify the telecom certificate or move the train to IBL maintenance", got[4].Suggestion)
	assert.False(t, got[0].Handled)
}

func TestDetectConflicts_CleanFleet(t *testing.T) {
	trains := []fleet.Train{
		testutil.NewTrain("KM-001").Build(),
		testutil.NewTrain("KM-002").JobCards(3, 0).Build(),
	}
	assert.Empty(t, DetectConflicts(trains))
}

func TestDetectConflicts_MatchesEligibility(t *testing.T) {
	// A train is blocked by a conflict exactly when it is ineligible.
	for _, tr := range fleet.Demo().Trains {
		has := len(DetectConflicts([]fleet.Train{tr})) > 0
		assert.Equal(t, !IsEligible(tr), has, tr.ID)
	}
}

func TestDetectConflicts_DoesNotTouchSeedConflicts(t *testing.T) {
	snap := fleet.Demo()
	seeds := append([]fleet.Conflict(nil), snap.Conflicts...)

	_ = DetectConflicts(snap.Trains)
	assert.Equal(t, seeds, snap.Conflicts)
}
