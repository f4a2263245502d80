package engine

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/induction/internal/fleet"
)

func newSimulator(ids ...string) *Simulator {
	return &Simulator{
		Today: "2025-09-26",
		IDs:   NewFixedGenerator(ids...),
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("meteor_strike")
	require.Error(t, err)
	assert.True(t, IsInvalidScenarioType(err))
	assert.False(t, IsNotFound(err))
}

func TestSimulate_FCCancelled(t *testing.T) {
	baseline := fleet.Demo().Trains
	sc, err := newSimulator("sc-1").Simulate(baseline, "fc_cancelled", "KM-001", fleet.TrainPatch{})
	require.NoError(t, err)

	assert.Equal(t, "sc-1", sc.ID)
	assert.Equal(t, KindFCCancelled, sc.Kind)
	assert.Equal(t, "FC Cancelled - KM-001", sc.Name)
	assert.Equal(t, "Fitness Certificate cancelled for KM-001. Train removed from service immediately.", sc.Description)
	assert.True(t, sc.Applied)

	km001 := sc.ModifiedFleet[fleet.Find(sc.ModifiedFleet, "KM-001")]
	assert.False(t, km001.Fitness.Rolling.Valid)
	assert.Equal(t, fleet.StatusOutOfService, km001.Status)
	assert.Equal(t, 0.0, km001.Confidence)

	assert.Equal(t, Impact{
		EligibleTrainsChange:         -1,
		ServiceCapacityImpactPercent: 25,
		AffectedTrainsCount:          4,
	}, sc.Impact)
	assert.Equal(t, []string{"KM-004", "KM-002", "KM-006", "KM-001", "KM-003", "KM-005"}, ids(sc.Ranked()))
}

func TestSimulate_FCCancelledImpactPercent(t *testing.T) {
	// Removing one eligible train costs 100/|eligible| percent of capacity.
	baseline := fleet.Demo().Trains
	eligible := CountEligible(baseline)
	for _, tr := range baseline {
		if !IsEligible(tr) {
			continue
		}
		sc, err := newSimulator("x").Simulate(baseline, string(KindFCCancelled), tr.ID, fleet.TrainPatch{})
		require.NoError(t, err)
		assert.Equal(t, -1, sc.Impact.EligibleTrainsChange, tr.ID)
		assert.InDelta(t, 100/float64(eligible), sc.Impact.ServiceCapacityImpactPercent, 1e-9, tr.ID)
	}
}

func TestSimulate_CriticalMaintenance(t *testing.T) {
	sc, err := newSimulator("sc-1").Simulate(fleet.Demo().Trains, "critical_maintenance", "KM-004", fleet.TrainPatch{})
	require.NoError(t, err)

	km004 := sc.ModifiedFleet[fleet.Find(sc.ModifiedFleet, "KM-004")]
	assert.Equal(t, 1, km004.JobCards.Critical)
	assert.Equal(t, 1, km004.JobCards.Open)
	assert.Equal(t, fleet.JobCardsMajor, km004.JobCards.Status)
	assert.Equal(t, fleet.StatusIBLMaintenance, km004.Status)
	assert.InDelta(t, 0.55, km004.Confidence, 1e-9)

	assert.Equal(t, -1, sc.Impact.EligibleTrainsChange)
	assert.Equal(t, 3, sc.Impact.AffectedTrainsCount)
}

func TestSimulate_CriticalMaintenanceConfidenceFloor(t *testing.T) {
	sc, err := newSimulator("sc-1").Simulate(fleet.Demo().Trains, "fc_cancelled", "KM-002", fleet.TrainPatch{})
	require.NoError(t, err)

	// Chain from a baseline whose train already has zero confidence.
	sc2, err := newSimulator("sc-2").Simulate(sc.ModifiedFleet, "critical_maintenance", "KM-002", fleet.TrainPatch{})
	require.NoError(t, err)
	km002 := sc2.ModifiedFleet[fleet.Find(sc2.ModifiedFleet, "KM-002")]
	assert.Equal(t, 0.1, km002.Confidence)
}

func TestSimulate_CriticalMaintenanceWithEntries(t *testing.T) {
	sc, err := newSimulator("sc-1").Simulate(fleet.Demo().Trains, "critical_maintenance", "KM-006", fleet.TrainPatch{})
	require.NoError(t, err)

	km006 := sc.ModifiedFleet[fleet.Find(sc.ModifiedFleet, "KM-006")]
	require.Len(t, km006.JobCards.Entries, 4)
	last := km006.JobCards.Entries[3]
	assert.Equal(t, fleet.PriorityCritical, last.Priority)
	assert.Equal(t, fleet.JobOpen, last.Status)
	assert.Equal(t, "2025-09-26", last.CreatedDate)

	// Aggregates agree with the list.
	assert.Equal(t, 1, km006.JobCards.Open)
	assert.Equal(t, 3, km006.JobCards.Closed)
	assert.Equal(t, 1, km006.JobCards.Critical)
}

func TestSimulate_EmergencyRepair(t *testing.T) {
	sc, err := newSimulator("sc-1").Simulate(fleet.Demo().Trains, "emergency_repair", "KM-004", fleet.TrainPatch{})
	require.NoError(t, err)

	km004 := sc.ModifiedFleet[fleet.Find(sc.ModifiedFleet, "KM-004")]
	assert.Equal(t, fleet.Certificate{Valid: false, Expiry: "2025-09-26", DaysLeft: 0}, km004.Fitness.Rolling)
	assert.Equal(t, fleet.Certificate{Valid: false, Expiry: "2025-09-26", DaysLeft: 0}, km004.Fitness.Signal)
	assert.Equal(t, fleet.Certificate{Valid: true, Expiry: "2025-10-15", DaysLeft: 19}, km004.Fitness.Telecom)
	assert.Equal(t, fleet.StatusEmergencyRepair, km004.Status)
	assert.Equal(t, 2, km004.JobCards.Critical)
	assert.Equal(t, 0, km004.JobCards.Open)
	assert.Equal(t, 0.0, km004.Confidence)

	assert.Equal(t, -1, sc.Impact.EligibleTrainsChange)
	assert.Equal(t, 25.0, sc.Impact.ServiceCapacityImpactPercent)
	assert.Equal(t, 3, sc.Impact.AffectedTrainsCount)
}

func TestSimulate_EmergencyRepairWithEntries(t *testing.T) {
	sc, err := newSimulator("sc-1").Simulate(fleet.Demo().Trains, "emergency_repair", "KM-006", fleet.TrainPatch{})
	require.NoError(t, err)

	km006 := sc.ModifiedFleet[fleet.Find(sc.ModifiedFleet, "KM-006")]
	assert.Len(t, km006.JobCards.Entries, 5)
	assert.Equal(t, 2, km006.JobCards.Critical)
	assert.Equal(t, Impact{
		EligibleTrainsChange:         -1,
		ServiceCapacityImpactPercent: 25,
		AffectedTrainsCount:          2,
	}, sc.Impact)
}

func TestSimulate_StandbyActivation(t *testing.T) {
	sc, err := newSimulator("sc-1").Simulate(fleet.Demo().Trains, "standby_activation", "KM-002", fleet.TrainPatch{})
	require.NoError(t, err)

	assert.True(t, sc.Applied)
	assert.Equal(t, "Standby Activation - KM-002", sc.Name)

	km002 := sc.ModifiedFleet[fleet.Find(sc.ModifiedFleet, "KM-002")]
	assert.Equal(t, fleet.StatusRevenueService, km002.Status)
	assert.Equal(t, 0.95, km002.Confidence)

	assert.Equal(t, Impact{EligibleTrainsChange: 0, ServiceCapacityImpactPercent: 0, AffectedTrainsCount: 3}, sc.Impact)
}

func TestSimulate_StandbyActivationPreconditionUnmet(t *testing.T) {
	baseline := fleet.Demo().Trains
	sc, err := newSimulator("sc-1").Simulate(baseline, "standby_activation", "KM-001", fleet.TrainPatch{})
	require.NoError(t, err, "unmet precondition is not an error")

	assert.False(t, sc.Applied)
	assert.True(t, sc.Impact.IsZero())
	assert.Equal(t, baseline, sc.ModifiedFleet)
}

func TestSimulate_Custom(t *testing.T) {
	fitness := fleet.Fitness{
		Rolling: fleet.Certificate{Valid: true, Expiry: "2025-12-01"},
		Signal:  fleet.Certificate{Valid: true, Expiry: "2025-12-01"},
		Telecom: fleet.Certificate{Valid: true, Expiry: "2025-12-01"},
	}
	patch := fleet.TrainPatch{
		Fitness:  &fitness,
		JobCards: &fleet.JobCards{Open: 3, Closed: 12, Critical: 0},
	}

	sc, err := newSimulator("sc-1").Simulate(fleet.Demo().Trains, "custom", "KM-003", patch)
	require.NoError(t, err)

	assert.Equal(t, "Custom Modification - KM-003", sc.Name)
	km003 := sc.ModifiedFleet[fleet.Find(sc.ModifiedFleet, "KM-003")]
	assert.True(t, IsEligible(km003))
	assert.Equal(t, 66, km003.Fitness.Rolling.DaysLeft, "derived fields recomputed")
	assert.Equal(t, fleet.JobCardsMinor, km003.JobCards.Status)

	assert.Equal(t, Impact{
		EligibleTrainsChange:         1,
		ServiceCapacityImpactPercent: 25,
		AffectedTrainsCount:          3,
	}, sc.Impact)
	assert.Equal(t, []string{"KM-001", "KM-004", "KM-002", "KM-006", "KM-003", "KM-005"}, ids(sc.Ranked()))
}

func TestSimulate_CustomInvalidPatch(t *testing.T) {
	bad := fleet.Status("Scrapped")
	_, err := newSimulator().Simulate(fleet.Demo().Trains, "custom", "KM-003", fleet.TrainPatch{Status: &bad})
	require.Error(t, err)
	assert.True(t, IsInvalidPatch(err))
}

func TestSimulate_Errors(t *testing.T) {
	baseline := fleet.Demo().Trains

	_, err := newSimulator().Simulate(baseline, "fc_cancelled", "KM-404", fleet.TrainPatch{})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var engErr *Error
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, "KM-404", engErr.TrainID)
	assert.Contains(t, err.Error(), "NOT_FOUND")

	// An unknown kind fails fast instead of falling through to custom.
	_, err = newSimulator().Simulate(baseline, "Custom", "KM-001", fleet.TrainPatch{})
	assert.True(t, IsInvalidScenarioType(err))

	_, err = newSimulator().Run(baseline, "KM-001", nil)
	assert.True(t, IsInvalidScenarioType(err))
}

func TestSimulate_NeverMutatesBaseline(t *testing.T) {
	fitness := fleet.Demo().Trains[0].Fitness
	patches := map[Kind]fleet.TrainPatch{
		KindCustom: {Fitness: &fitness, Bay: new(string)},
	}

	for _, k := range Kinds {
		for _, tr := range fleet.Demo().Trains {
			baseline := fleet.Demo().Trains
			before := fleet.CloneAll(baseline)

			_, err := newSimulator("x").Simulate(baseline, string(k), tr.ID, patches[k])
			require.NoError(t, err)
			assert.Equal(t, before, baseline, "%s on %s mutated the baseline", k, tr.ID)
		}
	}
}

func TestSimulate_ScenariosAreIndependent(t *testing.T) {
	baseline := fleet.Demo().Trains
	sim := newSimulator("a", "b")

	a, err := sim.Simulate(baseline, "fc_cancelled", "KM-001", fleet.TrainPatch{})
	require.NoError(t, err)
	b, err := sim.Simulate(baseline, "critical_maintenance", "KM-004", fleet.TrainPatch{})
	require.NoError(t, err)

	assert.Equal(t, a.BaselineDigest, b.BaselineDigest)

	// b was derived from the baseline, not from a.
	km001 := b.ModifiedFleet[fleet.Find(b.ModifiedFleet, "KM-001")]
	assert.True(t, km001.Fitness.Rolling.Valid)

	// Mutating one scenario's fleet does not leak into the other.
	a.ModifiedFleet[3].Status = fleet.StatusStandby
	assert.Equal(t, fleet.StatusIBLMaintenance, b.ModifiedFleet[3].Status)
}

func TestSimulate_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	sim := newSimulator("sc-1")
	sim.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := sim.Simulate(fleet.Demo().Trains, "fc_cancelled", "KM-001", fleet.TrainPatch{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "scenario simulated")
	assert.Contains(t, buf.String(), "kind=fc_cancelled")
}

func TestSimulator_DefaultsToday(t *testing.T) {
	sim := &Simulator{}
	sc, err := sim.Simulate(fleet.Demo().Trains, "emergency_repair", "KM-001", fleet.TrainPatch{})
	require.NoError(t, err)

	km001 := sc.ModifiedFleet[fleet.Find(sc.ModifiedFleet, "KM-001")]
	_, err = fleet.ParseDate(km001.Fitness.Rolling.Expiry)
	assert.NoError(t, err)
	assert.Len(t, sc.ID, 36)
}
