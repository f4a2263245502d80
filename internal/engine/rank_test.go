package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/induction/internal/fleet"
	"github.com/roach88/induction/internal/testutil"
)

func ids(trains []fleet.Train) []string {
	out := make([]string, len(trains))
	for i, t := range trains {
		out[i] = t.ID
	}
	return out
}

func ranks(trains []fleet.Train) map[string]int {
	out := make(map[string]int, len(trains))
	for _, t := range trains {
		out[t.ID] = t.Rank()
	}
	return out
}

func TestRank_Demo(t *testing.T) {
	ranked := Rank(fleet.Demo().Trains)

	assert.Equal(t, []string{"KM-001", "KM-004", "KM-002", "KM-006", "KM-003", "KM-005"}, ids(ranked))
	for i, tr := range ranked {
		assert.Equal(t, i+1, tr.Rank(), tr.ID)
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	trains := fleet.Demo().Trains
	before := fleet.CloneAll(trains)

	_ = Rank(trains)
	assert.Equal(t, before, trains)
}

func TestRank_UnrankedTieBreaksByID(t *testing.T) {
	trains := []fleet.Train{
		testutil.NewTrain("KM-020").Build(),
		testutil.NewTrain("KM-010").Build(),
		testutil.NewTrain("KM-015").Build(),
	}
	assert.Equal(t, []string{"KM-010", "KM-015", "KM-020"}, ids(Rank(trains)))
}

func TestRank_RankedBeforeUnranked(t *testing.T) {
	trains := []fleet.Train{
		testutil.NewTrain("KM-001").Build(),
		testutil.NewTrain("KM-002").Rank(7).Build(),
		testutil.NewTrain("KM-003").Rank(2).Build(),
	}
	assert.Equal(t, []string{"KM-003", "KM-002", "KM-001"}, ids(Rank(trains)))
}

func TestRank_EligibleTierFirst(t *testing.T) {
	trains := []fleet.Train{
		testutil.NewTrain("KM-001").Rank(1).Invalid(fleet.CertTelecom).Build(),
		testutil.NewTrain("KM-002").Rank(9).Build(),
		testutil.NewTrain("KM-003").JobCards(1, 1).Build(),
		testutil.NewTrain("KM-004").Build(),
	}

	ranked := Rank(trains)
	assert.Equal(t, []string{"KM-002", "KM-004", "KM-001", "KM-003"}, ids(ranked))
}

func TestRank_Properties(t *testing.T) {
	fleets := [][]fleet.Train{
		fleet.Demo().Trains,
		nil,
		{testutil.NewTrain("KM-001").Invalid(fleet.CertRolling).Build()},
		{
			testutil.NewTrain("KM-003").Rank(2).Build(),
			testutil.NewTrain("KM-001").Rank(2).JobCards(0, 3).Build(),
			testutil.NewTrain("KM-002").Build(),
			testutil.NewTrain("KM-004").Rank(1).Build(),
		},
	}

	for _, trains := range fleets {
		ranked := Rank(trains)
		require.Len(t, ranked, len(trains))

		// Permutation of 1..N.
		seen := make(map[int]bool)
		for _, tr := range ranked {
			r := tr.Rank()
			assert.True(t, r >= 1 && r <= len(trains), "rank %d out of range", r)
			assert.False(t, seen[r], "rank %d assigned twice", r)
			seen[r] = true
		}

		// Eligible strictly before ineligible.
		worstEligible, bestIneligible := 0, len(trains)+1
		for _, tr := range ranked {
			if IsEligible(tr) {
				worstEligible = max(worstEligible, tr.Rank())
			} else {
				bestIneligible = min(bestIneligible, tr.Rank())
			}
		}
		assert.Less(t, worstEligible, bestIneligible)

		// Idempotent on the unchanged fleet.
		assert.Equal(t, ranks(ranked), ranks(Rank(trains)))
		// Stable when re-ranking its own output.
		assert.Equal(t, ranks(ranked), ranks(Rank(ranked)))
	}
}

func TestAssignRanks_InPlaceKeepsOrder(t *testing.T) {
	trains := fleet.Demo().Trains
	AssignRanks(trains)

	assert.Equal(t, []string{"KM-001", "KM-002", "KM-003", "KM-004", "KM-005", "KM-006"}, ids(trains))
	assert.Equal(t, map[string]int{
		"KM-001": 1, "KM-002": 3, "KM-003": 5, "KM-004": 2, "KM-005": 6, "KM-006": 4,
	}, ranks(trains))
}

func TestRankOrder(t *testing.T) {
	trains := []fleet.Train{
		testutil.NewTrain("KM-002").Rank(2).Build(),
		testutil.NewTrain("KM-003").Build(),
		testutil.NewTrain("KM-001").Rank(1).Build(),
	}
	assert.Equal(t, []string{"KM-001", "KM-002", "KM-003"}, RankOrder(trains))
}
