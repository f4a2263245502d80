package harness

import (
	"errors"
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/induction/internal/canon"
	"github.com/roach88/induction/internal/engine"
)

// Snapshot renders the outcome of a scenario as canonical JSON: the
// ranking, eligible and conflict counts, and the simulation's applied flag
// and impact. A failed simulation renders only its error code. Scores and
// percentages are decimal strings.
func Snapshot(name string, result *Result) ([]byte, error) {
	return canon.Marshal(snapshotMap(name, result))
}

func snapshotMap(name string, result *Result) map[string]any {
	if result.SimErr != nil {
		code := "ERROR"
		var ee *engine.Error
		if errors.As(result.SimErr, &ee) {
			code = string(ee.Code)
		}
		return map[string]any{"name": name, "error": code}
	}

	ranking := make([]any, len(result.Plan.Entries))
	for i, e := range result.Plan.Entries {
		ranking[i] = map[string]any{
			"rank":     e.Rank,
			"train_id": e.TrainID,
			"score":    strconv.FormatFloat(e.Score, 'f', 1, 64),
			"eligible": e.Eligible,
		}
	}

	m := map[string]any{
		"name":           name,
		"ranking":        ranking,
		"eligible_count": result.Plan.Summary.Eligible,
		"conflict_count": len(result.Plan.Conflicts),
	}
	if sc := result.Scenario; sc != nil {
		m["applied"] = sc.Applied
		m["impact"] = map[string]any{
			"eligible_trains_change":          sc.Impact.EligibleTrainsChange,
			"service_capacity_impact_percent": strconv.FormatFloat(sc.Impact.ServiceCapacityImpactPercent, 'f', -1, 64),
			"affected_trains_count":           sc.Impact.AffectedTrainsCount,
		}
	}
	return m
}

// RunWithGolden runs a scenario and compares its snapshot against
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(sc)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, sc.Name, result)
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
