package harness

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/roach88/induction/internal/engine"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// scoreTolerance absorbs float noise in one-decimal scores.
const scoreTolerance = 1e-9

// EvaluateAssertions checks every assertion against result and returns one
// message per failure, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion) error {
	// Outcome assertions other than error are meaningless after a failed
	// simulation.
	if result.SimErr != nil && a.Type != AssertError {
		return &AssertionError{Type: a.Type, Expected: "successful simulation", Actual: result.SimErr.Error()}
	}

	switch a.Type {
	case AssertRankOrder:
		return assertRankOrder(result.Plan, a.Order)
	case AssertEligibleCount:
		return assertCount(a.Type, *a.Count, result.Plan.Summary.Eligible)
	case AssertConflictCount:
		return assertCount(a.Type, *a.Count, len(result.Plan.Conflicts))
	case AssertScore:
		return assertScore(result.Plan, a.Train, *a.Value)
	case AssertImpact:
		return assertImpact(result.Scenario.Impact, *a.Impact)
	case AssertError:
		return assertError(result.SimErr, engine.ErrorCode(a.Code))
	case AssertApplied:
		if result.Scenario.Applied != *a.Applied {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("applied=%t", *a.Applied),
				Actual:   fmt.Sprintf("applied=%t", result.Scenario.Applied),
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertRankOrder(plan engine.Plan, want []string) error {
	got := make([]string, 0, len(want))
	for i := 0; i < len(want) && i < len(plan.Entries); i++ {
		got = append(got, plan.Entries[i].TrainID)
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		return &AssertionError{
			Type:     AssertRankOrder,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}

func assertCount(typ string, want, got int) error {
	if want != got {
		return &AssertionError{Type: typ, Expected: fmt.Sprintf("%d", want), Actual: fmt.Sprintf("%d", got)}
	}
	return nil
}

func assertScore(plan engine.Plan, trainID string, want float64) error {
	for _, e := range plan.Entries {
		if e.TrainID != trainID {
			continue
		}
		if math.Abs(e.Score-want) > scoreTolerance {
			return &AssertionError{
				Type:     AssertScore,
				Expected: fmt.Sprintf("%s score %.1f", trainID, want),
				Actual:   fmt.Sprintf("%.1f", e.Score),
			}
		}
		return nil
	}
	return &AssertionError{Type: AssertScore, Expected: fmt.Sprintf("train %s in plan", trainID), Actual: "not found"}
}

func assertImpact(got engine.Impact, want ImpactExpect) error {
	var diffs []string
	if want.EligibleTrainsChange != nil && *want.EligibleTrainsChange != got.EligibleTrainsChange {
		diffs = append(diffs, fmt.Sprintf("eligible_trains_change %d != %d", got.EligibleTrainsChange, *want.EligibleTrainsChange))
	}
	if want.ServiceCapacityImpactPercent != nil &&
		math.Abs(*want.ServiceCapacityImpactPercent-got.ServiceCapacityImpactPercent) > 0.05 {
		diffs = append(diffs, fmt.Sprintf("service_capacity_impact_percent %g != %g", got.ServiceCapacityImpactPercent, *want.ServiceCapacityImpactPercent))
	}
	if want.AffectedTrainsCount != nil && *want.AffectedTrainsCount != got.AffectedTrainsCount {
		diffs = append(diffs, fmt.Sprintf("affected_trains_count %d != %d", got.AffectedTrainsCount, *want.AffectedTrainsCount))
	}
	if len(diffs) > 0 {
		return &AssertionError{Type: AssertImpact, Expected: "matching impact", Actual: strings.Join(diffs, "; ")}
	}
	return nil
}

func assertError(err error, want engine.ErrorCode) error {
	var ee *engine.Error
	if !errors.As(err, &ee) {
		actual := "no error"
		if err != nil {
			actual = err.Error()
		}
		return &AssertionError{Type: AssertError, Expected: string(want), Actual: actual}
	}
	if ee.Code != want {
		return &AssertionError{Type: AssertError, Expected: string(want), Actual: string(ee.Code)}
	}
	return nil
}
