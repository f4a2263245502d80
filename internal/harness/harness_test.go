package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ScenarioFiles(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			sc, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(sc)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_ScenarioIDIsDeterministic(t *testing.T) {
	sc, err := LoadScenario("testdata/scenarios/fc-cancelled-km001.yaml")
	require.NoError(t, err)

	result, err := Run(sc)
	require.NoError(t, err)
	require.NotNil(t, result.Scenario)
	assert.Equal(t, "scenario-fc-cancelled-km001", result.Scenario.ID)
	assert.NotEmpty(t, result.Scenario.BaselineDigest)
}

func TestRun_FailingAssertions(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: wrong
description: every assertion is wrong
simulate:
  kind: fc_cancelled
  train: KM-001
assertions:
  - type: applied
    applied: false
  - type: rank_order
    order: [KM-001]
  - type: eligible_count
    count: 6
  - type: score
    train: KM-004
    value: 50
  - type: score
    train: KM-999
    value: 50
  - type: impact
    impact:
      affected_trains_count: 1
  - type: error
    code: NOT_FOUND
`))
	require.NoError(t, err)

	result, err := Run(sc)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 7)
	assert.Contains(t, result.Errors[0], "applied=false")
	assert.Contains(t, result.Errors[1], "[KM-004]")
	assert.Contains(t, result.Errors[3], "KM-004 score 50.0")
	assert.Contains(t, result.Errors[4], "not found")
	assert.Contains(t, result.Errors[5], "affected_trains_count 4 != 1")
	assert.Contains(t, result.Errors[6], "no error")
}

func TestRun_SimulationErrorFailsOutcomeAssertions(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: invalid-kind
description: an unknown kind fails the simulation
simulate:
  kind: meteor_strike
  train: KM-001
assertions:
  - type: error
    code: INVALID_SCENARIO_TYPE
  - type: eligible_count
    count: 4
`))
	require.NoError(t, err)

	result, err := Run(sc)
	require.NoError(t, err)
	assert.Nil(t, result.Scenario)
	require.Error(t, result.SimErr)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "assertion 1")
	assert.Contains(t, result.Errors[0], "successful simulation")
}

func TestRun_BadFixture(t *testing.T) {
	sc := &Scenario{
		Name:        "bad",
		Description: "fixture cannot be read",
		Fixture:     filepath.Join(t.TempDir(), "missing.yaml"),
		Assertions:  []Assertion{{Type: AssertEligibleCount, Count: intPtr(0)}},
	}
	_, err := Run(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load fixture")
}

func intPtr(n int) *int { return &n }
