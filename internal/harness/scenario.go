package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/induction/internal/engine"
	"github.com/roach88/induction/internal/fleet"
)

// Scenario is one harness case.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Fixture is a fleet YAML file. Relative paths resolve against the
	// scenario file's directory. Empty means the demo fleet.
	Fixture string `yaml:"fixture,omitempty"`

	// Simulate is the what-if to run. Without it the assertions apply to
	// the baseline fleet.
	Simulate *Simulation `yaml:"simulate,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// Simulation selects the scenario kind and target train.
type Simulation struct {
	Kind  string           `yaml:"kind"`
	Train string           `yaml:"train"`
	Patch fleet.TrainPatch `yaml:"patch,omitempty"`
}

// ImpactExpect is a subset match on engine.Impact. Nil fields are not
// checked.
type ImpactExpect struct {
	EligibleTrainsChange         *int     `yaml:"eligible_trains_change,omitempty"`
	ServiceCapacityImpactPercent *float64 `yaml:"service_capacity_impact_percent,omitempty"`
	AffectedTrainsCount          *int     `yaml:"affected_trains_count,omitempty"`
}

// Assertion checks one property of the outcome.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Order is the expected leading train IDs (rank_order).
	Order []string `yaml:"order,omitempty"`

	// Count is the expected number (eligible_count, conflict_count).
	Count *int `yaml:"count,omitempty"`

	// Train and Value check one train's score (score).
	Train string   `yaml:"train,omitempty"`
	Value *float64 `yaml:"value,omitempty"`

	Impact *ImpactExpect `yaml:"impact,omitempty"`

	// Code is the expected engine error code (error).
	Code string `yaml:"code,omitempty"`

	// Applied is whether the mutation took effect (applied).
	Applied *bool `yaml:"applied,omitempty"`
}

// Assertion types.
const (
	AssertRankOrder     = "rank_order"
	AssertEligibleCount = "eligible_count"
	AssertConflictCount = "conflict_count"
	AssertScore         = "score"
	AssertImpact        = "impact"
	AssertError         = "error"
	AssertApplied       = "applied"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected, and a relative fixture path is resolved against the file's
// directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	sc, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if sc.Fixture != "" && !filepath.IsAbs(sc.Fixture) {
		sc.Fixture = filepath.Join(filepath.Dir(path), sc.Fixture)
	}
	if sc.Fixture != "" {
		if _, err := os.Stat(sc.Fixture); err != nil {
			return nil, fmt.Errorf("invalid scenario: fixture not found: %s", sc.Fixture)
		}
	}
	return sc, nil
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Simulate != nil {
		if s.Simulate.Kind == "" {
			return fmt.Errorf("simulate: kind is required")
		}
		if s.Simulate.Train == "" {
			return fmt.Errorf("simulate: train is required")
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], s.Simulate != nil); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion, simulated bool) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertRankOrder:
		if len(a.Order) == 0 {
			return fmt.Errorf("assertions[%d]: order is required for rank_order", index)
		}
	case AssertEligibleCount, AssertConflictCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for %s", index, a.Type)
		}
	case AssertScore:
		if a.Train == "" || a.Value == nil {
			return fmt.Errorf("assertions[%d]: train and value are required for score", index)
		}
	case AssertImpact:
		if a.Impact == nil {
			return fmt.Errorf("assertions[%d]: impact is required for impact", index)
		}
	case AssertError:
		switch engine.ErrorCode(a.Code) {
		case engine.ErrCodeNotFound, engine.ErrCodeInvalidScenarioType, engine.ErrCodeInvalidPatch:
		default:
			return fmt.Errorf("assertions[%d]: unknown error code %q", index, a.Code)
		}
	case AssertApplied:
		if a.Applied == nil {
			return fmt.Errorf("assertions[%d]: applied is required for applied", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	switch a.Type {
	case AssertImpact, AssertError, AssertApplied:
		if !simulated {
			return fmt.Errorf("assertions[%d]: %s requires a simulate block", index, a.Type)
		}
	}
	return nil
}
