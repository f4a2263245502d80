package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/induction/internal/engine"
	"github.com/roach88/induction/internal/fleet"
)

// Run executes a scenario and evaluates its assertions.
//
// The simulation date is the fixture's reference date and the scenario ID
// is derived from the scenario name, so identical inputs produce identical
// results. A simulation error is part of the outcome, not a Run error; Run
// fails only when the fixture cannot be loaded.
func Run(sc *Scenario) (*Result, error) {
	snap, err := loadFixture(sc.Fixture)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture: %w", err)
	}

	result := NewResult()
	result.trains = snap.Trains

	if sc.Simulate != nil {
		sim := &engine.Simulator{
			Today:  snap.ReferenceDate,
			IDs:    engine.NewFixedGenerator("scenario-" + sc.Name),
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		}
		out, err := sim.Simulate(snap.Trains, sc.Simulate.Kind, sc.Simulate.Train, sc.Simulate.Patch)
		if err != nil {
			result.SimErr = err
		} else {
			result.Scenario = out
			result.trains = out.ModifiedFleet
		}
	}

	result.Plan = engine.BuildPlan(result.trains)

	for _, msg := range EvaluateAssertions(result, sc.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func loadFixture(path string) (fleet.Snapshot, error) {
	if path == "" {
		return fleet.Demo(), nil
	}
	return fleet.LoadFile(path)
}
