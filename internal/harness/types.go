package harness

import (
	"github.com/roach88/induction/internal/engine"
	"github.com/roach88/induction/internal/fleet"
)

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Errors holds one message per failed assertion.
	Errors []string `json:"errors,omitempty"`

	// Plan is the ranked plan of the outcome fleet: the modified fleet
	// after a successful simulation, the baseline otherwise.
	Plan engine.Plan `json:"plan"`

	// Scenario is the simulation result, nil without a simulate block or
	// when the simulation failed.
	Scenario *engine.Scenario `json:"scenario,omitempty"`

	// SimErr is the error the simulation returned, if any.
	SimErr error `json:"-"`

	trains []fleet.Train
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError records a failed assertion.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Trains returns the outcome fleet.
func (r *Result) Trains() []fleet.Train {
	return r.trains
}
