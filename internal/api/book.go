package api

import (
	"sync"

	"github.com/roach88/induction/internal/engine"
)

// ScenarioBook keeps the what-if scenarios of the current session in
// creation order. Scenarios are immutable once added.
type ScenarioBook struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*engine.Scenario
}

// NewScenarioBook creates an empty book.
func NewScenarioBook() *ScenarioBook {
	return &ScenarioBook{byID: make(map[string]*engine.Scenario)}
}

// Add stores sc. A scenario with an existing ID replaces the old one in place.
func (b *ScenarioBook) Add(sc *engine.Scenario) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.byID[sc.ID]; !ok {
		b.order = append(b.order, sc.ID)
	}
	b.byID[sc.ID] = sc
}

// Get returns the scenario with id.
func (b *ScenarioBook) Get(id string) (*engine.Scenario, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	sc, ok := b.byID[id]
	return sc, ok
}

// List returns all scenarios, oldest first.
func (b *ScenarioBook) List() []*engine.Scenario {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*engine.Scenario, len(b.order))
	for i, id := range b.order {
		out[i] = b.byID[id]
	}
	return out
}

// Clear discards every scenario and returns how many there were.
func (b *ScenarioBook) Clear() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.order)
	b.order = nil
	b.byID = make(map[string]*engine.Scenario)
	return n
}

// Len returns the number of scenarios.
func (b *ScenarioBook) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}
