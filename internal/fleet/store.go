package fleet

import (
	"errors"
	"fmt"
	"sync"
)

// ErrTrainNotFound is returned when a train ID is not in the fleet.
var ErrTrainNotFound = errors.New("train not found")

// Store owns the authoritative fleet. Readers receive deep copies; writers
// replace records copy-on-write, so previously handed-out snapshots are
// never mutated.
type Store struct {
	mu       sync.RWMutex
	snap     Snapshot
	revision int64
}

// NewStore creates a store holding a copy of snap.
func NewStore(snap Snapshot) *Store {
	return &Store{snap: snap.Clone()}
}

// Snapshot returns a deep copy of the current fleet.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Trains returns a deep copy of the current trains.
func (s *Store) Trains() []Train {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CloneAll(s.snap.Trains)
}

// Revision increments on every successful write.
func (s *Store) Revision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Train returns a copy of the train with id.
func (s *Store) Train(id string) (Train, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := Find(s.snap.Trains, id)
	if i < 0 {
		return Train{}, fmt.Errorf("%w: %s", ErrTrainNotFound, id)
	}
	return s.snap.Trains[i].Clone(), nil
}

// Update applies patch to the train with id, re-derives it and returns the
// new record.
func (s *Store) Update(id string, patch TrainPatch) (Train, error) {
	if err := patch.Validate(); err != nil {
		return Train{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := Find(s.snap.Trains, id)
	if i < 0 {
		return Train{}, fmt.Errorf("%w: %s", ErrTrainNotFound, id)
	}

	updated := patch.Apply(s.snap.Trains[i])
	if err := updated.Derive(s.snap.ReferenceDate); err != nil {
		return Train{}, err
	}

	next := CloneAll(s.snap.Trains)
	next[i] = updated
	s.snap.Trains = next
	s.revision++
	return updated.Clone(), nil
}

// CommitRanks records the ranks of an approved plan so later rankings
// start from them. Trains absent from ranked keep their rank.
func (s *Store) CommitRanks(ranked []Train) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := CloneAll(s.snap.Trains)
	for _, r := range ranked {
		if i := Find(next, r.ID); i >= 0 && r.AIRank != nil {
			next[i].AIRank = IntPtr(*r.AIRank)
		}
	}
	s.snap.Trains = next
	s.revision++
}

// SetConflictHandled marks a recorded conflict as handled.
func (s *Store) SetConflictHandled(id string, handled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snap.Conflicts {
		if s.snap.Conflicts[i].ID == id {
			next := append([]Conflict(nil), s.snap.Conflicts...)
			next[i].Handled = handled
			s.snap.Conflicts = next
			s.revision++
			return nil
		}
	}
	return fmt.Errorf("conflict %q not found", id)
}
