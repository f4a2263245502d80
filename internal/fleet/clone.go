package fleet

// Clone returns a deep copy of t.
func (t Train) Clone() Train {
	c := t
	if t.AIRank != nil {
		r := *t.AIRank
		c.AIRank = &r
	}
	if t.JobCards.Entries != nil {
		c.JobCards.Entries = append([]JobCard(nil), t.JobCards.Entries...)
	}
	return c
}

// CloneAll deep-copies a fleet.
func CloneAll(trains []Train) []Train {
	if trains == nil {
		return nil
	}
	out := make([]Train, len(trains))
	for i := range trains {
		out[i] = trains[i].Clone()
	}
	return out
}

// Clone deep-copies the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Trains = CloneAll(s.Trains)
	if s.Conflicts != nil {
		c.Conflicts = append([]Conflict(nil), s.Conflicts...)
	}
	return c
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}
