package engine

import "github.com/roach88/induction/internal/fleet"

// IsEligible reports whether t may be inducted into revenue service: all
// three fitness certificates valid and no critical job cards.
func IsEligible(t fleet.Train) bool {
	return t.Fitness.AllValid() && t.JobCards.Critical == 0
}

// CountEligible returns the number of eligible trains.
func CountEligible(trains []fleet.Train) int {
	n := 0
	for _, t := range trains {
		if IsEligible(t) {
			n++
		}
	}
	return n
}
