package engine

import (
	"sort"

	"github.com/roach88/induction/internal/fleet"
)

// Rank returns a deep copy of trains with AIRank set to 1..N, ordered by
// the new rank. The input is not modified.
//
// Eligible trains take ranks 1..K and ineligible trains K+1..N. Within each
// tier trains keep the order of their previous rank; trains with a previous
// rank precede those without, and ties break by ID.
func Rank(trains []fleet.Train) []fleet.Train {
	work := fleet.CloneAll(trains)
	order := rankOrder(work)

	out := make([]fleet.Train, len(work))
	for r, i := range order {
		work[i].AIRank = fleet.IntPtr(r + 1)
		out[r] = work[i]
	}
	return out
}

// AssignRanks sets AIRank on every train in place without reordering the
// slice. Callers must own trains.
func AssignRanks(trains []fleet.Train) {
	for r, i := range rankOrder(trains) {
		trains[i].AIRank = fleet.IntPtr(r + 1)
	}
}

// rankOrder returns indexes into trains in rank order.
func rankOrder(trains []fleet.Train) []int {
	eligible := make([]bool, len(trains))
	order := make([]int, len(trains))
	for i, t := range trains {
		eligible[i] = IsEligible(t)
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if eligible[i] != eligible[j] {
			return eligible[i]
		}
		return priorRankLess(trains[i], trains[j])
	})
	return order
}

func priorRankLess(a, b fleet.Train) bool {
	switch {
	case a.HasRank() && b.HasRank():
		if a.Rank() != b.Rank() {
			return a.Rank() < b.Rank()
		}
	case a.HasRank():
		return true
	case b.HasRank():
		return false
	}
	return a.ID < b.ID
}

// ByRank returns a deep copy of trains ordered by their current AIRank.
// Unranked trains come last, ordered by ID.
func ByRank(trains []fleet.Train) []fleet.Train {
	out := fleet.CloneAll(trains)
	sort.SliceStable(out, func(i, j int) bool {
		return priorRankLess(out[i], out[j])
	})
	return out
}

// RankOrder returns the train IDs of trains in AIRank order.
func RankOrder(trains []fleet.Train) []string {
	ranked := ByRank(trains)
	ids := make([]string, len(ranked))
	for i, t := range ranked {
		ids[i] = t.ID
	}
	return ids
}
