package engine

import (
	"math"
	"sort"

	"github.com/roach88/induction/internal/fleet"
)

// Sub-score caps. They sum to 100.
const (
	MaxFitness  = 30.0
	MaxJobCards = 25.0
	MaxBranding = 20.0
	MaxMileage  = 15.0
	MaxCleaning = 10.0
)

// Breakdown holds the five sub-scores of a train.
type Breakdown struct {
	Fitness  float64 `json:"fitness"`
	JobCards float64 `json:"job_cards"`
	Branding float64 `json:"branding"`
	Mileage  float64 `json:"mileage"`
	Cleaning float64 `json:"cleaning"`
}

// Total returns the unrounded sum of the sub-scores.
func (b Breakdown) Total() float64 {
	return b.Fitness + b.JobCards + b.Branding + b.Mileage + b.Cleaning
}

// Assessment is the scored view of one train. Breakdown is always filled
// in, even when the train is ineligible and Score is forced to 0.
type Assessment struct {
	TrainID   string    `json:"train_id"`
	Eligible  bool      `json:"eligible"`
	Breakdown Breakdown `json:"breakdown"`
	Score     float64   `json:"score"`
}

// Assess scores t.
func Assess(t fleet.Train) Assessment {
	b := Breakdown{
		Fitness:  fitnessScore(t.Fitness),
		JobCards: jobCardScore(t.JobCards),
		Branding: brandingScore(t.Branding.SLAStatus),
		Mileage:  mileageScore(t.Mileage.Variance),
		Cleaning: cleaningScore(t.Cleaning.Status),
	}

	a := Assessment{
		TrainID:   t.ID,
		Eligible:  IsEligible(t),
		Breakdown: b,
	}
	if a.Eligible {
		a.Score = round1(b.Total())
	}
	return a
}

// Score returns the induction score of t in [0, 100].
func Score(t fleet.Train) float64 {
	return Assess(t).Score
}

// AssessAll scores every train and orders the result by score descending,
// then by train ID.
func AssessAll(trains []fleet.Train) []Assessment {
	out := make([]Assessment, len(trains))
	for i, t := range trains {
		out[i] = Assess(t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].TrainID < out[j].TrainID
	})
	return out
}

func fitnessScore(f fleet.Fitness) float64 {
	s := 0.0
	for _, c := range f.Each() {
		if c.Valid {
			s += MaxFitness / 3
		}
	}
	return s
}

func jobCardScore(jc fleet.JobCards) float64 {
	return math.Max(0, MaxJobCards-5*float64(jc.Open)-10*float64(jc.Critical))
}

func brandingScore(sla string) float64 {
	switch sla {
	case fleet.SLACompliant:
		return 20
	case fleet.SLAAtRisk:
		return 15
	case fleet.SLANonCompliant:
		return 10
	default:
		return 0
	}
}

func mileageScore(variance int) float64 {
	return math.Max(0, MaxMileage-math.Abs(float64(variance))/200)
}

func cleaningScore(status string) float64 {
	switch status {
	case fleet.CleaningCompleted:
		return 10
	case fleet.CleaningScheduled:
		return 7
	case fleet.CleaningOverdue:
		return 0
	default:
		return 5
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
