package fleet

import (
	"strconv"

	"github.com/roach88/induction/internal/canon"
)

// Digest returns a content hash of the fleet. Identical fleets hash
// identically regardless of how they were produced.
func Digest(trains []Train) (string, error) {
	list := make([]any, len(trains))
	for i, t := range trains {
		list[i] = canonicalTrain(t)
	}
	return canon.Digest(canon.DomainFleet, map[string]any{"trains": list})
}

// decimal renders a float for canonical JSON, which forbids float values.
func decimal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func canonicalCert(c Certificate) map[string]any {
	return map[string]any{
		"valid":     c.Valid,
		"expiry":    c.Expiry,
		"days_left": c.DaysLeft,
	}
}

func canonicalTrain(t Train) map[string]any {
	entries := make([]any, len(t.JobCards.Entries))
	for i, e := range t.JobCards.Entries {
		entries[i] = map[string]any{
			"title":        e.Title,
			"description":  e.Description,
			"priority":     e.Priority,
			"status":       e.Status,
			"assigned_to":  e.AssignedTo,
			"created_date": e.CreatedDate,
		}
	}

	m := map[string]any{
		"id":     t.ID,
		"status": string(t.Status),
		"bay":    t.Bay,
		"fitness": map[string]any{
			CertRolling: canonicalCert(t.Fitness.Rolling),
			CertSignal:  canonicalCert(t.Fitness.Signal),
			CertTelecom: canonicalCert(t.Fitness.Telecom),
		},
		"job_cards": map[string]any{
			"open":     t.JobCards.Open,
			"closed":   t.JobCards.Closed,
			"critical": t.JobCards.Critical,
			"status":   t.JobCards.Status,
			"entries":  entries,
		},
		"branding": map[string]any{
			"wrap_id":        t.Branding.WrapID,
			"advertiser":     t.Branding.Advertiser,
			"required_hours": decimal(t.Branding.RequiredHours),
			"attained_hours": decimal(t.Branding.AttainedHours),
			"sla_status":     t.Branding.SLAStatus,
			"priority":       t.Branding.Priority,
		},
		"mileage": map[string]any{
			"current":       t.Mileage.Current,
			"target":        t.Mileage.Target,
			"variance":      t.Mileage.Variance,
			"last_overhaul": t.Mileage.LastOverhaul,
		},
		"cleaning": map[string]any{
			"status":         t.Cleaning.Status,
			"next_scheduled": t.Cleaning.NextScheduled,
			"assigned_slot":  t.Cleaning.AssignedSlot,
			"crew":           t.Cleaning.Crew,
		},
		"confidence": decimal(t.Confidence),
	}
	if t.AIRank != nil {
		m["ai_rank"] = *t.AIRank
	}
	return m
}
