package engine

import (
	"fmt"

	"github.com/roach88/induction/internal/fleet"
)

var certificateTitles = map[string]string{
	fleet.CertRolling: "Rolling stock",
	fleet.CertSignal:  "Signalling",
	fleet.CertTelecom: "Telecom",
}

// DetectConflicts reports the induction blockers in trains, in input order.
//
// Each invalid certificate yields a Critical fitness conflict (rolling,
// signal, telecom order). Open critical job cards yield one maintenance
// conflict per train: Critical for two or more, High for one. IDs run
// C001, C002, ... across the result.
func DetectConflicts(trains []fleet.Train) []fleet.Conflict {
	var out []fleet.Conflict
	add := func(c fleet.Conflict) {
		c.ID = fmt.Sprintf("C%03d", len(out)+1)
		out = append(out, c)
	}

	for _, t := range trains {
		for _, c := range t.Fitness.Each() {
			if c.Valid {
				continue
			}
			add(fleet.Conflict{
				TrainID:     t.ID,
				Type:        fleet.ConflictFitness,
				Severity:    fleet.SeverityCritical,
				Description: fmt.Sprintf("%s certificate invalid (expiry %s)", certificateTitles[c.Name], c.Expiry),
				Suggestion:  fmt.Sprintf("Recertify the %s certificate or move the train to IBL maintenance", c.Name),
				Impact:      "Train unsafe for operation",
			})
		}

		if n := t.JobCards.Critical; n > 0 {
			severity := fleet.SeverityHigh
			if n >= 2 {
				severity = fleet.SeverityCritical
			}
			add(fleet.Conflict{
				TrainID:     t.ID,
				Type:        fleet.ConflictMaintenance,
				Severity:    severity,
				Description: fmt.Sprintf("%d critical job card(s) open", n),
				Suggestion:  "Complete critical maintenance before service",
				Impact:      "Safety and reliability risk",
			})
		}
	}
	return out
}
