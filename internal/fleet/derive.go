package fleet

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used throughout fixtures.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// DaysLeft returns the whole days from ref until expiry. Negative values
// mean the certificate lapsed before ref.
func DaysLeft(expiry, ref string) (int, error) {
	e, err := ParseDate(expiry)
	if err != nil {
		return 0, err
	}
	r, err := ParseDate(ref)
	if err != nil {
		return 0, err
	}
	return int(e.Sub(r).Hours() / 24), nil
}

// DeriveSLA classifies attained branding hours against the requirement.
func DeriveSLA(required, attained float64) string {
	switch {
	case attained >= required:
		return SLACompliant
	case attained >= 0.8*required:
		return SLAAtRisk
	default:
		return SLANonCompliant
	}
}

// Variance is current minus target mileage.
func Variance(current, target int) int {
	return current - target
}

// deriveJobCards recomputes aggregates from the detail list when present,
// then the aggregate status from the counts.
func deriveJobCards(jc *JobCards) {
	if len(jc.Entries) > 0 {
		jc.Open, jc.Closed, jc.Critical = 0, 0, 0
		for _, e := range jc.Entries {
			if e.Status == JobClosed {
				jc.Closed++
				continue
			}
			jc.Open++
			if e.Priority == PriorityCritical {
				jc.Critical++
			}
		}
	}

	switch {
	case jc.Critical > 0:
		jc.Status = JobCardsMajor
	case jc.Open > 0:
		jc.Status = JobCardsMinor
	default:
		jc.Status = JobCardsClear
	}
}

// Derive recomputes every derived field of t against the reference date.
func (t *Train) Derive(ref string) error {
	for _, c := range []*Certificate{&t.Fitness.Rolling, &t.Fitness.Signal, &t.Fitness.Telecom} {
		days, err := DaysLeft(c.Expiry, ref)
		if err != nil {
			return fmt.Errorf("train %s: certificate expiry: %w", t.ID, err)
		}
		c.DaysLeft = days
	}

	deriveJobCards(&t.JobCards)
	t.Branding.SLAStatus = DeriveSLA(t.Branding.RequiredHours, t.Branding.AttainedHours)
	t.Mileage.Variance = Variance(t.Mileage.Current, t.Mileage.Target)
	return nil
}

// Normalize derives every train in place.
func Normalize(trains []Train, ref string) error {
	for i := range trains {
		if err := trains[i].Derive(ref); err != nil {
			return err
		}
	}
	return nil
}
