package fleet

import "strings"

// Filter narrows a fleet listing. Empty fields match everything.
type Filter struct {
	Search string // case-insensitive substring of the train ID
	Bay    string // bay prefix, e.g. "B" matches B1 and B2
	Status Status
}

// Match reports whether t passes every set criterion.
func (f Filter) Match(t Train) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(t.ID), strings.ToLower(f.Search)) {
		return false
	}
	if f.Bay != "" && !strings.HasPrefix(t.Bay, f.Bay) {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}

// Apply returns copies of the trains that match, in input order.
func (f Filter) Apply(trains []Train) []Train {
	out := make([]Train, 0, len(trains))
	for _, t := range trains {
		if f.Match(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Certificate health levels.
const (
	HealthGood     = "good"
	HealthWarning  = "warning"
	HealthCritical = "critical"
)

// CertificateHealth grades a certificate for display: critical when invalid
// or within 3 days of expiry, warning within 7 days.
func CertificateHealth(c Certificate) string {
	switch {
	case !c.Valid, c.DaysLeft <= 3:
		return HealthCritical
	case c.DaysLeft <= 7:
		return HealthWarning
	default:
		return HealthGood
	}
}

// ExpiringSoon reports whether any valid certificate of t expires within
// the given number of days.
func ExpiringSoon(t Train, days int) bool {
	for _, c := range t.Fitness.Each() {
		if c.Valid && c.DaysLeft <= days {
			return true
		}
	}
	return false
}
