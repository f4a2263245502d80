package fleet

import (
	"errors"
	"fmt"
)

// TrainPatch is a shallow partial update: each non-nil field replaces the
// corresponding top-level field of a train wholesale. The ID is not
// patchable.
type TrainPatch struct {
	Status     *Status   `yaml:"status,omitempty" json:"status,omitempty"`
	Bay        *string   `yaml:"bay,omitempty" json:"bay,omitempty"`
	Fitness    *Fitness  `yaml:"fitness,omitempty" json:"fitness,omitempty"`
	JobCards   *JobCards `yaml:"job_cards,omitempty" json:"job_cards,omitempty"`
	Branding   *Branding `yaml:"branding,omitempty" json:"branding,omitempty"`
	Mileage    *Mileage  `yaml:"mileage,omitempty" json:"mileage,omitempty"`
	Cleaning   *Cleaning `yaml:"cleaning,omitempty" json:"cleaning,omitempty"`
	AIRank     *int      `yaml:"ai_rank,omitempty" json:"ai_rank,omitempty"`
	Confidence *float64  `yaml:"confidence,omitempty" json:"confidence,omitempty"`
}

// ErrEmptyPatch is returned by Validate for a patch that sets nothing.
var ErrEmptyPatch = errors.New("patch sets no fields")

// IsEmpty reports whether the patch sets no field.
func (p TrainPatch) IsEmpty() bool {
	return p.Status == nil && p.Bay == nil && p.Fitness == nil && p.JobCards == nil &&
		p.Branding == nil && p.Mileage == nil && p.Cleaning == nil &&
		p.AIRank == nil && p.Confidence == nil
}

// Validate checks field values that the type system cannot.
func (p TrainPatch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Status != nil {
		if _, err := ParseStatus(string(*p.Status)); err != nil {
			return err
		}
	}
	if p.Confidence != nil && (*p.Confidence < 0 || *p.Confidence > 1) {
		return fmt.Errorf("confidence %v outside [0,1]", *p.Confidence)
	}
	if p.AIRank != nil && *p.AIRank < 1 {
		return fmt.Errorf("ai_rank %d must be positive", *p.AIRank)
	}
	if p.JobCards != nil {
		jc := p.JobCards
		if jc.Open < 0 || jc.Closed < 0 || jc.Critical < 0 {
			return fmt.Errorf("job card counts must be non-negative")
		}
	}
	if p.Branding != nil && (p.Branding.RequiredHours < 0 || p.Branding.AttainedHours < 0) {
		return fmt.Errorf("branding hours must be non-negative")
	}
	if p.Fitness != nil {
		for _, c := range p.Fitness.Each() {
			if _, err := ParseDate(c.Expiry); err != nil {
				return fmt.Errorf("%s certificate: %w", c.Name, err)
			}
		}
	}
	return nil
}

// Apply returns a copy of t with the patch merged in. Derived fields are
// not recomputed; callers follow with Derive.
func (p TrainPatch) Apply(t Train) Train {
	out := t.Clone()
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Bay != nil {
		out.Bay = *p.Bay
	}
	if p.Fitness != nil {
		out.Fitness = *p.Fitness
	}
	if p.JobCards != nil {
		jc := *p.JobCards
		if jc.Entries != nil {
			jc.Entries = append([]JobCard(nil), jc.Entries...)
		}
		out.JobCards = jc
	}
	if p.Branding != nil {
		out.Branding = *p.Branding
	}
	if p.Mileage != nil {
		out.Mileage = *p.Mileage
	}
	if p.Cleaning != nil {
		out.Cleaning = *p.Cleaning
	}
	if p.AIRank != nil {
		out.AIRank = IntPtr(*p.AIRank)
	}
	if p.Confidence != nil {
		out.Confidence = *p.Confidence
	}
	return out
}
