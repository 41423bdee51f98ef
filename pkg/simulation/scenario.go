package simulation

import "github.com/ohip/ohip/pkg/country"

// Scenario owns the baseline and working snapshots for one selected country.
// The baseline is fixed when the country is selected; the working snapshot
// starts as a copy and is edited field by field.
//
// A Scenario is view state. It is not safe for concurrent use and is never
// persisted.
type Scenario struct {
	country  string
	baseline Metrics
	working  Metrics
}

// NewScenario creates a scenario for rec. A nil rec selects no country and
// starts from the defaults.
func NewScenario(rec *country.Record) *Scenario {
	s := &Scenario{}
	s.Select(rec)
	return s
}

// Select replaces both snapshots with ones extracted from rec.
func (s *Scenario) Select(rec *country.Record) {
	s.country = ""
	if rec != nil {
		s.country = rec.ISOCode
	}
	s.baseline = Extract(rec)
	s.working = s.baseline
}

// Country returns the ISO code of the selected country, or "" if none.
func (s *Scenario) Country() string { return s.country }

// Baseline returns the baseline snapshot.
func (s *Scenario) Baseline() Metrics { return s.baseline }

// Working returns the working snapshot.
func (s *Scenario) Working() Metrics { return s.working }

// Set edits one numeric field of the working snapshot. The value is clamped
// to the field's range before it is accepted.
func (s *Scenario) Set(f Field, v float64) error {
	next, err := s.working.With(f, v)
	if err != nil {
		return err
	}
	s.working = next
	return nil
}

// SetRatified edits the ILO C187 ratification flag of the working snapshot.
func (s *Scenario) SetRatified(v bool) {
	s.working.ILOC187Ratified = v
}

// Reset discards edits: working := baseline.
func (s *Scenario) Reset() {
	s.working = s.baseline
}

// Dirty reports whether the working snapshot differs from the baseline.
func (s *Scenario) Dirty() bool {
	return s.working != s.baseline
}
