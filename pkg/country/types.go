// Package country defines the country record exchanged with the upstream
// country-record provider. These types are the shared vocabulary between the
// provider client, the catalog, and the simulation model.
//
// Every indicator is optional. A nil pointer means the provider had no value,
// and consumers substitute their own default instead of failing.
package country

import (
	"fmt"
	"regexp"
	"time"
)

// Record is one country's occupational-health profile as served by the
// provider. Records are treated as immutable once decoded.
type Record struct {
	ISOCode string `json:"iso_code"`
	Name    string `json:"name"`
	Region  string `json:"region,omitempty"`

	// MaturityScore is the reported maturity on the 0-100 display scale
	// (e.g. 87.5). It is carried verbatim and never recomputed.
	MaturityScore *float64 `json:"maturity_score,omitempty"`

	Governance  *Governance      `json:"governance,omitempty"`
	Hazard      *HazardControl   `json:"pillar_1_hazard,omitempty"`
	Vigilance   *HealthVigilance `json:"pillar_2_vigilance,omitempty"`
	Restoration *Restoration     `json:"pillar_3_restoration,omitempty"`

	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Governance holds the governance-capacity indicators.
type Governance struct {
	StrategicCapacityScore *float64 `json:"strategic_capacity_score,omitempty"`
	InspectorDensity       *float64 `json:"inspector_density,omitempty"` // per 10,000 workers
	ILOC187Status          *bool    `json:"ilo_c187_status,omitempty"`
}

// HazardControl holds pillar 1 indicators.
type HazardControl struct {
	FatalAccidentRate *float64 `json:"fatal_accident_rate,omitempty"` // per 100,000 workers
	OELCompliance     *float64 `json:"oel_compliance,omitempty"`
	AirPollutionPM25  *float64 `json:"air_pollution_pm25,omitempty"`
}

// HealthVigilance holds pillar 2 indicators.
type HealthVigilance struct {
	DiseaseDetectionRate *float64 `json:"disease_detection_rate,omitempty"` // raw, per 100,000
	VulnerabilityIndex   *float64 `json:"vulnerability_index,omitempty"`
}

// Restoration holds pillar 3 indicators.
type Restoration struct {
	RehabAccess         *float64 `json:"rehab_access,omitempty"`
	ReturnToWorkSuccess *float64 `json:"return_to_work_success,omitempty"`
}

var isoCodePattern = regexp.MustCompile(`^[A-Z]{2,3}$`)

// Validate checks the identifying fields. Indicator values are not checked:
// simulation.Extract substitutes defaults for absent indicators and clamps
// out-of-range ones.
func (r *Record) Validate() error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}
	if !isoCodePattern.MatchString(r.ISOCode) {
		return fmt.Errorf("invalid iso_code %q: want 2-3 uppercase letters", r.ISOCode)
	}
	return nil
}

// Float returns a pointer to v. Handy for building records in code and tests.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
