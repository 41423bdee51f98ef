package scoring

import (
	"fmt"
	"math"
)

// Weights holds the fixed coefficients of every pillar formula and of the
// maturity blend. Within each group the weights sum to 1.0. JSON names match
// the keys Override accepts.
type Weights struct {
	// Governance
	StrategicCapacity     float64 `json:"strategic_capacity"`
	InspectorDensity      float64 `json:"inspector_density"`
	InspectorDensityScale float64 `json:"inspector_density_scale"` // points per inspector per 10k workers, capped at 100
	C187Ratification      float64 `json:"c187_ratification"`

	// Pillar 1: hazard control
	FatalRate        float64 `json:"fatal_rate"`
	FatalRateCeiling float64 `json:"fatal_rate_ceiling"` // fatalities per 100k at which the normalized score reaches 0
	OELCompliance    float64 `json:"oel_compliance"`
	AirPollution     float64 `json:"air_pollution"`

	// Pillar 2: health vigilance
	DetectionRate      float64 `json:"detection_rate"`
	VulnerableCoverage float64 `json:"vulnerable_coverage"`

	// Pillar 3: restoration
	RehabAccess  float64 `json:"rehab_access"`
	ReturnToWork float64 `json:"return_to_work"`

	// Maturity blend
	Maturity MaturityWeights `json:"maturity"`
}

// MaturityWeights blends the four pillar scores into one maturity score.
type MaturityWeights struct {
	Governance  float64 `json:"governance"`
	Hazard      float64 `json:"hazard"`
	Vigilance   float64 `json:"vigilance"`
	Restoration float64 `json:"restoration"`
}

// DefaultWeights returns the design weights.
func DefaultWeights() Weights {
	return Weights{
		StrategicCapacity:     0.5,
		InspectorDensity:      0.3,
		InspectorDensityScale: 10,
		C187Ratification:      0.2,

		FatalRate:        0.4,
		FatalRateCeiling: 20,
		OELCompliance:    0.35,
		AirPollution:     0.25,

		DetectionRate:      0.5,
		VulnerableCoverage: 0.5,

		RehabAccess:  0.5,
		ReturnToWork: 0.5,

		Maturity: MaturityWeights{
			Governance:  0.25,
			Hazard:      0.30,
			Vigilance:   0.25,
			Restoration: 0.20,
		},
	}
}

const weightTolerance = 0.001

// Validate checks that every group sums to 1.0 and that no weight is negative.
func (w Weights) Validate() error {
	groups := []struct {
		name    string
		weights []float64
	}{
		{"governance", []float64{w.StrategicCapacity, w.InspectorDensity, w.C187Ratification}},
		{"pillar1", []float64{w.FatalRate, w.OELCompliance, w.AirPollution}},
		{"pillar2", []float64{w.DetectionRate, w.VulnerableCoverage}},
		{"pillar3", []float64{w.RehabAccess, w.ReturnToWork}},
		{"maturity", []float64{w.Maturity.Governance, w.Maturity.Hazard, w.Maturity.Vigilance, w.Maturity.Restoration}},
	}

	for _, g := range groups {
		var sum float64
		for _, v := range g.weights {
			if v < 0 {
				return fmt.Errorf("%s: negative weight %f", g.name, v)
			}
			sum += v
		}
		if math.Abs(sum-1.0) > weightTolerance {
			return fmt.Errorf("%s: weights sum to %.4f, must sum to 1.0", g.name, sum)
		}
	}

	if w.FatalRateCeiling <= 0 {
		return fmt.Errorf("pillar1: fatal rate ceiling must be positive, got %f", w.FatalRateCeiling)
	}
	if w.InspectorDensityScale <= 0 {
		return fmt.Errorf("governance: inspector density scale must be positive, got %f", w.InspectorDensityScale)
	}
	return nil
}

// Override returns a copy of w with the named coefficients replaced. Keys
// use the config file spelling, e.g. "fatal_rate" or "maturity.hazard".
// The result is validated.
func (w Weights) Override(values map[string]float64) (Weights, error) {
	for key, v := range values {
		p := w.ref(key)
		if p == nil {
			return w, fmt.Errorf("unknown weight %q", key)
		}
		*p = v
	}
	if err := w.Validate(); err != nil {
		return w, err
	}
	return w, nil
}

func (w *Weights) ref(key string) *float64 {
	switch key {
	case "strategic_capacity":
		return &w.StrategicCapacity
	case "inspector_density":
		return &w.InspectorDensity
	case "inspector_density_scale":
		return &w.InspectorDensityScale
	case "c187_ratification":
		return &w.C187Ratification
	case "fatal_rate":
		return &w.FatalRate
	case "fatal_rate_ceiling":
		return &w.FatalRateCeiling
	case "oel_compliance":
		return &w.OELCompliance
	case "air_pollution":
		return &w.AirPollution
	case "detection_rate":
		return &w.DetectionRate
	case "vulnerable_coverage":
		return &w.VulnerableCoverage
	case "rehab_access":
		return &w.RehabAccess
	case "return_to_work":
		return &w.ReturnToWork
	case "maturity.governance":
		return &w.Maturity.Governance
	case "maturity.hazard":
		return &w.Maturity.Hazard
	case "maturity.vigilance":
		return &w.Maturity.Vigilance
	case "maturity.restoration":
		return &w.Maturity.Restoration
	}
	return nil
}
