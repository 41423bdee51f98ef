package scoring

import (
	"math"

	"github.com/ohip/ohip/pkg/simulation"
)

// HazardPillar (pillar 1) scores hazard control. Fatal accident rate and air
// pollution are lower-is-better and are inverted onto the 0-100 scale.
type HazardPillar struct {
	FatalRateWeight    float64
	FatalRateCeiling   float64 // rate at or above which the normalized value is 0
	OELWeight          float64
	AirPollutionWeight float64
}

func (p *HazardPillar) Key() string  { return "pillar1" }
func (p *HazardPillar) Name() string { return "Hazard Control" }

func (p *HazardPillar) Evaluate(m simulation.Metrics) PillarResult {
	return newPillarResult(p.Key(), p.Name(),
		component(string(simulation.FieldFatalAccidentRate), m.FatalAccidentRate, p.FatalRateNormalized(m.FatalAccidentRate), p.FatalRateWeight),
		component(string(simulation.FieldOELCompliance), m.OELCompliance, m.OELCompliance, p.OELWeight),
		component(string(simulation.FieldAirPollution), m.AirPollution, AirPollutionNormalized(m.AirPollution), p.AirPollutionWeight),
	)
}

// FatalRateNormalized inverts a fatality rate: 0 maps to 100, the ceiling
// and anything above it map to 0.
func (p *HazardPillar) FatalRateNormalized(rate float64) float64 {
	return math.Max(0, 100-(rate/p.FatalRateCeiling)*100)
}

// AirPollutionNormalized inverts the PM2.5 proxy: 0 maps to 100, 100 and
// above map to 0.
func AirPollutionNormalized(pollution float64) float64 {
	return math.Max(0, 100-pollution)
}
