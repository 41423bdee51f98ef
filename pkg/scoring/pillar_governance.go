package scoring

import (
	"math"

	"github.com/ohip/ohip/pkg/simulation"
)

// GovernancePillar scores governance capacity from strategic capacity,
// inspector density and C187 ratification.
type GovernancePillar struct {
	StrategicCapacityWeight float64
	InspectorDensityWeight  float64
	InspectorDensityScale   float64 // density is multiplied by this, then capped at 100
	RatificationWeight      float64
}

func (p *GovernancePillar) Key() string  { return "governance" }
func (p *GovernancePillar) Name() string { return "Governance" }

func (p *GovernancePillar) Evaluate(m simulation.Metrics) PillarResult {
	density := math.Min(m.InspectorDensity*p.InspectorDensityScale, 100)
	ratified := 0.0
	if m.ILOC187Ratified {
		ratified = 100
	}

	return newPillarResult(p.Key(), p.Name(),
		component(string(simulation.FieldStrategicCapacity), m.StrategicCapacity, m.StrategicCapacity, p.StrategicCapacityWeight),
		component(string(simulation.FieldInspectorDensity), m.InspectorDensity, density, p.InspectorDensityWeight),
		component(simulation.FieldILOC187Ratified, ratified, ratified, p.RatificationWeight),
	)
}
