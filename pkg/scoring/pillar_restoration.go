package scoring

import "github.com/ohip/ohip/pkg/simulation"

// RestorationPillar (pillar 3) scores rehabilitation and return to work.
type RestorationPillar struct {
	RehabWeight        float64
	ReturnToWorkWeight float64
}

func (p *RestorationPillar) Key() string  { return "pillar3" }
func (p *RestorationPillar) Name() string { return "Restoration" }

func (p *RestorationPillar) Evaluate(m simulation.Metrics) PillarResult {
	return newPillarResult(p.Key(), p.Name(),
		component(string(simulation.FieldRehabAccess), m.RehabAccess, m.RehabAccess, p.RehabWeight),
		component(string(simulation.FieldReturnToWorkSuccess), m.ReturnToWorkSuccess, m.ReturnToWorkSuccess, p.ReturnToWorkWeight),
	)
}
