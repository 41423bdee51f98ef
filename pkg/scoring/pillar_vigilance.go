package scoring

import "github.com/ohip/ohip/pkg/simulation"

// VigilancePillar (pillar 2) scores health vigilance.
type VigilancePillar struct {
	DetectionWeight float64
	CoverageWeight  float64
}

func (p *VigilancePillar) Key() string  { return "pillar2" }
func (p *VigilancePillar) Name() string { return "Health Vigilance" }

func (p *VigilancePillar) Evaluate(m simulation.Metrics) PillarResult {
	return newPillarResult(p.Key(), p.Name(),
		component(string(simulation.FieldDiseaseDetectionRate), m.DiseaseDetectionRate, m.DiseaseDetectionRate, p.DetectionWeight),
		component(string(simulation.FieldVulnerableEmpCoverage), m.VulnerableEmpCoverage, m.VulnerableEmpCoverage, p.CoverageWeight),
	)
}
