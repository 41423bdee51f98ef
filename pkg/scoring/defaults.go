package scoring

// Pillars holds the four pillars in maturity-blend order.
type Pillars struct {
	Governance  *GovernancePillar
	Hazard      *HazardPillar
	Vigilance   *VigilancePillar
	Restoration *RestorationPillar
}

// NewPillars builds the pillar set for the given weights.
func NewPillars(w Weights) Pillars {
	return Pillars{
		Governance: &GovernancePillar{
			StrategicCapacityWeight: w.StrategicCapacity,
			InspectorDensityWeight:  w.InspectorDensity,
			InspectorDensityScale:   w.InspectorDensityScale,
			RatificationWeight:      w.C187Ratification,
		},
		Hazard: &HazardPillar{
			FatalRateWeight:    w.FatalRate,
			FatalRateCeiling:   w.FatalRateCeiling,
			OELWeight:          w.OELCompliance,
			AirPollutionWeight: w.AirPollution,
		},
		Vigilance: &VigilancePillar{
			DetectionWeight: w.DetectionRate,
			CoverageWeight:  w.VulnerableCoverage,
		},
		Restoration: &RestorationPillar{
			RehabWeight:        w.RehabAccess,
			ReturnToWorkWeight: w.ReturnToWork,
		},
	}
}

// DefaultPillars returns the standard pillar set with default weights.
func DefaultPillars() Pillars {
	return NewPillars(DefaultWeights())
}

// All returns the pillars as a slice in blend order.
func (p Pillars) All() []Pillar {
	return []Pillar{p.Governance, p.Hazard, p.Vigilance, p.Restoration}
}
