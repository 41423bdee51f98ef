package simulation

import (
	"math"

	"github.com/ohip/ohip/pkg/country"
)

// Extract maps a country record onto a metric snapshot. A nil record yields
// DefaultMetrics; any nil section or indicator falls back to its default.
// Present values outside a field's range are clamped to it, so every
// extracted snapshot passes Metrics.Validate. Extraction never fails.
func Extract(rec *country.Record) Metrics {
	d := DefaultMetrics()
	if rec == nil {
		return d
	}

	m := d

	if g := rec.Governance; g != nil {
		m.StrategicCapacity = valueOr(g.StrategicCapacityScore, d.StrategicCapacity)
		m.InspectorDensity = valueOr(g.InspectorDensity, d.InspectorDensity)
		m.ILOC187Ratified = valueOr(g.ILOC187Status, d.ILOC187Ratified)
	}

	if h := rec.Hazard; h != nil {
		m.FatalAccidentRate = valueOr(h.FatalAccidentRate, d.FatalAccidentRate)
		m.OELCompliance = valueOr(h.OELCompliance, d.OELCompliance)
		m.AirPollution = valueOr(h.AirPollutionPM25, d.AirPollution)
	}

	if v := rec.Vigilance; v != nil {
		// Detection is reported per 100k; halving and capping is a
		// normalization heuristic, not a true percentage.
		if v.DiseaseDetectionRate != nil {
			m.DiseaseDetectionRate = math.Min(100, *v.DiseaseDetectionRate/2)
		}
		// Higher vulnerability means less coverage.
		if v.VulnerabilityIndex != nil {
			m.VulnerableEmpCoverage = 100 - *v.VulnerabilityIndex
		}
	}

	if r := rec.Restoration; r != nil {
		m.RehabAccess = valueOr(r.RehabAccess, d.RehabAccess)
		m.ReturnToWorkSuccess = valueOr(r.ReturnToWorkSuccess, d.ReturnToWorkSuccess)
	}

	return m.Clamp()
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
