package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohip/ohip/pkg/country"
	"github.com/ohip/ohip/pkg/simulation"
)

func TestExtractNilReturnsDefaults(t *testing.T) {
	got := simulation.Extract(nil)

	want := simulation.Metrics{
		StrategicCapacity:     50,
		InspectorDensity:      1.0,
		ILOC187Ratified:       false,
		FatalAccidentRate:     3.0,
		OELCompliance:         50,
		AirPollution:          35,
		DiseaseDetectionRate:  50,
		VulnerableEmpCoverage: 40,
		RehabAccess:           50,
		ReturnToWorkSuccess:   50,
	}
	assert.Equal(t, want, got)
	assert.Equal(t, simulation.DefaultMetrics(), got)
}

func TestExtractEmptyRecordReturnsDefaults(t *testing.T) {
	got := simulation.Extract(&country.Record{ISOCode: "XYZ"})
	assert.Equal(t, simulation.DefaultMetrics(), got)
}

func TestExtractGermanyFixture(t *testing.T) {
	rec, err := country.LoadRecord("../../testdata/germany.json")
	require.NoError(t, err)

	m := simulation.Extract(rec)

	assert.Equal(t, 92.0, m.StrategicCapacity)
	assert.Equal(t, 1.2, m.InspectorDensity)
	assert.True(t, m.ILOC187Ratified)
	assert.Equal(t, 0.8, m.FatalAccidentRate)
	assert.Equal(t, 95.0, m.OELCompliance)
	assert.Equal(t, 12.0, m.AirPollution)
	// 180 per 100k halved
	assert.Equal(t, 90.0, m.DiseaseDetectionRate)
	// 100 - vulnerability index 10
	assert.Equal(t, 90.0, m.VulnerableEmpCoverage)
	assert.Equal(t, 92.0, m.RehabAccess)
	assert.Equal(t, 90.0, m.ReturnToWorkSuccess)
}

func TestExtractSparseFixtureFallsBack(t *testing.T) {
	rec, err := country.LoadRecord("../../testdata/sparse.json")
	require.NoError(t, err)

	m := simulation.Extract(rec)
	d := simulation.DefaultMetrics()

	assert.Equal(t, 30.0, m.StrategicCapacity)
	assert.Equal(t, d.InspectorDensity, m.InspectorDensity)
	assert.Equal(t, d.ILOC187Ratified, m.ILOC187Ratified)
	// explicit null falls back too
	assert.Equal(t, d.FatalAccidentRate, m.FatalAccidentRate)
	assert.Equal(t, d.DiseaseDetectionRate, m.DiseaseDetectionRate)
	assert.Equal(t, 30.0, m.VulnerableEmpCoverage)
	assert.Equal(t, d.RehabAccess, m.RehabAccess)
	assert.Equal(t, d.ReturnToWorkSuccess, m.ReturnToWorkSuccess)
}

func TestExtractDetectionRateCapped(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		want float64
	}{
		{"zero", 0, 0},
		{"halved", 90, 45},
		{"exactly at cap", 200, 100},
		{"above cap", 500, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &country.Record{
				ISOCode:   "TST",
				Vigilance: &country.HealthVigilance{DiseaseDetectionRate: country.Float(tc.raw)},
			}
			assert.Equal(t, tc.want, simulation.Extract(rec).DiseaseDetectionRate)
		})
	}
}

func TestExtractRatifiedFalseIsNotMissing(t *testing.T) {
	rec := &country.Record{
		ISOCode:    "TST",
		Governance: &country.Governance{ILOC187Status: country.Bool(false)},
	}
	assert.False(t, simulation.Extract(rec).ILOC187Ratified)

	rec.Governance.ILOC187Status = country.Bool(true)
	assert.True(t, simulation.Extract(rec).ILOC187Ratified)
}

func TestExtractZeroValuesAreKept(t *testing.T) {
	rec := &country.Record{
		ISOCode: "TST",
		Hazard: &country.HazardControl{
			FatalAccidentRate: country.Float(0),
			AirPollutionPM25:  country.Float(0),
		},
	}
	m := simulation.Extract(rec)
	assert.Equal(t, 0.0, m.FatalAccidentRate)
	assert.Equal(t, 0.0, m.AirPollution)
}

func TestExtractClampsOutOfRangeIndicators(t *testing.T) {
	rec := &country.Record{
		ISOCode:    "TST",
		Governance: &country.Governance{StrategicCapacityScore: country.Float(-80), InspectorDensity: country.Float(42)},
		Hazard:     &country.HazardControl{FatalAccidentRate: country.Float(35)},
		Vigilance:  &country.HealthVigilance{VulnerabilityIndex: country.Float(150)},
		Restoration: &country.Restoration{
			RehabAccess: country.Float(120),
		},
	}

	m := simulation.Extract(rec)
	require.NoError(t, m.Validate())
	assert.Equal(t, 0.0, m.StrategicCapacity)
	assert.Equal(t, 10.0, m.InspectorDensity)
	assert.Equal(t, 20.0, m.FatalAccidentRate)
	assert.Equal(t, 0.0, m.VulnerableEmpCoverage)
	assert.Equal(t, 100.0, m.RehabAccess)
}
