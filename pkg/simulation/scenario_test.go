package simulation_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohip/ohip/pkg/country"
	"github.com/ohip/ohip/pkg/simulation"
)

func germany() *country.Record {
	return &country.Record{
		ISOCode: "DEU",
		Name:    "Germany",
		Governance: &country.Governance{
			StrategicCapacityScore: country.Float(92),
			InspectorDensity:       country.Float(1.2),
			ILOC187Status:          country.Bool(true),
		},
	}
}

func TestScenarioLifecycle(t *testing.T) {
	s := simulation.NewScenario(germany())

	assert.Equal(t, "DEU", s.Country())
	assert.Equal(t, s.Baseline(), s.Working())
	assert.False(t, s.Dirty())

	require.NoError(t, s.Set(simulation.FieldStrategicCapacity, 60))
	assert.True(t, s.Dirty())
	assert.Equal(t, 60.0, s.Working().StrategicCapacity)
	assert.Equal(t, 92.0, s.Baseline().StrategicCapacity, "baseline must not change on edit")

	s.Reset()
	assert.False(t, s.Dirty())
	assert.Equal(t, s.Baseline(), s.Working())
}

func TestScenarioSetClamps(t *testing.T) {
	s := simulation.NewScenario(nil)

	require.NoError(t, s.Set(simulation.FieldFatalAccidentRate, -5))
	assert.Equal(t, 0.0, s.Working().FatalAccidentRate)

	require.NoError(t, s.Set(simulation.FieldInspectorDensity, 42))
	assert.Equal(t, 10.0, s.Working().InspectorDensity)
}

func TestScenarioSetUnknownField(t *testing.T) {
	s := simulation.NewScenario(nil)
	err := s.Set(simulation.Field("budget"), 1)
	assert.Error(t, err)
	assert.False(t, s.Dirty())
}

func TestScenarioSelectReplacesBoth(t *testing.T) {
	s := simulation.NewScenario(germany())
	require.NoError(t, s.Set(simulation.FieldRehabAccess, 10))
	s.SetRatified(false)

	s.Select(nil)
	assert.Equal(t, "", s.Country())
	assert.Equal(t, simulation.DefaultMetrics(), s.Baseline())
	assert.Equal(t, simulation.DefaultMetrics(), s.Working())
}

func TestParseField(t *testing.T) {
	f, err := simulation.ParseField("OELCOMPLIANCE")
	require.NoError(t, err)
	assert.Equal(t, simulation.FieldOELCompliance, f)

	_, err = simulation.ParseField("nope")
	assert.Error(t, err)
}

func TestMetricsValidateAndClamp(t *testing.T) {
	m := simulation.DefaultMetrics()
	assert.NoError(t, m.Validate())

	m.FatalAccidentRate = 25
	m.AirPollution = -1
	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fatalAccidentRate")
	assert.Contains(t, err.Error(), "airPollution")

	c := m.Clamp()
	assert.NoError(t, c.Validate())
	assert.Equal(t, 20.0, c.FatalAccidentRate)
	assert.Equal(t, 0.0, c.AirPollution)
	assert.Equal(t, 25.0, m.FatalAccidentRate, "Clamp must not mutate the receiver")
}

func TestDiff(t *testing.T) {
	a := simulation.DefaultMetrics()
	b := a
	assert.Empty(t, simulation.Diff(a, b))

	b.RehabAccess = 70
	b.ILOC187Ratified = true
	assert.Equal(t, []string{"rehabAccess", "iloC187Ratified"}, simulation.Diff(a, b))
}

func TestFieldsCoverRanges(t *testing.T) {
	fields := simulation.Fields()
	assert.Len(t, fields, len(simulation.Ranges()))
	for _, f := range fields {
		_, err := simulation.DefaultMetrics().Get(f)
		assert.NoError(t, err, f)
	}
}

func TestMetricsWithRejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		m := simulation.DefaultMetrics()
		got, err := m.With(simulation.FieldStrategicCapacity, v)
		assert.Error(t, err, "value %v", v)
		assert.Equal(t, m, got, "value %v", v)

		s := simulation.NewScenario(nil)
		assert.Error(t, s.Set(simulation.FieldFatalAccidentRate, v), "value %v", v)
		assert.False(t, s.Dirty())
	}
}
