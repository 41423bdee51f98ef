package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(w *Weights)
		wantErr string
	}{
		{"governance sum", func(w *Weights) { w.StrategicCapacity = 0.6 }, "governance"},
		{"pillar1 sum", func(w *Weights) { w.AirPollution = 0.2 }, "pillar1"},
		{"maturity sum", func(w *Weights) { w.Maturity.Restoration = 0.3 }, "maturity"},
		{"negative", func(w *Weights) { w.RehabAccess = -0.5; w.ReturnToWork = 1.5 }, "negative"},
		{"ceiling", func(w *Weights) { w.FatalRateCeiling = 0 }, "ceiling"},
		{"scale", func(w *Weights) { w.InspectorDensityScale = -1 }, "scale"},
		{"within tolerance", func(w *Weights) { w.DetectionRate = 0.5004 }, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := DefaultWeights()
			tc.mutate(&w)
			err := w.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNewEngineRejectsInvalidWeights(t *testing.T) {
	w := DefaultWeights()
	w.Maturity.Hazard = 0
	_, err := NewEngine(w)
	assert.Error(t, err)
}

func TestWeightsOverride(t *testing.T) {
	w, err := DefaultWeights().Override(map[string]float64{
		"maturity.governance": 0.4,
		"maturity.hazard":     0.15,
		"fatal_rate_ceiling":  40,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.4, w.Maturity.Governance)
	assert.Equal(t, 0.15, w.Maturity.Hazard)
	assert.Equal(t, 40.0, w.FatalRateCeiling)
	assert.Equal(t, 0.25, DefaultWeights().Maturity.Governance, "defaults must not change")

	_, err = DefaultWeights().Override(map[string]float64{"budget": 1})
	assert.ErrorContains(t, err, "unknown weight")

	_, err = DefaultWeights().Override(map[string]float64{"maturity.governance": 0.9})
	assert.ErrorContains(t, err, "maturity")
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{0.49, 0},
		{0.5, 1},
		{69.6, 70},
		{93.65, 94},
		{99.5, 100},
		{100, 100},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, roundHalfUp(tc.in), "roundHalfUp(%v)", tc.in)
	}
}

func TestWeightsJSONKeysMatchOverride(t *testing.T) {
	data, err := json.Marshal(DefaultWeights())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	flat := map[string]float64{}
	for k, v := range doc {
		if nested, ok := v.(map[string]any); ok {
			for nk, nv := range nested {
				flat[k+"."+nk] = nv.(float64)
			}
			continue
		}
		flat[k] = v.(float64)
	}
	assert.Contains(t, flat, "fatal_rate")
	assert.Contains(t, flat, "maturity.hazard")

	w, err := DefaultWeights().Override(flat)
	require.NoError(t, err, "every JSON key must be an Override key")
	assert.Equal(t, DefaultWeights(), w)
}
