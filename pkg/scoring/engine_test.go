package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohip/ohip/pkg/country"
	"github.com/ohip/ohip/pkg/scoring"
	"github.com/ohip/ohip/pkg/simulation"
)

// bestMetrics puts every input at the end of its range that scores highest.
func bestMetrics() simulation.Metrics {
	return simulation.Metrics{
		StrategicCapacity:     100,
		InspectorDensity:      10,
		ILOC187Ratified:       true,
		FatalAccidentRate:     0,
		OELCompliance:         100,
		AirPollution:          0,
		DiseaseDetectionRate:  100,
		VulnerableEmpCoverage: 100,
		RehabAccess:           100,
		ReturnToWorkSuccess:   100,
	}
}

func TestScoreDefaults(t *testing.T) {
	got := scoring.Score(simulation.DefaultMetrics())
	assert.Equal(t, scoring.PillarScores{
		Governance:  28, // 25 + 3 + 0
		Hazard:      68, // 34 + 17.5 + 16.25
		Vigilance:   45,
		Restoration: 50,
	}, got)
}

func TestScoreIsIdempotent(t *testing.T) {
	m := simulation.DefaultMetrics()
	m.FatalAccidentRate = 7.3
	m.InspectorDensity = 2.25

	first := scoring.Score(m)
	second := scoring.Score(m)
	assert.Equal(t, first, second)
	assert.Equal(t, scoring.DefaultEngine().Scorecard(m), scoring.DefaultEngine().Scorecard(m))
}

func TestFatalRateNormalizedBoundaries(t *testing.T) {
	hazard := scoring.DefaultPillars().Hazard

	tests := []struct {
		rate float64
		want float64
	}{
		{0, 100},
		{10, 50},
		{20, 0},
		{25, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, hazard.FatalRateNormalized(tc.rate), "rate %v", tc.rate)

		m := simulation.DefaultMetrics()
		m.FatalAccidentRate = tc.rate
		res := hazard.Evaluate(m)
		require.Len(t, res.Components, 3)
		assert.Equal(t, string(simulation.FieldFatalAccidentRate), res.Components[0].Metric)
		assert.Equal(t, tc.want, res.Components[0].Normalized)
		assert.GreaterOrEqual(t, res.Score, 0)
	}
}

func TestAirPollutionNormalizedFloorsAtZero(t *testing.T) {
	assert.Equal(t, 100.0, scoring.AirPollutionNormalized(0))
	assert.Equal(t, 65.0, scoring.AirPollutionNormalized(35))
	assert.Equal(t, 0.0, scoring.AirPollutionNormalized(100))
	assert.Equal(t, 0.0, scoring.AirPollutionNormalized(140))
}

func TestInspectorDensityCapped(t *testing.T) {
	m := simulation.DefaultMetrics()
	m.InspectorDensity = 10
	res := scoring.DefaultPillars().Governance.Evaluate(m)
	assert.Equal(t, 100.0, res.Components[1].Normalized)

	m.InspectorDensity = 40 // out of slider range, still capped
	res = scoring.DefaultPillars().Governance.Evaluate(m)
	assert.Equal(t, 100.0, res.Components[1].Normalized)
}

func TestWeightsSumToExactlyOneHundred(t *testing.T) {
	got := scoring.Score(bestMetrics())
	assert.Equal(t, scoring.PillarScores{Governance: 100, Hazard: 100, Vigilance: 100, Restoration: 100}, got)
}

func TestWorstInputsScoreZero(t *testing.T) {
	worst := simulation.Metrics{
		FatalAccidentRate: 20,
		AirPollution:      100,
	}
	got := scoring.Score(worst)
	assert.Equal(t, scoring.PillarScores{}, got)
}

func TestRoundingHalfUp(t *testing.T) {
	// 51*0.5 + 0*0.3 + 0 = 25.5
	m := simulation.Metrics{StrategicCapacity: 51, FatalAccidentRate: 20, AirPollution: 100}
	assert.Equal(t, 26, scoring.Score(m).Governance)

	// 50.8*0.5 = 25.4
	m.StrategicCapacity = 50.8
	assert.Equal(t, 25, scoring.Score(m).Governance)
}

func TestAggregateExtremes(t *testing.T) {
	assert.Equal(t, 4.0, scoring.Aggregate(scoring.PillarScores{Governance: 100, Hazard: 100, Vigilance: 100, Restoration: 100}))
	assert.Equal(t, 1.0, scoring.Aggregate(scoring.PillarScores{}))
}

func TestAggregateDefaults(t *testing.T) {
	// 28*.25 + 68*.30 + 45*.25 + 50*.20 = 48.65
	got := scoring.Aggregate(scoring.Score(simulation.DefaultMetrics()))
	assert.InDelta(t, 2.4595, got, 1e-9)
}

func TestGermanyEndToEnd(t *testing.T) {
	rec, err := country.LoadRecord("../../testdata/germany.json")
	require.NoError(t, err)

	sc := scoring.DefaultEngine().Scorecard(simulation.Extract(rec))

	assert.Equal(t, scoring.PillarScores{Governance: 70, Hazard: 94, Vigilance: 90, Restoration: 91}, sc.Pillars)
	assert.InDelta(t, 3.592, sc.Maturity, 1e-9)
	assert.InDelta(t, 86.4, sc.MaturityPercent, 1e-9)

	// Same magnitude class as the published 0-100 figure.
	require.NotNil(t, rec.MaturityScore)
	assert.GreaterOrEqual(t, sc.MaturityPercent, 80.0)
	assert.Less(t, sc.MaturityPercent, 90.0)
	assert.InDelta(t, *rec.MaturityScore, sc.MaturityPercent, 2.0)

	require.Len(t, sc.Breakdown, 4)
	assert.Equal(t, "governance", sc.Breakdown[0].Key)
	assert.InDelta(t, 69.6, sc.Breakdown[0].Raw, 1e-9)
	assert.Equal(t, scoring.BandStrong, sc.Breakdown[0].Band)
	assert.InDelta(t, 93.65, sc.Breakdown[1].Raw, 1e-9)
}

func TestProjectIdentityHasZeroDelta(t *testing.T) {
	for _, m := range []simulation.Metrics{simulation.DefaultMetrics(), bestMetrics(), {}} {
		p := scoring.Project(m, m)
		assert.Equal(t, 0.0, p.Delta)
		assert.Equal(t, scoring.OutcomeNoChange, p.Outcome)
		assert.Equal(t, scoring.PillarDeltas{}, p.PillarDeltas)
		assert.Empty(t, p.ChangedFields)
	}
}

func TestProjectImprovementAndRegression(t *testing.T) {
	base := simulation.DefaultMetrics()

	better := base
	better.ILOC187Ratified = true
	p := scoring.Project(base, better)
	assert.Equal(t, scoring.OutcomeImprovement, p.Outcome)
	assert.Equal(t, 20, p.PillarDeltas.Governance)
	assert.Zero(t, p.PillarDeltas.Hazard)
	// 20 governance points * 0.25 / 100 * 3
	assert.InDelta(t, 0.15, p.Delta, 1e-9)
	assert.Equal(t, []string{simulation.FieldILOC187Ratified}, p.ChangedFields)

	worse := base
	worse.FatalAccidentRate = 20
	p = scoring.Project(base, worse)
	assert.Equal(t, scoring.OutcomeRegression, p.Outcome)
	assert.Negative(t, p.Delta)
	assert.Equal(t, p.ProjectedMaturity-p.BaselineMaturity, p.Delta)
}

func TestProjectBelowRoundingThresholdIsNoChange(t *testing.T) {
	base := simulation.DefaultMetrics()
	working := base
	working.StrategicCapacity = 50.2 // +0.1 governance raw, rounds away
	p := scoring.Project(base, working)
	assert.Equal(t, 0.0, p.Delta)
	assert.Equal(t, scoring.OutcomeNoChange, p.Outcome)
	assert.Equal(t, []string{string(simulation.FieldStrategicCapacity)}, p.ChangedFields)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, scoring.OutcomeImprovement, scoring.Classify(0.0001))
	assert.Equal(t, scoring.OutcomeNoChange, scoring.Classify(0))
	assert.Equal(t, scoring.OutcomeRegression, scoring.Classify(-0.0001))
}

func TestBandFromScore(t *testing.T) {
	tests := []struct {
		score int
		want  scoring.Band
	}{
		{100, scoring.BandStrong},
		{70, scoring.BandStrong},
		{69, scoring.BandModerate},
		{40, scoring.BandModerate},
		{39, scoring.BandWeak},
		{0, scoring.BandWeak},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, scoring.BandFromScore(tc.score), "score %d", tc.score)
	}
}

func TestScaleConversionsRoundTrip(t *testing.T) {
	assert.Equal(t, 1.0, scoring.FromPercentScale(0))
	assert.Equal(t, 4.0, scoring.FromPercentScale(100))
	assert.Equal(t, 0.0, scoring.ToPercentScale(1.0))
	assert.Equal(t, 100.0, scoring.ToPercentScale(4.0))
	assert.InDelta(t, 87.5, scoring.ToPercentScale(scoring.FromPercentScale(87.5)), 1e-9)
}

func TestRank(t *testing.T) {
	germany, err := country.LoadRecord("../../testdata/germany.json")
	require.NoError(t, err)
	sparse, err := country.LoadRecord("../../testdata/sparse.json")
	require.NoError(t, err)
	unknownA := &country.Record{ISOCode: "ZZA", Name: "A"}
	unknownB := &country.Record{ISOCode: "ZZB", Name: "B"}

	got := scoring.Rank([]*country.Record{unknownB, sparse, nil, germany, unknownA})
	require.Len(t, got, 4)

	assert.Equal(t, "DEU", got[0].ISOCode)
	assert.Equal(t, 1, got[0].Rank)
	assert.NotNil(t, got[0].Reported)
	// Equal maturity falls back to ISO order.
	assert.Equal(t, got[1].Maturity, got[2].Maturity)
	assert.Equal(t, "ZZA", got[1].ISOCode)
	assert.Equal(t, "ZZB", got[2].ISOCode)
	assert.Equal(t, "NPL", got[3].ISOCode)
	assert.Equal(t, 4, got[3].Rank)
}

func TestScorecardOfOutOfRangeRecordStaysInRange(t *testing.T) {
	rec := &country.Record{
		ISOCode:    "TST",
		Governance: &country.Governance{StrategicCapacityScore: country.Float(-80)},
		Vigilance:  &country.HealthVigilance{VulnerabilityIndex: country.Float(150)},
	}

	sc := scoring.DefaultEngine().Scorecard(simulation.Extract(rec))

	// strategic 0, default density 1.0 -> 0.3*10
	assert.Equal(t, 3, sc.Pillars.Governance)
	// default detection 50, coverage 0
	assert.Equal(t, 25, sc.Pillars.Vigilance)
	for _, p := range sc.Breakdown {
		assert.GreaterOrEqual(t, p.Score, 0, p.Key)
		assert.LessOrEqual(t, p.Score, 100, p.Key)
	}
	assert.GreaterOrEqual(t, sc.Maturity, scoring.MaturityMin)
}
