package scoring

import (
	"fmt"
	"math"

	"github.com/ohip/ohip/pkg/simulation"
)

// Pillar is the interface all four pillars implement.
type Pillar interface {
	// Key returns the machine-readable pillar identifier.
	Key() string
	// Name returns the human-readable pillar name.
	Name() string
	// Evaluate computes the pillar's score for a snapshot.
	Evaluate(m simulation.Metrics) PillarResult
}

// Engine scores snapshots with a fixed weight set. An Engine holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	pillars  Pillars
	maturity MaturityWeights
}

// NewEngine creates an engine for the given weights.
func NewEngine(w Weights) (*Engine, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weights: %w", err)
	}
	return &Engine{pillars: NewPillars(w), maturity: w.Maturity}, nil
}

var defaultEngine = mustEngine(DefaultWeights())

func mustEngine(w Weights) *Engine {
	e, err := NewEngine(w)
	if err != nil {
		panic(err)
	}
	return e
}

// DefaultEngine returns the engine built from DefaultWeights.
func DefaultEngine() *Engine { return defaultEngine }

// Score computes the four pillar scores of m.
func (e *Engine) Score(m simulation.Metrics) PillarScores {
	return PillarScores{
		Governance:  e.pillars.Governance.Evaluate(m).Score,
		Hazard:      e.pillars.Hazard.Evaluate(m).Score,
		Vigilance:   e.pillars.Vigilance.Evaluate(m).Score,
		Restoration: e.pillars.Restoration.Evaluate(m).Score,
	}
}

// Aggregate blends pillar scores into a maturity score in [1.0, 4.0].
// The result is not rounded.
func (e *Engine) Aggregate(p PillarScores) float64 {
	weighted := float64(p.Governance)*e.maturity.Governance +
		float64(p.Hazard)*e.maturity.Hazard +
		float64(p.Vigilance)*e.maturity.Vigilance +
		float64(p.Restoration)*e.maturity.Restoration
	return FromPercentScale(weighted)
}

// Scorecard scores m with a full per-pillar breakdown.
func (e *Engine) Scorecard(m simulation.Metrics) *Scorecard {
	sc := &Scorecard{Metrics: m}
	for _, p := range e.pillars.All() {
		sc.Breakdown = append(sc.Breakdown, p.Evaluate(m))
	}
	sc.Pillars = PillarScores{
		Governance:  sc.Breakdown[0].Score,
		Hazard:      sc.Breakdown[1].Score,
		Vigilance:   sc.Breakdown[2].Score,
		Restoration: sc.Breakdown[3].Score,
	}
	sc.Maturity = e.Aggregate(sc.Pillars)
	sc.MaturityPercent = ToPercentScale(sc.Maturity)
	return sc
}

// Project scores baseline and working independently and reports the
// difference. Nothing is cached between calls.
func (e *Engine) Project(baseline, working simulation.Metrics) Projection {
	bp := e.Score(baseline)
	pp := e.Score(working)
	bm := e.Aggregate(bp)
	pm := e.Aggregate(pp)
	delta := pm - bm

	return Projection{
		BaselinePillars:   bp,
		ProjectedPillars:  pp,
		BaselineMaturity:  bm,
		ProjectedMaturity: pm,
		Delta:             delta,
		Outcome:           Classify(delta),
		PillarDeltas: PillarDeltas{
			Governance:  pp.Governance - bp.Governance,
			Hazard:      pp.Hazard - bp.Hazard,
			Vigilance:   pp.Vigilance - bp.Vigilance,
			Restoration: pp.Restoration - bp.Restoration,
		},
		ChangedFields: simulation.Diff(baseline, working),
	}
}

// Score computes pillar scores with the default weights.
func Score(m simulation.Metrics) PillarScores { return defaultEngine.Score(m) }

// Aggregate computes the maturity score with the default weights.
func Aggregate(p PillarScores) float64 { return defaultEngine.Aggregate(p) }

// Project compares two snapshots with the default weights.
func Project(baseline, working simulation.Metrics) Projection {
	return defaultEngine.Project(baseline, working)
}

func component(metric string, input, normalized, weight float64) Component {
	return Component{
		Metric:       metric,
		Input:        input,
		Normalized:   normalized,
		Weight:       weight,
		Contribution: normalized * weight,
	}
}

func newPillarResult(key, name string, components ...Component) PillarResult {
	var raw float64
	for _, c := range components {
		raw += c.Contribution
	}
	score := roundHalfUp(raw)
	return PillarResult{
		Key:        key,
		Name:       name,
		Raw:        raw,
		Score:      score,
		Band:       BandFromScore(score),
		Components: components,
	}
}

// roundEpsilon absorbs representation error in sums that are exactly .5 on
// paper, so they still round up.
const roundEpsilon = 1e-9

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5 + roundEpsilon))
}
