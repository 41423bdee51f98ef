// Package scoring implements the policy simulation scoring model: four
// pillar scores computed from a metric snapshot, a maturity score blended
// from them, and the delta between a baseline and a projected snapshot.
//
// Everything here is a pure function of its inputs. No call performs I/O or
// keeps state between calls.
package scoring

import "github.com/ohip/ohip/pkg/simulation"

// PillarScores holds the four pillar scores, each an integer in [0,100].
// Derived on demand, never persisted.
type PillarScores struct {
	Governance  int `json:"governance"`
	Hazard      int `json:"pillar1"`
	Vigilance   int `json:"pillar2"`
	Restoration int `json:"pillar3"`
}

// PillarResult is the output of evaluating a single pillar.
type PillarResult struct {
	Key        string      `json:"key"`   // machine key: "pillar1"
	Name       string      `json:"name"`  // human name: "Hazard Control"
	Raw        float64     `json:"raw"`   // weighted sum before rounding
	Score      int         `json:"score"` // rounded half-up
	Band       Band        `json:"band"`
	Components []Component `json:"components"`
}

// Component is one weighted term of a pillar formula.
type Component struct {
	Metric       string  `json:"metric"`
	Input        float64 `json:"input"`      // snapshot value
	Normalized   float64 `json:"normalized"` // value on the 0-100 scale after inversion/capping
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"` // normalized * weight
}

// Scorecard is the complete scoring of one snapshot.
type Scorecard struct {
	Metrics         simulation.Metrics `json:"metrics"`
	Pillars         PillarScores       `json:"pillars"`
	Breakdown       []PillarResult     `json:"breakdown"`
	Maturity        float64            `json:"maturity"`         // [1.0, 4.0]
	MaturityPercent float64            `json:"maturity_percent"` // same value on the 0-100 display scale
}

// Projection compares a baseline snapshot with an edited one.
type Projection struct {
	BaselinePillars   PillarScores `json:"baseline_pillars"`
	ProjectedPillars  PillarScores `json:"projected_pillars"`
	BaselineMaturity  float64      `json:"baseline_maturity"`
	ProjectedMaturity float64      `json:"projected_maturity"`
	Delta             float64      `json:"delta"`
	Outcome           Outcome      `json:"outcome"`
	PillarDeltas      PillarDeltas `json:"pillar_deltas"`
	ChangedFields     []string     `json:"changed_fields,omitempty"`
}

// PillarDeltas is projected minus baseline, per pillar.
type PillarDeltas struct {
	Governance  int `json:"governance"`
	Hazard      int `json:"pillar1"`
	Vigilance   int `json:"pillar2"`
	Restoration int `json:"pillar3"`
}

// Outcome labels the sign of a maturity delta. Presentation only.
type Outcome string

const (
	OutcomeImprovement Outcome = "improvement"
	OutcomeNoChange    Outcome = "no change"
	OutcomeRegression  Outcome = "regression"
)

// Classify maps a maturity delta to an Outcome.
func Classify(delta float64) Outcome {
	switch {
	case delta > 0:
		return OutcomeImprovement
	case delta < 0:
		return OutcomeRegression
	default:
		return OutcomeNoChange
	}
}

// Band is a coarse label for a pillar score, used by renderers for color.
type Band string

const (
	BandStrong   Band = "STRONG"
	BandModerate Band = "MODERATE"
	BandWeak     Band = "WEAK"
)

// BandFromScore maps a pillar score to a Band.
func BandFromScore(score int) Band {
	switch {
	case score >= 70:
		return BandStrong
	case score >= 40:
		return BandModerate
	default:
		return BandWeak
	}
}
