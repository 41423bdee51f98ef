package scoring

// The maturity score lives on a 1.0-4.0 scale. Country records and the
// display layer also carry a 0-100 "maturity" (e.g. 87.5). The two are kept
// apart and converted only through these functions.

const (
	MaturityMin = 1.0
	MaturityMax = 4.0
)

// FromPercentScale maps a 0-100 weighted pillar blend onto the 1.0-4.0
// maturity scale: 0 -> 1.0, 100 -> 4.0.
func FromPercentScale(percent float64) float64 {
	return MaturityMin + (percent/100)*(MaturityMax-MaturityMin)
}

// ToPercentScale maps a 1.0-4.0 maturity score back onto 0-100.
func ToPercentScale(maturity float64) float64 {
	return (maturity - MaturityMin) / (MaturityMax - MaturityMin) * 100
}
