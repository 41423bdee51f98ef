package scoring

import (
	"sort"

	"github.com/ohip/ohip/pkg/country"
	"github.com/ohip/ohip/pkg/simulation"
)

// CountryScore is one row of a ranking table.
type CountryScore struct {
	Rank            int          `json:"rank"`
	ISOCode         string       `json:"iso_code"`
	Name            string       `json:"name"`
	Region          string       `json:"region,omitempty"`
	Pillars         PillarScores `json:"pillars"`
	Maturity        float64      `json:"maturity"`
	MaturityPercent float64      `json:"maturity_percent"`
	Reported        *float64     `json:"reported_maturity,omitempty"` // maturity_score as published, 0-100
}

// Rank scores every record and orders them by maturity, highest first.
// Ties are broken by ISO code. Nil records are skipped.
func (e *Engine) Rank(records []*country.Record) []CountryScore {
	out := make([]CountryScore, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		p := e.Score(simulation.Extract(rec))
		m := e.Aggregate(p)
		out = append(out, CountryScore{
			ISOCode:         rec.ISOCode,
			Name:            rec.Name,
			Region:          rec.Region,
			Pillars:         p,
			Maturity:        m,
			MaturityPercent: ToPercentScale(m),
			Reported:        rec.MaturityScore,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Maturity != out[j].Maturity {
			return out[i].Maturity > out[j].Maturity
		}
		return out[i].ISOCode < out[j].ISOCode
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Rank orders records with the default weights.
func Rank(records []*country.Record) []CountryScore { return defaultEngine.Rank(records) }
