// Package simulation holds the policy simulator's input model: the metric
// snapshot that the scoring functions consume, the extractor that builds one
// from a country record, and the baseline/working scenario a user edits.
package simulation

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Metrics is one snapshot of simulator inputs. It is a value type: copying
// it produces an independent snapshot.
//
// Scoring does not re-clamp these values. Callers keep every field inside
// its documented range (see Ranges) before handing a snapshot over.
type Metrics struct {
	StrategicCapacity     float64 `json:"strategicCapacity"`     // [0,100]
	InspectorDensity      float64 `json:"inspectorDensity"`      // [0,10] per 10k workers
	ILOC187Ratified       bool    `json:"iloC187Ratified"`       //
	FatalAccidentRate     float64 `json:"fatalAccidentRate"`     // [0,20] per 100k, lower is better
	OELCompliance         float64 `json:"oelCompliance"`         // [0,100]
	AirPollution          float64 `json:"airPollution"`          // [0,100] PM2.5 proxy, lower is better
	DiseaseDetectionRate  float64 `json:"diseaseDetectionRate"`  // [0,100]
	VulnerableEmpCoverage float64 `json:"vulnerableEmpCoverage"` // [0,100]
	RehabAccess           float64 `json:"rehabAccess"`           // [0,100]
	ReturnToWorkSuccess   float64 `json:"returnToWorkSuccess"`   // [0,100]
}

// DefaultMetrics returns the substitution table used when a country, or any
// single indicator of it, is missing.
func DefaultMetrics() Metrics {
	return Metrics{
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
}

// Field names one numeric metric. The string value is the JSON key.
type Field string

const (
	FieldStrategicCapacity     Field = "strategicCapacity"
	FieldInspectorDensity      Field = "inspectorDensity"
	FieldFatalAccidentRate     Field = "fatalAccidentRate"
	FieldOELCompliance         Field = "oelCompliance"
	FieldAirPollution          Field = "airPollution"
	FieldDiseaseDetectionRate  Field = "diseaseDetectionRate"
	FieldVulnerableEmpCoverage Field = "vulnerableEmpCoverage"
	FieldRehabAccess           Field = "rehabAccess"
	FieldReturnToWorkSuccess   Field = "returnToWorkSuccess"
)

// FieldILOC187Ratified is the only boolean input. It is kept apart from the
// numeric fields because it has no range.
const FieldILOC187Ratified = "iloC187Ratified"

// Range is the inclusive slider range of a numeric field.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp returns v limited to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var ranges = map[Field]Range{
	FieldStrategicCapacity:     {0, 100},
	FieldInspectorDensity:      {0, 10},
	FieldFatalAccidentRate:     {0, 20},
	FieldOELCompliance:         {0, 100},
	FieldAirPollution:          {0, 100},
	FieldDiseaseDetectionRate:  {0, 100},
	FieldVulnerableEmpCoverage: {0, 100},
	FieldRehabAccess:           {0, 100},
	FieldReturnToWorkSuccess:   {0, 100},
}

// Ranges returns a copy of the documented range of every numeric field.
func Ranges() map[Field]Range {
	out := make(map[Field]Range, len(ranges))
	for f, r := range ranges {
		out[f] = r
	}
	return out
}

// Fields returns the numeric fields in a stable order.
func Fields() []Field {
	fields := make([]Field, 0, len(ranges))
	for f := range ranges {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// ParseField resolves a field name. Matching is case-insensitive.
func ParseField(name string) (Field, error) {
	for f := range ranges {
		if strings.EqualFold(string(f), name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown metric field %q", name)
}

func (m *Metrics) ref(f Field) *float64 {
	switch f {
	case FieldStrategicCapacity:
		return &m.StrategicCapacity
	case FieldInspectorDensity:
		return &m.InspectorDensity
	case FieldFatalAccidentRate:
		return &m.FatalAccidentRate
	case FieldOELCompliance:
		return &m.OELCompliance
	case FieldAirPollution:
		return &m.AirPollution
	case FieldDiseaseDetectionRate:
		return &m.DiseaseDetectionRate
	case FieldVulnerableEmpCoverage:
		return &m.VulnerableEmpCoverage
	case FieldRehabAccess:
		return &m.RehabAccess
	case FieldReturnToWorkSuccess:
		return &m.ReturnToWorkSuccess
	}
	return nil
}

// Get returns the value of a numeric field.
func (m Metrics) Get(f Field) (float64, error) {
	p := m.ref(f)
	if p == nil {
		return 0, fmt.Errorf("unknown metric field %q", f)
	}
	return *p, nil
}

// With returns a copy of m with field f set to v, clamped to the field's
// range the way a slider would. NaN and infinities have no slider position
// and are rejected.
func (m Metrics) With(f Field, v float64) (Metrics, error) {
	p := m.ref(f)
	if p == nil {
		return m, fmt.Errorf("unknown metric field %q", f)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return m, fmt.Errorf("%s: value %g is not a finite number", f, v)
	}
	*p = ranges[f].Clamp(v)
	return m, nil
}

// Clamp returns a copy of m with every numeric field limited to its range.
func (m Metrics) Clamp() Metrics {
	for f, r := range ranges {
		p := m.ref(f)
		*p = r.Clamp(*p)
	}
	return m
}

// Validate reports every field outside its range. Callers that prefer to
// reject rather than clamp use it at their boundary.
func (m Metrics) Validate() error {
	var bad []string
	for _, f := range Fields() {
		v := *m.ref(f)
		if r := ranges[f]; !r.Contains(v) {
			bad = append(bad, fmt.Sprintf("%s=%g outside [%g,%g]", f, v, r.Min, r.Max))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("metrics out of range: %s", strings.Join(bad, ", "))
	}
	return nil
}

// Diff lists the fields whose values differ between a and b.
func Diff(a, b Metrics) []string {
	var changed []string
	for _, f := range Fields() {
		if *a.ref(f) != *b.ref(f) {
			changed = append(changed, string(f))
		}
	}
	if a.ILOC187Ratified != b.ILOC187Ratified {
		changed = append(changed, FieldILOC187Ratified)
	}
	return changed
}
