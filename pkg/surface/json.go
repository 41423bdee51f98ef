package surface

import (
	"encoding/json"
	"io"
)

// JSONRenderer marshals views to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) RenderScorecard(w io.Writer, v *ScorecardView) error {
	return encode(w, v)
}

func (r *JSONRenderer) RenderProjection(w io.Writer, v *ProjectionView) error {
	return encode(w, v)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
