package country_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohip/ohip/pkg/country"
)

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		rec     *country.Record
		wantErr bool
	}{
		{"alpha-3", &country.Record{ISOCode: "DEU"}, false},
		{"alpha-2", &country.Record{ISOCode: "DE"}, false},
		{"lowercase", &country.Record{ISOCode: "deu"}, true},
		{"too long", &country.Record{ISOCode: "DEUT"}, true},
		{"empty", &country.Record{}, true},
		{"nil", nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rec.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeRecordKeepsNullsAbsent(t *testing.T) {
	rec, err := country.LoadRecord("../../testdata/sparse.json")
	require.NoError(t, err)

	assert.Equal(t, "NPL", rec.ISOCode)
	require.NotNil(t, rec.Governance)
	assert.Equal(t, 30.0, *rec.Governance.StrategicCapacityScore)
	assert.Nil(t, rec.Governance.ILOC187Status)
	require.NotNil(t, rec.Hazard)
	assert.Nil(t, rec.Hazard.FatalAccidentRate)
	assert.Nil(t, rec.Restoration)
	assert.Nil(t, rec.MaturityScore)
}

func TestDecodeRecordRejectsMalformed(t *testing.T) {
	_, err := country.DecodeRecord([]byte(`{"iso_code": 7`))
	assert.ErrorContains(t, err, "unmarshaling record")
}

func TestSaveLoadRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "DEU.json")
	rec := &country.Record{
		ISOCode:       "DEU",
		Name:          "Germany",
		MaturityScore: country.Float(87.5),
		Governance:    &country.Governance{ILOC187Status: country.Bool(false)},
	}
	require.NoError(t, country.SaveRecord(path, rec))

	got, err := country.LoadRecord(path)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	// false is a value, not a missing indicator
	require.NotNil(t, got.Governance.ILOC187Status)
	assert.False(t, *got.Governance.ILOC187Status)
}

func TestLoadRecordMissingFile(t *testing.T) {
	_, err := country.LoadRecord(filepath.Join(t.TempDir(), "none.json"))
	assert.ErrorContains(t, err, "reading record")
}
