// Package catalog indexes ingested country records and stored reports in
// SQL. The record and report bodies live in blob storage; the catalog keeps
// the columns needed to list, rank and find them.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a country or report does not exist.
var ErrNotFound = errors.New("not found")

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store provides country and report bookkeeping on Postgres or SQLite.
type Store struct {
	db *sqlx.DB
}

// Country is the catalog row for one ingested record.
type Country struct {
	ISOCode          string    `json:"iso_code"`
	Name             string    `json:"name"`
	Region           string    `json:"region,omitempty"`
	Revision         string    `json:"revision"`
	ReportedMaturity *float64  `json:"reported_maturity,omitempty"`
	Maturity         float64   `json:"maturity"`
	Governance       int       `json:"governance"`
	Pillar1          int       `json:"pillar1"`
	Pillar2          int       `json:"pillar2"`
	Pillar3          int       `json:"pillar3"`
	UpdatedAt        time.Time `json:"updated_at"`
	IngestedAt       time.Time `json:"ingested_at"`
}

// Report is the catalog row for one stored report.
type Report struct {
	ID           string    `json:"id"`
	ISOCode      string    `json:"iso_code"`
	Kind         string    `json:"kind"` // scorecard or projection
	Maturity     float64   `json:"maturity"`
	Delta        *float64  `json:"delta,omitempty"`
	Outcome      string    `json:"outcome,omitempty"`
	HasNarrative bool      `json:"has_narrative"`
	CreatedAt    time.Time `json:"created_at"`
}

// Timestamps are stored as UTC text so both dialects share one schema.
type countryRow struct {
	ISOCode          string          `db:"iso_code"`
	Name             string          `db:"name"`
	Region           string          `db:"region"`
	Revision         string          `db:"revision"`
	ReportedMaturity sql.NullFloat64 `db:"reported_maturity"`
	Maturity         float64         `db:"maturity"`
	Governance       int             `db:"governance"`
	Pillar1          int             `db:"pillar1"`
	Pillar2          int             `db:"pillar2"`
	Pillar3          int             `db:"pillar3"`
	UpdatedAt        string          `db:"updated_at"`
	IngestedAt       string          `db:"ingested_at"`
}

type reportRow struct {
	ID        string          `db:"id"`
	ISOCode   string          `db:"iso_code"`
	Kind      string          `db:"kind"`
	Maturity  float64         `db:"maturity"`
	Delta     sql.NullFloat64 `db:"delta"`
	Outcome   string          `db:"outcome"`
	Narrative int             `db:"narrative"`
	CreatedAt string          `db:"created_at"`
}

const countryColumns = `iso_code, name, region, revision, reported_maturity, maturity,
	governance, pillar1, pillar2, pillar3, updated_at, ingested_at`

const reportColumns = `id, iso_code, kind, maturity, delta, outcome, narrative, created_at`

// NewStore wraps db. driverName is the database/sql driver it was opened
// with and selects the placeholder style.
func NewStore(db *sql.DB, driverName string) *Store {
	return &Store{db: sqlx.NewDb(db, driverName)}
}

// UpsertCountry inserts or replaces the row for c.ISOCode.
func (s *Store) UpsertCountry(ctx context.Context, c *Country) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO countries (`+countryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (iso_code) DO UPDATE SET
		   name = excluded.name,
		   region = excluded.region,
		   revision = excluded.revision,
		   reported_maturity = excluded.reported_maturity,
		   maturity = excluded.maturity,
		   governance = excluded.governance,
		   pillar1 = excluded.pillar1,
		   pillar2 = excluded.pillar2,
		   pillar3 = excluded.pillar3,
		   updated_at = excluded.updated_at,
		   ingested_at = excluded.ingested_at`),
		c.ISOCode, c.Name, c.Region, c.Revision, nullFloat(c.ReportedMaturity), c.Maturity,
		c.Governance, c.Pillar1, c.Pillar2, c.Pillar3,
		formatTime(c.UpdatedAt), formatTime(c.IngestedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert country %s: %w", c.ISOCode, err)
	}
	return nil
}

// GetCountry returns the row for isoCode, or ErrNotFound.
func (s *Store) GetCountry(ctx context.Context, isoCode string) (*Country, error) {
	var row countryRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(
		`SELECT `+countryColumns+` FROM countries WHERE iso_code = ?`), isoCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("country %s: %w", isoCode, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get country %s: %w", isoCode, err)
	}
	return row.country()
}

// ListCountries returns every country ordered by ISO code.
func (s *Store) ListCountries(ctx context.Context) ([]Country, error) {
	var rows []countryRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT `+countryColumns+` FROM countries ORDER BY iso_code`); err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}

	out := make([]Country, 0, len(rows))
	for _, r := range rows {
		c, err := r.country()
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

// DeleteCountry removes a country and its report rows.
func (s *Store) DeleteCountry(ctx context.Context, isoCode string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete %s: %w", isoCode, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM countries WHERE iso_code = ?`), isoCode)
	if err != nil {
		return fmt.Errorf("delete country %s: %w", isoCode, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("country %s: %w", isoCode, ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM reports WHERE iso_code = ?`), isoCode); err != nil {
		return fmt.Errorf("delete reports for %s: %w", isoCode, err)
	}
	return tx.Commit()
}

// InsertReport records a stored report.
func (s *Store) InsertReport(ctx context.Context, r *Report) error {
	narrative := 0
	if r.HasNarrative {
		narrative = 1
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO reports (`+reportColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		r.ID, r.ISOCode, r.Kind, r.Maturity, nullFloat(r.Delta), r.Outcome, narrative, formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert report %s: %w", r.ID, err)
	}
	return nil
}

// GetReport returns one report row, or ErrNotFound.
func (s *Store) GetReport(ctx context.Context, id string) (*Report, error) {
	var row reportRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(
		`SELECT `+reportColumns+` FROM reports WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}
	return row.report()
}

// ListReports returns the reports for isoCode, newest first, at most limit
// rows (limit <= 0 means 50).
func (s *Store) ListReports(ctx context.Context, isoCode string, limit int) ([]Report, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []reportRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(
		`SELECT `+reportColumns+` FROM reports WHERE iso_code = ?
		 ORDER BY created_at DESC, id LIMIT ?`), isoCode, limit); err != nil {
		return nil, fmt.Errorf("list reports for %s: %w", isoCode, err)
	}

	out := make([]Report, 0, len(rows))
	for _, r := range rows {
		rep, err := r.report()
		if err != nil {
			return nil, err
		}
		out = append(out, *rep)
	}
	return out, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (r countryRow) country() (*Country, error) {
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("country %s updated_at: %w", r.ISOCode, err)
	}
	ingested, err := parseTime(r.IngestedAt)
	if err != nil {
		return nil, fmt.Errorf("country %s ingested_at: %w", r.ISOCode, err)
	}
	return &Country{
		ISOCode:          r.ISOCode,
		Name:             r.Name,
		Region:           r.Region,
		Revision:         r.Revision,
		ReportedMaturity: floatPtr(r.ReportedMaturity),
		Maturity:         r.Maturity,
		Governance:       r.Governance,
		Pillar1:          r.Pillar1,
		Pillar2:          r.Pillar2,
		Pillar3:          r.Pillar3,
		UpdatedAt:        updated,
		IngestedAt:       ingested,
	}, nil
}

func (r reportRow) report() (*Report, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("report %s created_at: %w", r.ID, err)
	}
	return &Report{
		ID:           r.ID,
		ISOCode:      r.ISOCode,
		Kind:         r.Kind,
		Maturity:     r.Maturity,
		Delta:        floatPtr(r.Delta),
		Outcome:      r.Outcome,
		HasNarrative: r.Narrative != 0,
		CreatedAt:    created,
	}, nil
}

// timeLayout is fixed-width so text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
