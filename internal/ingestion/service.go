package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ohip/ohip/internal/cache"
	"github.com/ohip/ohip/internal/catalog"
	"github.com/ohip/ohip/internal/provider"
	"github.com/ohip/ohip/pkg/country"
	"github.com/ohip/ohip/pkg/scoring"
	"github.com/ohip/ohip/pkg/simulation"
)

// Report kinds.
const (
	KindScorecard  = "scorecard"
	KindProjection = "projection"
)

// Fetcher abstracts the upstream provider so the service does not depend on
// a concrete HTTP client.
type Fetcher interface {
	ListCountries(ctx context.Context) ([]*country.Record, error)
	GetCountry(ctx context.Context, isoCode string) (*country.Record, error)
}

// Report is the stored body of a generated report.
type Report struct {
	ID         string              `json:"id"`
	ISOCode    string              `json:"iso_code"`
	Kind       string              `json:"kind"`
	Scorecard  *scoring.Scorecard  `json:"scorecard,omitempty"`
	Projection *scoring.Projection `json:"projection,omitempty"`
	Narrative  string              `json:"narrative,omitempty"`
	Markdown   string              `json:"markdown"`
	CreatedAt  time.Time           `json:"created_at"`
}

// SyncResult summarizes one provider sync.
type SyncResult struct {
	Ingested int      `json:"ingested"`
	Failed   []string `json:"failed,omitempty"`
}

// Service ingests country records and stores reports. Record bodies go to
// blob storage; the catalog indexes them.
type Service struct {
	catalog *catalog.Store
	storage StorageClient
	engine  *scoring.Engine
	records *cache.LRU[string, *country.Record]
	fetcher Fetcher
	log     zerolog.Logger
	now     func() time.Time
}

// NewService creates a new ingestion Service. fetcher may be nil, in which
// case sync operations fail.
func NewService(store *catalog.Store, storage StorageClient, engine *scoring.Engine, fetcher Fetcher, cacheSize int, log zerolog.Logger) *Service {
	if engine == nil {
		engine = scoring.DefaultEngine()
	}
	return &Service{
		catalog: store,
		storage: storage,
		engine:  engine,
		records: cache.New[string, *country.Record](cacheSize),
		fetcher: fetcher,
		log:     log,
		now:     time.Now,
	}
}

// Engine returns the scoring engine records are ranked with.
func (s *Service) Engine() *scoring.Engine { return s.engine }

// IngestCountry validates rec, stores it as a new revision and indexes its
// scores in the catalog.
func (s *Service) IngestCountry(ctx context.Context, rec *country.Record) (*catalog.Country, error) {
	if rec == nil {
		return nil, fmt.Errorf("ingest: nil record")
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record %s: %w", rec.ISOCode, err)
	}

	revision := uuid.NewString()
	if err := s.storage.PutRecord(ctx, rec.ISOCode, revision, data); err != nil {
		return nil, fmt.Errorf("put record blob: %w", err)
	}

	pillars := s.engine.Score(simulation.Extract(rec))
	now := s.now().UTC()
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = now
	}

	row := &catalog.Country{
		ISOCode:          rec.ISOCode,
		Name:             rec.Name,
		Region:           rec.Region,
		Revision:         revision,
		ReportedMaturity: rec.MaturityScore,
		Maturity:         s.engine.Aggregate(pillars),
		Governance:       pillars.Governance,
		Pillar1:          pillars.Hazard,
		Pillar2:          pillars.Vigilance,
		Pillar3:          pillars.Restoration,
		UpdatedAt:        updated,
		IngestedAt:       now,
	}
	if err := s.catalog.UpsertCountry(ctx, row); err != nil {
		return nil, err
	}

	s.records.Put(rec.ISOCode, rec)
	s.log.Info().Str("iso", rec.ISOCode).Str("revision", revision).
		Float64("maturity", row.Maturity).Msg("country ingested")
	return row, nil
}

// LoadCountry returns the current record for isoCode, from cache when
// possible. It returns an error wrapping catalog.ErrNotFound for unknown
// countries.
func (s *Service) LoadCountry(ctx context.Context, isoCode string) (*country.Record, error) {
	if rec, ok := s.records.Get(isoCode); ok {
		return rec, nil
	}

	row, err := s.catalog.GetCountry(ctx, isoCode)
	if err != nil {
		return nil, err
	}

	data, err := s.storage.GetRecord(ctx, isoCode, row.Revision)
	if err != nil {
		return nil, fmt.Errorf("load record %s@%s: %w", isoCode, row.Revision, err)
	}
	rec, err := country.DecodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("decode record %s: %w", isoCode, err)
	}

	s.records.Put(isoCode, rec)
	return rec, nil
}

// LoadAll returns the current record of every catalogued country.
func (s *Service) LoadAll(ctx context.Context) ([]*country.Record, error) {
	rows, err := s.catalog.ListCountries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*country.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := s.LoadCountry(ctx, row.ISOCode)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ListCountries returns the catalog rows ordered by ISO code.
func (s *Service) ListCountries(ctx context.Context) ([]catalog.Country, error) {
	return s.catalog.ListCountries(ctx)
}

// DeleteCountry drops a country from the catalog and the cache. Stored
// record revisions and report bodies are kept.
func (s *Service) DeleteCountry(ctx context.Context, isoCode string) error {
	s.records.Remove(isoCode)
	if err := s.catalog.DeleteCountry(ctx, isoCode); err != nil {
		return err
	}
	s.log.Info().Str("iso", isoCode).Msg("country deleted")
	return nil
}

// SyncCountry fetches one record from the provider and ingests it.
func (s *Service) SyncCountry(ctx context.Context, isoCode string) (*catalog.Country, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("sync %s: no provider configured", isoCode)
	}
	rec, err := s.fetcher.GetCountry(ctx, isoCode)
	if err != nil {
		return nil, fmt.Errorf("sync %s: %w", isoCode, err)
	}
	return s.IngestCountry(ctx, rec)
}

// SyncFromProvider ingests every record the provider publishes. A record
// that fails validation or storage is reported in Failed and does not stop
// the sync.
func (s *Service) SyncFromProvider(ctx context.Context) (*SyncResult, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("sync: no provider configured")
	}
	recs, err := s.fetcher.ListCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: %w", err)
	}

	res := &SyncResult{}
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := s.IngestCountry(ctx, rec); err != nil {
			id := "<nil>"
			if rec != nil {
				id = rec.ISOCode
			}
			s.log.Warn().Err(err).Str("iso", id).Msg("sync: record skipped")
			res.Failed = append(res.Failed, id)
			continue
		}
		res.Ingested++
	}
	s.log.Info().Int("ingested", res.Ingested).Int("failed", len(res.Failed)).Msg("provider sync finished")
	return res, nil
}

// StoreReport assigns an ID and timestamp to rep, writes its body and
// indexes it.
func (s *Service) StoreReport(ctx context.Context, rep *Report) (*catalog.Report, error) {
	if rep.ISOCode == "" {
		return nil, fmt.Errorf("store report: iso code is required")
	}

	meta := &catalog.Report{ISOCode: rep.ISOCode, Kind: rep.Kind, HasNarrative: rep.Narrative != ""}
	switch rep.Kind {
	case KindScorecard:
		if rep.Scorecard == nil {
			return nil, fmt.Errorf("store report: scorecard report without scorecard")
		}
		meta.Maturity = rep.Scorecard.Maturity
	case KindProjection:
		if rep.Projection == nil {
			return nil, fmt.Errorf("store report: projection report without projection")
		}
		delta := rep.Projection.Delta
		meta.Maturity = rep.Projection.ProjectedMaturity
		meta.Delta = &delta
		meta.Outcome = string(rep.Projection.Outcome)
	default:
		return nil, fmt.Errorf("store report: unknown kind %q", rep.Kind)
	}

	rep.ID = uuid.NewString()
	rep.CreatedAt = s.now().UTC()
	meta.ID = rep.ID
	meta.CreatedAt = rep.CreatedAt

	data, err := json.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	if err := s.storage.PutReport(ctx, rep.ISOCode, rep.ID, data); err != nil {
		return nil, fmt.Errorf("put report blob: %w", err)
	}
	if err := s.catalog.InsertReport(ctx, meta); err != nil {
		return nil, err
	}

	s.log.Info().Str("iso", rep.ISOCode).Str("report", rep.ID).Str("kind", rep.Kind).Msg("report stored")
	return meta, nil
}

// LoadReport returns a stored report body by ID.
func (s *Service) LoadReport(ctx context.Context, reportID string) (*Report, error) {
	data, err := s.LoadReportBody(ctx, reportID)
	if err != nil {
		return nil, err
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", reportID, err)
	}
	return &rep, nil
}

// LoadReportBody returns the raw JSON body of a stored report.
func (s *Service) LoadReportBody(ctx context.Context, reportID string) ([]byte, error) {
	meta, err := s.catalog.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.GetReport(ctx, meta.ISOCode, meta.ID)
	if err != nil {
		return nil, fmt.Errorf("load report %s: %w", reportID, err)
	}
	return data, nil
}

// ListReports returns report metadata for a country, newest first.
func (s *Service) ListReports(ctx context.Context, isoCode string, limit int) ([]catalog.Report, error) {
	return s.catalog.ListReports(ctx, isoCode, limit)
}

// Ping checks the catalog connection.
func (s *Service) Ping(ctx context.Context) error {
	return s.catalog.Ping(ctx)
}

// IsNotFound reports whether err means a country or report does not exist,
// in the catalog, in blob storage or at the provider.
func IsNotFound(err error) bool {
	return errors.Is(err, catalog.ErrNotFound) || errors.Is(err, ErrBlobNotFound) || errors.Is(err, provider.ErrNotFound)
}
