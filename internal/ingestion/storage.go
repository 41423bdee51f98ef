// Package ingestion moves country records and generated reports between the
// provider, blob storage, the catalog and the scoring engine.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ohip/ohip/pkg/config"
)

// ErrBlobNotFound is returned by every backend when a key does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// StorageClient abstracts blob storage for country records and reports.
// Every blob is keyed by ISO code, kind and ID; record revisions and
// reports are immutable once written.
type StorageClient interface {
	PutRecord(ctx context.Context, isoCode, revision string, data []byte) error
	GetRecord(ctx context.Context, isoCode, revision string) ([]byte, error)
	PutReport(ctx context.Context, isoCode, reportID string, data []byte) error
	GetReport(ctx context.Context, isoCode, reportID string) ([]byte, error)
}

const (
	kindRecords = "records"
	kindReports = "reports"
)

// blobKey is the object key shared by every backend.
func blobKey(isoCode, kind, id string) string {
	return isoCode + "/" + kind + "/" + id + ".json"
}

// blobBackend is the raw key/value surface of an object store.
type blobBackend interface {
	writeBlob(ctx context.Context, key string, data []byte) error
	readBlob(ctx context.Context, key string) ([]byte, error)
}

// bucketStorage lays records and reports out under blobKey on a blobBackend.
type bucketStorage struct {
	backend blobBackend
}

func (b bucketStorage) PutRecord(ctx context.Context, isoCode, revision string, data []byte) error {
	return b.backend.writeBlob(ctx, blobKey(isoCode, kindRecords, revision), data)
}

func (b bucketStorage) GetRecord(ctx context.Context, isoCode, revision string) ([]byte, error) {
	return b.backend.readBlob(ctx, blobKey(isoCode, kindRecords, revision))
}

func (b bucketStorage) PutReport(ctx context.Context, isoCode, reportID string, data []byte) error {
	return b.backend.writeBlob(ctx, blobKey(isoCode, kindReports, reportID), data)
}

func (b bucketStorage) GetReport(ctx context.Context, isoCode, reportID string) ([]byte, error) {
	return b.backend.readBlob(ctx, blobKey(isoCode, kindReports, reportID))
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(isoCode, kind, id string) string {
	return filepath.Join(s.BaseDir, filepath.FromSlash(blobKey(isoCode, kind, id)))
}

func (s *LocalStorage) put(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *LocalStorage) get(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrBlobNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

// PutRecord stores a record revision.
func (s *LocalStorage) PutRecord(ctx context.Context, isoCode, revision string, data []byte) error {
	return s.put(s.path(isoCode, kindRecords, revision), data)
}

// GetRecord retrieves a record revision.
func (s *LocalStorage) GetRecord(ctx context.Context, isoCode, revision string) ([]byte, error) {
	return s.get(s.path(isoCode, kindRecords, revision))
}

// PutReport stores a report.
func (s *LocalStorage) PutReport(ctx context.Context, isoCode, reportID string, data []byte) error {
	return s.put(s.path(isoCode, kindReports, reportID), data)
}

// GetReport retrieves a report.
func (s *LocalStorage) GetReport(ctx context.Context, isoCode, reportID string) ([]byte, error) {
	return s.get(s.path(isoCode, kindReports, reportID))
}

// OpenStorage builds the StorageClient selected by cfg. S3 credentials come
// from S3_ACCESS_KEY / S3_SECRET_KEY when set, else the default AWS chain.
func OpenStorage(ctx context.Context, cfg config.StorageConfig) (StorageClient, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStorage(cfg.LocalPath), nil
	case "s3":
		s, err := NewS3Storage(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "gcs":
		s, err := NewGCSStorage(ctx, cfg.Bucket)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
