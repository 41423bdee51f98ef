package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohip/ohip/pkg/config"
)

func TestLocalStoragePutGetRecord(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"iso_code":"DEU"}`)
	require.NoError(t, s.PutRecord(ctx, "DEU", "rev1", data))

	got, err := s.GetRecord(ctx, "DEU", "rev1")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// Verify file path layout
	expectedPath := filepath.Join(dir, "DEU", "records", "rev1.json")
	_, err = os.Stat(expectedPath)
	assert.NoError(t, err)
}

func TestLocalStoragePutGetReport(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"kind":"scorecard"}`)
	require.NoError(t, s.PutReport(ctx, "DEU", "r1", data))

	got, err := s.GetReport(ctx, "DEU", "r1")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = os.Stat(filepath.Join(dir, "DEU", "reports", "r1.json"))
	assert.NoError(t, err)
}

func TestLocalStorageGetNotFound(t *testing.T) {
	s := NewLocalStorage(t.TempDir())

	_, err := s.GetRecord(context.Background(), "DEU", "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBlobNotFound))
}

func TestBlobKey(t *testing.T) {
	assert.Equal(t, "DEU/records/abc.json", blobKey("DEU", kindRecords, "abc"))
	assert.Equal(t, "NPL/reports/r9.json", blobKey("NPL", kindReports, "r9"))
}

func TestOpenStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenStorage(context.Background(), config.StorageConfig{Backend: "local", LocalPath: dir})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = OpenStorage(context.Background(), config.StorageConfig{Backend: "ftp"})
	assert.ErrorContains(t, err, "unknown storage backend")
}

type memBackend map[string][]byte

func (m memBackend) writeBlob(_ context.Context, key string, data []byte) error {
	m[key] = data
	return nil
}

func (m memBackend) readBlob(_ context.Context, key string) ([]byte, error) {
	data, ok := m[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return data, nil
}

func TestBucketStorageKeyLayout(t *testing.T) {
	mem := memBackend{}
	s := bucketStorage{backend: mem}
	ctx := context.Background()

	require.NoError(t, s.PutRecord(ctx, "DEU", "rev1", []byte("a")))
	require.NoError(t, s.PutReport(ctx, "DEU", "r1", []byte("b")))
	assert.Contains(t, mem, "DEU/records/rev1.json")
	assert.Contains(t, mem, "DEU/reports/r1.json")

	got, err := s.GetReport(ctx, "DEU", "r1")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got)

	_, err = s.GetRecord(ctx, "DEU", "r1")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestS3LoadOptions(t *testing.T) {
	assert.Empty(t, s3LoadOptions(S3Config{Bucket: "b"}))
	assert.Len(t, s3LoadOptions(S3Config{Region: "eu-central-1"}), 1)
	// Half a key pair falls back to the default chain.
	assert.Len(t, s3LoadOptions(S3Config{Region: "eu-central-1", AccessKey: "id"}), 1)
	assert.Len(t, s3LoadOptions(S3Config{Region: "eu-central-1", AccessKey: "id", SecretKey: "secret"}), 2)
}

func TestCloudStorageRequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), S3Config{})
	assert.ErrorContains(t, err, "bucket is required")

	_, err = NewGCSStorage(context.Background(), "")
	assert.ErrorContains(t, err, "bucket is required")
}
