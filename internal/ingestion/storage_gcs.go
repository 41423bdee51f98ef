package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

// GCSStorage stores country blobs in a Cloud Storage bucket. Credentials
// come from Application Default Credentials.
type GCSStorage struct {
	bucketStorage
	client *gcs.Client
	bucket *gcs.BucketHandle
	name   string
}

// NewGCSStorage creates a GCS-backed StorageClient. Call Close when done.
func NewGCSStorage(ctx context.Context, bucket string) (*GCSStorage, error) {
	if bucket == "" {
		return nil, errors.New("gcs storage: bucket is required")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs storage: new client: %w", err)
	}
	s := &GCSStorage{client: client, bucket: client.Bucket(bucket), name: bucket}
	s.bucketStorage = bucketStorage{backend: s}
	return s, nil
}

// Close releases the underlying client.
func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) writeBlob(ctx context.Context, key string, data []byte) error {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	w.ChunkSize = 0 // blobs are small; upload in a single request

	_, copyErr := io.Copy(w, bytes.NewReader(data))
	closeErr := w.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		return fmt.Errorf("write gs://%s/%s: %w", s.name, key, err)
	}
	return nil
}

func (s *GCSStorage) readBlob(ctx context.Context, key string) ([]byte, error) {
	r, err := s.bucket.Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			err = ErrBlobNotFound
		}
		return nil, fmt.Errorf("open gs://%s/%s: %w", s.name, key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read gs://%s/%s: %w", s.name, key, err)
	}
	return data, nil
}
