package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// uploadTimeout bounds a single object write.
const uploadTimeout = 2 * time.Minute

// GCSStore keeps uploads in a Google Cloud Storage bucket. References are
// gs:// URIs. It assumes Application Default Credentials are configured.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore creates a store writing to the given bucket.
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

// Save writes the bytes to a date-sharded, uuid-prefixed object and returns
// its gs:// URI.
func (s *GCSStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	object := path.Join(
		"uploads",
		time.Now().Format("2006/01/02"),
		uuid.NewString()+"-"+path.Base(name),
	)

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write GCS object %q: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close GCS writer for %q: %w", object, err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, object), nil
}

// Fetch reads the object a gs:// URI points at.
func (s *GCSStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	bucket, object, err := parseGCSURI(ref)
	if err != nil {
		return nil, err
	}

	r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}
	return data, nil
}

// Close releases the underlying storage client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

func parseGCSURI(uri string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(uri, "gs://")
	if trimmed == uri {
		return "", "", fmt.Errorf("invalid GCS URI %q: missing gs:// prefix", uri)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI %q: expected gs://bucket/object", uri)
	}
	return parts[0], parts[1], nil
}

var _ BlobStore = (*GCSStore)(nil)
