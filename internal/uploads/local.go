package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LocalStore keeps uploads on disk under a base directory, sharded by upload
// date. References are absolute file paths.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Save writes the bytes under a date-sharded, uuid-prefixed name so repeated
// uploads of the same filename never collide.
func (s *LocalStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	shard := filepath.Join(s.dir, time.Now().Format("2006/01/02"))
	if err := os.MkdirAll(shard, 0o755); err != nil {
		return "", fmt.Errorf("uploads: create %s: %w", shard, err)
	}

	path := filepath.Join(shard, uuid.NewString()+"-"+filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("uploads: write %s: %w", path, err)
	}
	return path, nil
}

// Fetch reads the bytes back from the reference path.
func (s *LocalStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("uploads: read %s: %w", ref, err)
	}
	return data, nil
}

var _ BlobStore = (*LocalStore)(nil)
