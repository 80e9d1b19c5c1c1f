// Package store persists the statement collection as a flat JSON array file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/moumensaid/smartfin/internal/domain"
)

// Repository reads and writes one collection file. Load/Save/Update serialize
// through a process-local mutex and Save writes via a temp file rename, so
// ingestions within one process cannot interleave or tear the file. Writers
// in other processes are still last-writer-wins; run one ingesting process
// per collection file.
type Repository struct {
	mu   sync.Mutex
	path string
}

// NewRepository creates a repository backed by the given file path. The file
// does not need to exist yet.
func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

// Load returns the persisted collection. A missing file is an empty
// collection; a corrupt file is treated the same and will be overwritten on
// the next Save.
func (r *Repository) Load() ([]*domain.StatementRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Save replaces the persisted collection.
func (r *Repository) Save(records []*domain.StatementRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(records)
}

// Update runs fn inside the lock as a read-modify-write: fn receives the
// current collection and returns the collection to persist. The saved
// collection is returned.
func (r *Repository) Update(fn func([]*domain.StatementRecord) []*domain.StatementRecord) ([]*domain.StatementRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}
	records = fn(records)
	if err := r.save(records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) load() ([]*domain.StatementRecord, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []*domain.StatementRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", r.path, err)
	}

	var records []*domain.StatementRecord
	if err := json.Unmarshal(data, &records); err != nil {
		// Corrupt storage degrades to empty rather than blocking ingestion.
		return []*domain.StatementRecord{}, nil
	}
	if records == nil {
		records = []*domain.StatementRecord{}
	}
	return records, nil
}

func (r *Repository) save(records []*domain.StatementRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal collection: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: replace %s: %w", r.path, err)
	}
	return nil
}
