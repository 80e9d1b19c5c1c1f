// Package uploads stores the raw PDF bytes of ingested documents so parse
// jobs and re-processing can fetch them later.
package uploads

import "context"

// BlobStore saves uploaded files and fetches them back by reference. The
// reference format is backend-specific: a filesystem path for the local
// store, a gs:// URI for GCS.
type BlobStore interface {
	Save(ctx context.Context, name string, data []byte) (ref string, err error)
	Fetch(ctx context.Context, ref string) ([]byte, error)
}
