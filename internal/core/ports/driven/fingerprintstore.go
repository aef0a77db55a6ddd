package driven

import "context"

// FingerprintStore persists the path -> fingerprint record across runs.
// Saves must be atomic per path: a crash mid-run must never leave a path
// marked as seen for content whose artifacts were not actually written.
//
// A store that cannot read its backing state at open time recovers by
// starting empty (full reprocessing) rather than failing the run.
type FingerprintStore interface {
	// Get retrieves the stored fingerprint for a path.
	// Returns domain.ErrNotFound when the path has no record.
	Get(ctx context.Context, path string) (string, error)

	// Save stores or updates the fingerprint for a path.
	Save(ctx context.Context, path, fingerprint string) error

	// Delete removes the record for a path.
	Delete(ctx context.Context, path string) error

	// Paths lists all recorded paths.
	Paths(ctx context.Context) ([]string, error)
}
