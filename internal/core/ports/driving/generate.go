package driving

import (
	"context"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

// GenerateOrchestrator coordinates documentation generation for a
// source tree.
type GenerateOrchestrator interface {
	// Generate runs the full pipeline over the root directory and
	// returns the run summary. An error is returned only when the root
	// itself cannot be read; per-file failures are reported through the
	// summary.
	Generate(ctx context.Context, root string) (*domain.RunSummary, error)

	// Plan classifies every file against the fingerprint record without
	// calling the analyzer or writing anything. Changed or new files are
	// reported as stale.
	Plan(ctx context.Context, root string) (*domain.RunSummary, error)

	// Status returns the progress of the run in flight, if any.
	Status(ctx context.Context) (*GenerateStatus, error)
}

// GenerateStatus represents the current state of a generation run.
type GenerateStatus struct {
	// Running indicates if a run is currently in progress.
	Running bool

	// FilesTotal is the number of files discovered by the scan.
	FilesTotal int

	// FilesProcessed is the count of files fully handled so far.
	FilesProcessed int

	// WarningCount is the number of recovered failures so far.
	WarningCount int
}
