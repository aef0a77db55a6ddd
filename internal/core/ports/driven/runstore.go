package driven

import (
	"context"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

// RunStore records generation run history.
// This is an optional service - when nil, no history is kept.
type RunStore interface {
	// Save records a completed run.
	Save(ctx context.Context, record domain.RunRecord) error

	// Recent returns the most recent runs, newest first.
	Recent(ctx context.Context, limit int) ([]domain.RunRecord, error)
}
