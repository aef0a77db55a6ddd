package driven

import (
	"context"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

// Analyzer produces structured documentation facts for source code.
// The core treats it as a black box: calls are blocking, possibly slow,
// possibly failing, and not assumed to be deterministic.
//
// Implementations may include:
//   - OpenAI-compatible chat completions APIs
//   - Ollama (local models)
//
// A failed call must wrap domain.ErrAnalysisFailure so the pipeline can
// skip the file and continue with the rest of the batch.
type Analyzer interface {
	// Analyze returns the documentation record for one source file.
	Analyze(ctx context.Context, path string, content []byte) (*domain.DocumentationRecord, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the backend is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
