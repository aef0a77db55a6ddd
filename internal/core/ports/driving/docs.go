package driving

import (
	"context"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

// DocsLibrary provides read access to a generated documentation tree.
// It backs the MCP server and any other read-only surface.
type DocsLibrary interface {
	// Index lists every documented module with its artifact paths.
	Index(ctx context.Context) ([]domain.IndexEntry, error)

	// ModuleDoc returns the Markdown documentation for a module.
	ModuleDoc(ctx context.Context, module string) (string, error)

	// ModuleSpec returns the YAML API description for a module.
	// Returns domain.ErrNotFound when the module has no spec artifact.
	ModuleSpec(ctx context.Context, module string) (string, error)
}
