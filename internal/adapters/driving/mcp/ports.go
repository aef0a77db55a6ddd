package mcp

import (
	"github.com/docfold/docfold-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Docs reads the generated documentation tree.
	Docs driving.DocsLibrary
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Docs == nil {
		return ErrMissingDocsLibrary
	}
	return nil
}
