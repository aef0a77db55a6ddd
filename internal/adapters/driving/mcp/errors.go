// Package mcp provides an MCP (Model Context Protocol) server adapter
// for docfold. It exposes the generated documentation tree to AI
// assistants as resources and tools.
package mcp

import "errors"

// ErrMissingDocsLibrary is returned when the docs library is not provided.
var ErrMissingDocsLibrary = errors.New("mcp: docs library is required")
