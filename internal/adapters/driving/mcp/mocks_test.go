package mcp

import (
	"context"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

// mockDocsLibrary is a mock implementation of driving.DocsLibrary.
type mockDocsLibrary struct {
	entries []domain.IndexEntry
	doc     string
	spec    string
	err     error
}

func (m *mockDocsLibrary) Index(_ context.Context) ([]domain.IndexEntry, error) {
	return m.entries, m.err
}

func (m *mockDocsLibrary) ModuleDoc(_ context.Context, _ string) (string, error) {
	return m.doc, m.err
}

func (m *mockDocsLibrary) ModuleSpec(_ context.Context, _ string) (string, error) {
	return m.spec, m.err
}
