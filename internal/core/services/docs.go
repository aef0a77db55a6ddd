package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docfold/docfold-cli/internal/core/domain"
	"github.com/docfold/docfold-cli/internal/core/ports/driving"
)

// Ensure DocsService implements the interface.
var _ driving.DocsLibrary = (*DocsService)(nil)

// DocsService reads a generated documentation tree. It serves the MCP
// surface and any other read-only consumer.
type DocsService struct {
	docsDir string
}

// NewDocsService creates a docs library over a docs directory.
func NewDocsService(docsDir string) *DocsService {
	return &DocsService{docsDir: docsDir}
}

// Index lists every documented module with its artifact paths.
func (s *DocsService) Index(_ context.Context) ([]domain.IndexEntry, error) {
	var entries []domain.IndexEntry

	err := filepath.WalkDir(s.docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.docsDir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" || d.Name() == IndexFileName {
			return nil
		}

		rel, err := filepath.Rel(s.docsDir, path)
		if err != nil {
			return nil
		}
		entry := domain.IndexEntry{
			Module:       strings.TrimSuffix(d.Name(), ".md"),
			MarkdownPath: rel,
		}
		if spec := swapExt(rel, ".yaml"); artifactExists(s.docsDir, spec) {
			entry.SpecPath = spec
		}
		if page := swapExt(rel, ".html"); artifactExists(s.docsDir, page) {
			entry.ViewerPath = page
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read docs tree: %v", domain.ErrStorageFailure, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Module < entries[j].Module })
	return entries, nil
}

// ModuleDoc returns the Markdown documentation for a module.
func (s *DocsService) ModuleDoc(ctx context.Context, module string) (string, error) {
	return s.readArtifact(ctx, module, func(e domain.IndexEntry) string { return e.MarkdownPath })
}

// ModuleSpec returns the YAML API description for a module.
func (s *DocsService) ModuleSpec(ctx context.Context, module string) (string, error) {
	return s.readArtifact(ctx, module, func(e domain.IndexEntry) string { return e.SpecPath })
}

// readArtifact locates a module in the index and reads one of its
// artifacts.
func (s *DocsService) readArtifact(ctx context.Context, module string, pick func(domain.IndexEntry) string) (string, error) {
	entries, err := s.Index(ctx)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Module != module {
			continue
		}
		rel := pick(e)
		if rel == "" {
			return "", fmt.Errorf("%w: module %s has no such artifact", domain.ErrNotFound, module)
		}
		content, err := os.ReadFile(filepath.Join(s.docsDir, rel))
		if err != nil {
			return "", fmt.Errorf("%w: read %s: %v", domain.ErrStorageFailure, rel, err)
		}
		return string(content), nil
	}
	return "", fmt.Errorf("%w: module %s", domain.ErrNotFound, module)
}

// swapExt replaces a path's extension.
func swapExt(rel, ext string) string {
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + ext
}
