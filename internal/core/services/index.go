package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

// IndexFileName is the generated index inside the docs directory.
const IndexFileName = "README.md"

// ProjectName derives the documented project's name from its root
// directory.
func ProjectName(root string) string {
	name := filepath.Base(filepath.Clean(root))
	if name == "." || name == string(filepath.Separator) {
		return "project"
	}
	return name
}

// BuildIndex collects index entries from per-file results. Modules with
// no Markdown artifact (failed before rendering) are left out; unchanged
// modules carry over the artifacts still present from prior runs.
func BuildIndex(results []domain.ModuleResult) []domain.IndexEntry {
	entries := make([]domain.IndexEntry, 0, len(results))
	for _, r := range results {
		if r.MarkdownPath == "" {
			continue
		}
		entries = append(entries, domain.IndexEntry{
			Module:       r.Module,
			RelPath:      r.RelPath,
			MarkdownPath: r.MarkdownPath,
			SpecPath:     r.SpecPath,
			ViewerPath:   r.ViewerPath,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Module < entries[j].Module })
	return entries
}

// RenderIndex produces the Markdown index content.
func RenderIndex(project string, entries []domain.IndexEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s documentation\n\n", project)
	if len(entries) == 0 {
		b.WriteString("No documented modules.\n")
		return b.String()
	}

	b.WriteString("| Module | Source | Docs | API spec | Viewer |\n")
	b.WriteString("|--------|--------|------|----------|--------|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | `%s` | %s | %s | %s |\n",
			e.Module,
			e.RelPath,
			indexLink(e.MarkdownPath),
			indexLink(e.SpecPath),
			indexLink(e.ViewerPath),
		)
	}
	return b.String()
}

// WriteIndex regenerates the index file from scratch.
func WriteIndex(docsDir, project string, entries []domain.IndexEntry) error {
	content := RenderIndex(project, entries)
	path := filepath.Join(docsDir, IndexFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("%w: write index: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

// indexLink renders a relative artifact link, or a dash when the
// artifact does not exist.
func indexLink(rel string) string {
	if rel == "" {
		return "-"
	}
	return fmt.Sprintf("[%s](%s)", filepath.Base(rel), filepath.ToSlash(rel))
}
