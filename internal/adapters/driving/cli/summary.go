package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true)
	generatedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	unchangedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warningStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// renderSummary formats a run summary for the terminal.
func renderSummary(s *domain.RunSummary) string {
	unchanged, generated, warned, failed := s.Counts()
	duration := s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", summaryTitleStyle.Render(fmt.Sprintf("Documented %d files in %s", len(s.Results), duration)))
	fmt.Fprintf(&b, "  %s  %s",
		generatedStyle.Render(fmt.Sprintf("%d generated", generated)),
		unchangedStyle.Render(fmt.Sprintf("%d unchanged", unchanged)))
	if warned > 0 {
		fmt.Fprintf(&b, "  %s", warningStyle.Render(fmt.Sprintf("%d warnings", warned)))
	}
	if failed > 0 {
		fmt.Fprintf(&b, "  %s", failedStyle.Render(fmt.Sprintf("%d failed", failed)))
	}
	b.WriteString("\n")

	for _, w := range s.Warnings {
		fmt.Fprintf(&b, "  %s %s\n", warningStyle.Render("warning:"), w)
	}
	return b.String()
}

// renderPlan formats a dry-run classification.
func renderPlan(s *domain.RunSummary) string {
	var stale, unchanged int
	var b strings.Builder

	b.WriteString(summaryTitleStyle.Render("Dry run: no files analyzed, nothing written"))
	b.WriteString("\n")
	for _, r := range s.Results {
		switch r.State {
		case domain.ModuleStale:
			stale++
			fmt.Fprintf(&b, "  %s %s\n", generatedStyle.Render("would generate:"), r.RelPath)
		case domain.ModuleUnchanged:
			unchanged++
		case domain.ModuleFailed:
			fmt.Fprintf(&b, "  %s %s\n", failedStyle.Render("unreadable:"), r.RelPath)
		}
	}
	fmt.Fprintf(&b, "%d stale, %d unchanged of %d files\n", stale, unchanged, len(s.Results))
	return b.String()
}
