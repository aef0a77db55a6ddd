package domain

import "time"

// ModuleState is the terminal state of one file's processing.
type ModuleState string

// Terminal per-file states.
const (
	// ModuleUnchanged means the fingerprint matched and no work was done.
	ModuleUnchanged ModuleState = "unchanged"

	// ModuleGenerated means the full artifact set was written.
	ModuleGenerated ModuleState = "generated"

	// ModuleAnalysisFailed means the analyzer could not produce a record.
	// The file is skipped for the run.
	ModuleAnalysisFailed ModuleState = "analysis-failed"

	// ModuleSpecInvalid means the Markdown artifact was written but the
	// assembled API description failed validation, so the spec and
	// viewer artifacts were withheld.
	ModuleSpecInvalid ModuleState = "spec-invalid"

	// ModuleFailed means a storage failure interrupted processing.
	ModuleFailed ModuleState = "failed"

	// ModuleStale means the fingerprint differs from the record. Only
	// produced by a dry-run plan; a real run analyzes the file instead.
	ModuleStale ModuleState = "stale"
)

// ModuleResult records the outcome of processing one source file.
type ModuleResult struct {
	// RelPath is the source file path relative to the root.
	RelPath string

	// Module is the derived module name.
	Module string

	// State is the terminal processing state.
	State ModuleState

	// MarkdownPath, SpecPath and ViewerPath are paths relative to the
	// docs directory for the artifacts that were written (or, for
	// unchanged modules, still exist from a prior run). Empty when the
	// artifact does not exist.
	MarkdownPath string
	SpecPath     string
	ViewerPath   string

	// Err holds the failure for analysis-failed, spec-invalid and
	// failed states.
	Err error
}

// Succeeded reports whether the file reached a state that permits a
// fingerprint update. Only fully generated (or untouched) modules
// qualify; a spec-invalid module is retried on the next run.
func (r ModuleResult) Succeeded() bool {
	return r.State == ModuleGenerated || r.State == ModuleUnchanged
}

// RunSummary is the aggregate outcome of one generation run.
type RunSummary struct {
	// ID uniquely identifies the run.
	ID string

	// Root is the scanned source directory.
	Root string

	// Results holds one entry per scanned file, ordered by RelPath.
	Results []ModuleResult

	// Warnings are human-readable recovered-failure notes
	// (analysis failures and schema violations).
	Warnings []string

	StartedAt  time.Time
	FinishedAt time.Time
}

// Counts returns the number of files per terminal state.
func (s *RunSummary) Counts() (unchanged, generated, warned, failed int) {
	for _, r := range s.Results {
		switch r.State {
		case ModuleUnchanged:
			unchanged++
		case ModuleGenerated:
			generated++
		case ModuleAnalysisFailed, ModuleSpecInvalid:
			warned++
		case ModuleFailed:
			failed++
		}
	}
	return unchanged, generated, warned, failed
}

// Failed reports whether the run suffered an unrecovered failure class.
// Analysis failures and schema violations are tolerated as continuable;
// storage failures are not.
func (s *RunSummary) Failed() bool {
	for _, r := range s.Results {
		if r.State == ModuleFailed {
			return true
		}
	}
	return false
}

// RunRecord is the flattened, persistable form of a run summary.
type RunRecord struct {
	ID             string
	Root           string
	StartedAt      time.Time
	FinishedAt     time.Time
	FilesTotal     int
	FilesUnchanged int
	FilesGenerated int
	FilesWarned    int
	FilesFailed    int
	Warnings       []string
}

// Record flattens the summary for persistence.
func (s *RunSummary) Record() RunRecord {
	unchanged, generated, warned, failed := s.Counts()
	return RunRecord{
		ID:             s.ID,
		Root:           s.Root,
		StartedAt:      s.StartedAt,
		FinishedAt:     s.FinishedAt,
		FilesTotal:     len(s.Results),
		FilesUnchanged: unchanged,
		FilesGenerated: generated,
		FilesWarned:    warned,
		FilesFailed:    failed,
		Warnings:       s.Warnings,
	}
}

// IndexEntry is one module's line in the generated documentation index.
type IndexEntry struct {
	// Module is the module name.
	Module string

	// RelPath is the source file path relative to the root.
	RelPath string

	// MarkdownPath, SpecPath and ViewerPath are artifact paths relative
	// to the docs directory; empty when the artifact does not exist.
	MarkdownPath string
	SpecPath     string
	ViewerPath   string
}
