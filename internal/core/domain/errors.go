package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Pipeline Errors.

	// ErrAnalysisFailure indicates the analyzer could not produce a
	// DocumentationRecord for a file. The file is skipped for the run;
	// remaining files continue to be processed.
	ErrAnalysisFailure = errors.New("analysis failure")

	// ErrSchemaViolation indicates an assembled API description failed
	// schema validation. Spec and viewer artifacts are withheld for the
	// file; the Markdown artifact is still produced.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrStorageFailure indicates a source file could not be read or an
	// output artifact could not be written. Fatal for that file's
	// processing; its fingerprint must not be updated.
	ErrStorageFailure = errors.New("storage failure")

	// ErrCacheCorruption indicates the persisted fingerprint record is
	// unreadable or malformed. Recovered by treating the cache as empty.
	ErrCacheCorruption = errors.New("fingerprint cache corrupted")

	// ErrAnalyzerUnavailable indicates no analyzer backend is configured.
	ErrAnalyzerUnavailable = errors.New("analyzer unavailable")

	// ErrRootUnreadable indicates the root source directory cannot be
	// read. This is the only condition that aborts a run outright.
	ErrRootUnreadable = errors.New("source root unreadable")
)
