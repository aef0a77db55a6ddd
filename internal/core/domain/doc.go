// Package domain defines the core business entities for docfold.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceFile: A scanned source file with its content fingerprint
//   - DocumentationRecord: Structured analysis output for one source file
//   - Endpoint: A detected HTTP endpoint within a DocumentationRecord
//   - ModuleResult: Per-file outcome of a generation run
//   - RunSummary: Aggregate outcome of a generation run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
