// Package openapi assembles and validates OpenAPI 3.0 descriptions from
// documentation records.
//
// The package owns three concerns: normalising free-form authentication
// signals into named security schemes (Classify), folding a record's
// endpoints into a Document (Assemble), and checking an assembled
// Document against the structural rules of the format (Validate). A
// Document that fails validation must never be persisted.
//
// Documents marshal to YAML with stable field and path ordering, so
// identical input always produces byte-identical output.
package openapi
