package openapi

import (
	"fmt"
	"strings"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

// SchemaViolation reports the specific location that failed validation.
// It wraps domain.ErrSchemaViolation so callers can classify it.
type SchemaViolation struct {
	// Path is the document location, e.g. "paths./users/.get.responses".
	Path string

	// Reason describes the failure.
	Reason string
}

func (v *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation at %s: %s", v.Path, v.Reason)
}

func (v *SchemaViolation) Unwrap() error {
	return domain.ErrSchemaViolation
}

func violation(path, format string, args ...any) error {
	return &SchemaViolation{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// allowedMethods are the operation keys the format permits on a path.
var allowedMethods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"options": true, "head": true, "patch": true, "trace": true,
}

// Validate checks an assembled document against the structural rules of
// the OpenAPI 3.0 format: required fields, correct nesting, and a valid
// declaration target for every security scheme reference. The first
// violation found is returned; a nil result means the document may be
// persisted.
func Validate(d *Document) error {
	if d == nil {
		return violation("", "document is nil")
	}
	if !strings.HasPrefix(d.OpenAPI, "3.0") {
		return violation("openapi", "unsupported version %q", d.OpenAPI)
	}
	if d.Info.Title == "" {
		return violation("info.title", "required field is empty")
	}
	if d.Info.Version == "" {
		return violation("info.version", "required field is empty")
	}
	if len(d.Paths) == 0 {
		return violation("paths", "at least one path is required")
	}

	seen := make(map[string]bool, len(d.Paths))
	for _, item := range d.Paths {
		if err := validatePath(d, item, seen); err != nil {
			return err
		}
	}

	for _, scheme := range d.SecuritySchemes {
		if err := validateScheme(scheme); err != nil {
			return err
		}
	}
	return nil
}

func validatePath(d *Document, item PathItem, seen map[string]bool) error {
	loc := "paths." + item.Path
	if !strings.HasPrefix(item.Path, "/") {
		return violation(loc, "path template must start with '/'")
	}
	if seen[item.Path] {
		return violation(loc, "duplicate path template")
	}
	seen[item.Path] = true
	if len(item.Operations) == 0 {
		return violation(loc, "path has no operations")
	}

	methods := make(map[string]bool, len(item.Operations))
	for _, op := range item.Operations {
		opLoc := loc + "." + op.Method
		if !allowedMethods[op.Method] {
			return violation(opLoc, "unknown HTTP method")
		}
		if methods[op.Method] {
			return violation(opLoc, "duplicate method on path")
		}
		methods[op.Method] = true

		if len(op.Responses) == 0 {
			return violation(opLoc+".responses", "at least one response is required")
		}
		for _, resp := range op.Responses {
			if resp.Status < 100 || resp.Status > 599 {
				return violation(opLoc+".responses", "invalid status code %d", resp.Status)
			}
			if resp.Description == "" {
				return violation(fmt.Sprintf("%s.responses.%d.description", opLoc, resp.Status),
					"required field is empty")
			}
		}

		for _, ref := range op.Security {
			if !d.HasScheme(ref) {
				return violation(opLoc+".security",
					"reference to undeclared security scheme %q", ref)
			}
		}
	}
	return nil
}

func validateScheme(s SecurityScheme) error {
	loc := "components.securitySchemes." + s.Name
	switch s.Type {
	case "http":
		if s.Scheme == "" {
			return violation(loc+".scheme", "required for http type")
		}
	case "apiKey":
		if s.In == "" || s.ParamName == "" {
			return violation(loc, "apiKey type requires 'in' and 'name'")
		}
	default:
		return violation(loc+".type", "unsupported type %q", s.Type)
	}
	return nil
}
