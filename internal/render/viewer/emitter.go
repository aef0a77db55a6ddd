// Package viewer emits standalone interactive Swagger UI artifacts for
// validated API descriptions. The emitted HTML embeds the full
// description, so the artifact has no dependency on the spec file at
// view time.
package viewer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/docfold/docfold-cli/internal/openapi"
)

//go:embed viewer.html.tmpl
var viewerTemplate string

var tmpl = template.Must(template.New("viewer").Parse(viewerTemplate))

// Emit renders the viewer artifact for one validated description.
// Callers must only pass documents that passed openapi.Validate.
func Emit(doc *openapi.Document) ([]byte, error) {
	specJSON, err := json.Marshal(doc.AsMap())
	if err != nil {
		return nil, fmt.Errorf("encoding spec for viewer: %w", err)
	}

	data := struct {
		Title    string
		SpecJSON template.JS
	}{
		Title:    doc.Info.Title,
		SpecJSON: template.JS(specJSON), //nolint:gosec // the spec is generated, not user HTML
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering viewer: %w", err)
	}
	return buf.Bytes(), nil
}
