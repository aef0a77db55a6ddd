// Package markdown renders narrative documentation from a
// documentation record. The transformation is pure, total and
// deterministic: identical records always produce identical text.
package markdown

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

// Render produces the Markdown documentation for one module. Sections
// follow the source record's ordering: summary, classes, functions,
// then an API usage block listing endpoints in source order.
func Render(rec *domain.DocumentationRecord, moduleName string) string {
	var b strings.Builder

	title := rec.Title
	if title == "" {
		title = moduleName
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if rec.Summary != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(rec.Summary)
		b.WriteString("\n\n")
	}

	renderEntities(&b, "Classes", rec.Entities, domain.EntityClass)
	renderEntities(&b, "Functions", rec.Entities, domain.EntityFunction)

	if len(rec.Endpoints) > 0 {
		renderAPIUsage(&b, rec.Endpoints)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderEntities(b *strings.Builder, heading string, entities []domain.Entity, kind domain.EntityKind) {
	var matched []domain.Entity
	for _, e := range entities {
		if e.Kind == kind {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		return
	}

	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, e := range matched {
		fmt.Fprintf(b, "### `%s`\n\n", e.Name)
		if e.Description != "" {
			b.WriteString(e.Description)
			b.WriteString("\n\n")
		}
		if len(e.Params) > 0 {
			b.WriteString("**Parameters:**\n\n")
			for _, p := range e.Params {
				line := fmt.Sprintf("- `%s`", p.Name)
				if p.Type != "" {
					line += fmt.Sprintf(" (%s)", p.Type)
				}
				if p.Description != "" {
					line += " - " + p.Description
				}
				b.WriteString(line + "\n")
			}
			b.WriteString("\n")
		}
		if e.Returns != "" {
			fmt.Fprintf(b, "**Returns:** %s\n\n", e.Returns)
		}
	}
}

func renderAPIUsage(b *strings.Builder, endpoints []domain.Endpoint) {
	b.WriteString("## API Usage\n\n")

	for _, ep := range endpoints {
		fmt.Fprintf(b, "### `%s %s`\n\n", ep.Method, ep.Path)
		if ep.Summary != "" {
			b.WriteString(ep.Summary)
			b.WriteString("\n\n")
		}
		if ep.RequiresAuth {
			fmt.Fprintf(b, "Requires authentication (`%s`).\n\n", ep.AuthScheme)
		}

		if len(ep.Request) > 0 {
			b.WriteString("**Request body:**\n\n```json\n")
			b.WriteString(sampleJSON(ep.Request))
			b.WriteString("\n```\n\n")
		}

		for _, resp := range ep.Responses {
			fmt.Fprintf(b, "**Response %d** - %s\n\n", resp.Status, resp.Description)
			if len(resp.Fields) > 0 {
				b.WriteString("```json\n")
				b.WriteString(sampleJSON(resp.Fields))
				b.WriteString("\n```\n\n")
			}
		}

		b.WriteString("```bash\n")
		b.WriteString(curlExample(ep))
		b.WriteString("\n```\n\n")
	}
}

// sampleJSON builds an indented example body from field descriptions.
// Keys keep their source order.
func sampleJSON(fields []domain.Param) string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, f := range fields {
		value, _ := json.Marshal(sampleValue(f.Type))
		fmt.Fprintf(&b, "  %q: %s", f.Name, value)
		if i < len(fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func sampleValue(fieldType string) any {
	switch fieldType {
	case "integer", "int":
		return 0
	case "number", "float", "double":
		return 0.0
	case "boolean", "bool":
		return false
	case "array", "list":
		return []any{}
	case "object", "dict", "map":
		return map[string]any{}
	default:
		return "string"
	}
}

// curlExample renders an invocation for the endpoint. The host is a
// placeholder; the point is the shape of the call.
func curlExample(ep domain.Endpoint) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("curl -X %s http://localhost:8000%s", ep.Method, ep.Path))
	if ep.RequiresAuth {
		switch ep.AuthScheme {
		case "apiKeyAuth":
			parts = append(parts, `-H "X-API-Key: <key>"`)
		case "basicAuth":
			parts = append(parts, `-u <user>:<password>`)
		default:
			parts = append(parts, `-H "Authorization: Bearer <token>"`)
		}
	}
	if len(ep.Request) > 0 {
		parts = append(parts, `-H "Content-Type: application/json"`)
		compact, _ := json.Marshal(sampleObject(ep.Request))
		parts = append(parts, fmt.Sprintf("-d '%s'", compact))
	}
	return strings.Join(parts, " \\\n  ")
}

func sampleObject(fields []domain.Param) map[string]any {
	obj := make(map[string]any, len(fields))
	for _, f := range fields {
		obj[f.Name] = sampleValue(f.Type)
	}
	return obj
}
