// Package record defines the wire contract shared by analyzer
// backends: the prompt that asks a model for structured documentation
// facts, and the parser that turns the model's JSON reply into a
// domain.DocumentationRecord.
package record

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

// Prompt builds the analysis prompt for one source file. The reply must
// be a single JSON object matching the payload schema below.
func Prompt(path string, content []byte) string {
	return fmt.Sprintf(`You are a technical writer and API architect.
Analyse the following source file and return ONLY a JSON object with this shape:

{
  "title": "short, specific module title (e.g. \"User Management API\")",
  "summary": "brief description of the module's purpose",
  "entities": [
    {"name": "...", "kind": "class|function", "description": "...",
     "params": [{"name": "...", "type": "...", "required": true, "description": "..."}],
     "returns": "..."}
  ],
  "endpoints": [
    {"path": "/users/{id}", "method": "GET", "summary": "...",
     "auth": "free-text auth hint if the endpoint is protected, else empty",
     "request": [{"name": "...", "type": "...", "required": true, "description": "..."}],
     "responses": [{"status": 200, "description": "...",
                    "fields": [{"name": "...", "type": "...", "description": "..."}]}]}
  ]
}

List entities and endpoints in source order. If the file defines no HTTP
endpoints, return an empty "endpoints" array. Do not wrap the JSON in
markdown fences.

FILE: %s

CODE:
%s`, path, string(content))
}

// payload is the JSON shape returned by the model.
type payload struct {
	Title    string          `json:"title"`
	Summary  string          `json:"summary"`
	Entities []entityPayload `json:"entities"`
	Endpoints []endpointPayload `json:"endpoints"`
}

type entityPayload struct {
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	Description string         `json:"description"`
	Params      []paramPayload `json:"params"`
	Returns     string         `json:"returns"`
}

type paramPayload struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

type endpointPayload struct {
	Path      string            `json:"path"`
	Method    string            `json:"method"`
	Summary   string            `json:"summary"`
	Auth      string            `json:"auth"`
	Request   []paramPayload    `json:"request"`
	Responses []responsePayload `json:"responses"`
}

type responsePayload struct {
	Status      int            `json:"status"`
	Description string         `json:"description"`
	Fields      []paramPayload `json:"fields"`
}

// Parse decodes a model reply into a documentation record. Stray
// markdown fences around the JSON are tolerated; anything else that
// fails to decode is an error.
func Parse(reply string) (*domain.DocumentationRecord, error) {
	cleaned := stripFences(reply)

	var p payload
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return nil, fmt.Errorf("decoding analysis reply: %w", err)
	}

	rec := &domain.DocumentationRecord{
		Title:   strings.TrimSpace(p.Title),
		Summary: strings.TrimSpace(p.Summary),
	}

	for _, e := range p.Entities {
		rec.Entities = append(rec.Entities, domain.Entity{
			Name:        e.Name,
			Kind:        entityKind(e.Kind),
			Description: e.Description,
			Params:      params(e.Params),
			Returns:     e.Returns,
		})
	}

	for _, ep := range p.Endpoints {
		if ep.Path == "" || ep.Method == "" {
			return nil, fmt.Errorf("endpoint missing path or method")
		}
		endpoint := domain.Endpoint{
			Path:       ep.Path,
			Method:     strings.ToUpper(ep.Method),
			Summary:    ep.Summary,
			AuthSignal: ep.Auth,
			Request:    params(ep.Request),
		}
		for _, r := range ep.Responses {
			endpoint.Responses = append(endpoint.Responses, domain.Response{
				Status:      r.Status,
				Description: r.Description,
				Fields:      params(r.Fields),
			})
		}
		rec.Endpoints = append(rec.Endpoints, endpoint)
	}

	return rec, nil
}

func params(in []paramPayload) []domain.Param {
	out := make([]domain.Param, 0, len(in))
	for _, p := range in {
		out = append(out, domain.Param{
			Name:        p.Name,
			Type:        p.Type,
			Required:    p.Required,
			Description: p.Description,
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func entityKind(kind string) domain.EntityKind {
	if strings.EqualFold(kind, string(domain.EntityClass)) {
		return domain.EntityClass
	}
	return domain.EntityFunction
}

// stripFences removes a wrapping markdown code fence if present.
func stripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
