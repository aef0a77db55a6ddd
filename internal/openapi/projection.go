package openapi

import (
	"strconv"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

// AsMap projects the document onto plain maps and slices for JSON
// encoding. The viewer embeds this projection directly; key order is
// not significant there.
func (d *Document) AsMap() map[string]any {
	out := map[string]any{
		"openapi": d.OpenAPI,
		"info":    d.Info.asMap(),
		"paths":   d.pathsAsMap(),
	}
	if len(d.SecuritySchemes) > 0 {
		schemes := make(map[string]any, len(d.SecuritySchemes))
		for _, s := range d.SecuritySchemes {
			schemes[s.Name] = s.asMap()
		}
		out["components"] = map[string]any{"securitySchemes": schemes}
	}
	return out
}

func (i Info) asMap() map[string]any {
	info := map[string]any{
		"title":   i.Title,
		"version": i.Version,
	}
	if i.Description != "" {
		info["description"] = i.Description
	}
	return info
}

func (d *Document) pathsAsMap() map[string]any {
	paths := make(map[string]any, len(d.Paths))
	for _, item := range d.Paths {
		ops := make(map[string]any, len(item.Operations))
		for _, op := range item.Operations {
			ops[op.Method] = op.asMap()
		}
		paths[item.Path] = ops
	}
	return paths
}

func (o Operation) asMap() map[string]any {
	op := map[string]any{}
	if o.Summary != "" {
		op["summary"] = o.Summary
	}
	if len(o.Security) > 0 {
		security := make([]any, 0, len(o.Security))
		for _, name := range o.Security {
			security = append(security, map[string]any{name: []any{}})
		}
		op["security"] = security
	}
	if len(o.Request) > 0 {
		op["requestBody"] = map[string]any{
			"required": true,
			"content":  jsonContentMap(o.Request),
		}
	}
	responses := make(map[string]any, len(o.Responses))
	for _, resp := range o.Responses {
		r := map[string]any{"description": resp.Description}
		if len(resp.Fields) > 0 {
			r["content"] = jsonContentMap(resp.Fields)
		}
		responses[strconv.Itoa(resp.Status)] = r
	}
	op["responses"] = responses
	return op
}

func (s SecurityScheme) asMap() map[string]any {
	scheme := map[string]any{"type": s.Type}
	if s.Scheme != "" {
		scheme["scheme"] = s.Scheme
	}
	if s.In != "" {
		scheme["in"] = s.In
		scheme["name"] = s.ParamName
	}
	return scheme
}

func jsonContentMap(fields []domain.Param) map[string]any {
	return map[string]any{
		"application/json": map[string]any{"schema": schemaMap(fields)},
	}
}

func schemaMap(fields []domain.Param) map[string]any {
	props := make(map[string]any, len(fields))
	var required []string
	for _, f := range fields {
		prop := map[string]any{"type": schemaType(f.Type)}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		props[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
