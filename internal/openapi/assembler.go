package openapi

import (
	"fmt"
	"strings"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

// Assemble folds a documentation record into an API description with
// one operation per detected endpoint. Operation ordering matches the
// record's endpoint ordering. Security schemes are registered once per
// document, the first time an endpoint needs them.
//
// Assemble does not classify authentication signals; run
// ClassifyRecord first.
func Assemble(rec *domain.DocumentationRecord, moduleName string) *Document {
	doc := &Document{
		OpenAPI: Version,
		Info: Info{
			Title:       rec.Title,
			Version:     "1.0.0",
			Description: rec.Summary,
		},
	}
	if doc.Info.Title == "" {
		doc.Info.Title = fmt.Sprintf("%s API", capitalise(moduleName))
	}
	if doc.Info.Description == "" {
		doc.Info.Description = fmt.Sprintf("Auto-generated API description for %s", moduleName)
	}

	for _, ep := range rec.Endpoints {
		op := Operation{
			Method:    strings.ToLower(ep.Method),
			Summary:   ep.Summary,
			Request:   ep.Request,
			Responses: ep.Responses,
		}
		if len(op.Responses) == 0 {
			// The format requires at least one response per operation.
			op.Responses = []domain.Response{{Status: 200, Description: "Successful response"}}
		}
		if ep.RequiresAuth {
			op.Security = []string{ep.AuthScheme}
			registerScheme(doc, ep.AuthScheme)
		}
		appendOperation(doc, ep.Path, op)
	}

	return doc
}

// appendOperation adds an operation to the path item for template,
// creating the item in first-seen order.
func appendOperation(doc *Document, template string, op Operation) {
	for i := range doc.Paths {
		if doc.Paths[i].Path == template {
			doc.Paths[i].Operations = append(doc.Paths[i].Operations, op)
			return
		}
	}
	doc.Paths = append(doc.Paths, PathItem{Path: template, Operations: []Operation{op}})
}

// capitalise upper-cases the first letter of a module name.
func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// registerScheme declares a scheme once per document.
func registerScheme(doc *Document, name string) {
	if doc.HasScheme(name) {
		return
	}
	if def, ok := schemeDefinition(name); ok {
		doc.SecuritySchemes = append(doc.SecuritySchemes, def)
	}
}
