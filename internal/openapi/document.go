package openapi

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

// Version is the OpenAPI version emitted in generated documents.
const Version = "3.0.0"

// Document is an assembled machine-readable API description.
// Paths and operations preserve the order of the source record, so
// marshalling is reproducible for identical input.
type Document struct {
	// OpenAPI is the format version, e.g. "3.0.0".
	OpenAPI string

	// Info is the document info block.
	Info Info

	// Paths holds one item per path template, in first-seen order.
	Paths []PathItem

	// SecuritySchemes holds the scheme declarations referenced by
	// operations, in registration order.
	SecuritySchemes []SecurityScheme
}

// Info is the OpenAPI info block.
type Info struct {
	Title       string
	Version     string
	Description string
}

// PathItem groups the operations of one path template.
type PathItem struct {
	// Path is the path template, e.g. "/users/{id}".
	Path string

	// Operations are the methods on this path, in source order.
	Operations []Operation
}

// Operation is one method on a path.
type Operation struct {
	// Method is the HTTP method, lower-case per the OpenAPI format.
	Method string

	// Summary is a one-line description.
	Summary string

	// Security lists referenced scheme names. Empty means the
	// operation has no authentication requirement.
	Security []string

	// Request describes the JSON request body fields, if any.
	Request []domain.Param

	// Responses describes the responses, keyed by status in order.
	Responses []domain.Response
}

// SecurityScheme is a named authentication mechanism declaration.
type SecurityScheme struct {
	// Name is the component key, e.g. "bearerAuth".
	Name string

	// Type is the OpenAPI scheme type: "http" or "apiKey".
	Type string

	// Scheme is set for http type: "bearer" or "basic".
	Scheme string

	// In and ParamName are set for apiKey type, e.g. "header" and
	// "X-API-Key".
	In        string
	ParamName string
}

// Scheme returns the declared scheme with the given name.
func (d *Document) Scheme(name string) (*SecurityScheme, bool) {
	for i := range d.SecuritySchemes {
		if d.SecuritySchemes[i].Name == name {
			return &d.SecuritySchemes[i], true
		}
	}
	return nil, false
}

// HasScheme reports whether a scheme with the given name is declared.
func (d *Document) HasScheme(name string) bool {
	_, ok := d.Scheme(name)
	return ok
}

// MarshalYAML renders the document as an ordered YAML mapping.
func (d *Document) MarshalYAML() (any, error) {
	root := mapping()

	appendPair(root, "openapi", scalar(d.OpenAPI))

	info := mapping()
	appendPair(info, "title", scalar(d.Info.Title))
	appendPair(info, "version", scalar(d.Info.Version))
	if d.Info.Description != "" {
		appendPair(info, "description", scalar(d.Info.Description))
	}
	appendPair(root, "info", info)

	paths := mapping()
	for _, item := range d.Paths {
		appendPair(paths, item.Path, item.yamlNode())
	}
	appendPair(root, "paths", paths)

	if len(d.SecuritySchemes) > 0 {
		schemes := mapping()
		for _, s := range d.SecuritySchemes {
			appendPair(schemes, s.Name, s.yamlNode())
		}
		components := mapping()
		appendPair(components, "securitySchemes", schemes)
		appendPair(root, "components", components)
	}

	return root, nil
}

// Encode marshals the document to YAML bytes.
func (d *Document) Encode() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding spec document: %w", err)
	}
	return out, nil
}

func (p PathItem) yamlNode() *yaml.Node {
	node := mapping()
	for _, op := range p.Operations {
		appendPair(node, op.Method, op.yamlNode())
	}
	return node
}

func (o Operation) yamlNode() *yaml.Node {
	node := mapping()
	if o.Summary != "" {
		appendPair(node, "summary", scalar(o.Summary))
	}
	if len(o.Security) > 0 {
		secSeq := sequence()
		for _, name := range o.Security {
			entry := mapping()
			appendPair(entry, name, sequence())
			secSeq.Content = append(secSeq.Content, entry)
		}
		appendPair(node, "security", secSeq)
	}
	if len(o.Request) > 0 {
		body := mapping()
		appendPair(body, "required", boolScalar(true))
		appendPair(body, "content", jsonContent(o.Request))
		appendPair(node, "requestBody", body)
	}
	responses := mapping()
	for _, resp := range o.Responses {
		respNode := mapping()
		appendPair(respNode, "description", scalar(resp.Description))
		if len(resp.Fields) > 0 {
			appendPair(respNode, "content", jsonContent(resp.Fields))
		}
		appendPair(responses, strconv.Itoa(resp.Status), respNode)
	}
	appendPair(node, "responses", responses)
	return node
}

func (s SecurityScheme) yamlNode() *yaml.Node {
	node := mapping()
	appendPair(node, "type", scalar(s.Type))
	if s.Scheme != "" {
		appendPair(node, "scheme", scalar(s.Scheme))
	}
	if s.In != "" {
		appendPair(node, "in", scalar(s.In))
		appendPair(node, "name", scalar(s.ParamName))
	}
	return node
}

// jsonContent builds a content node with an application/json object
// schema derived from the given fields.
func jsonContent(fields []domain.Param) *yaml.Node {
	content := mapping()
	media := mapping()
	appendPair(media, "schema", schemaNode(fields))
	appendPair(content, "application/json", media)
	return content
}

func schemaNode(fields []domain.Param) *yaml.Node {
	schema := mapping()
	appendPair(schema, "type", scalar("object"))

	props := mapping()
	var required []string
	for _, f := range fields {
		prop := mapping()
		appendPair(prop, "type", scalar(schemaType(f.Type)))
		if f.Description != "" {
			appendPair(prop, "description", scalar(f.Description))
		}
		appendPair(props, f.Name, prop)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	appendPair(schema, "properties", props)

	if len(required) > 0 {
		req := sequence()
		for _, name := range required {
			req.Content = append(req.Content, scalar(name))
		}
		appendPair(schema, "required", req)
	}
	return schema
}

// schemaType maps a loosely-typed analyzer field type onto the fixed
// OpenAPI type vocabulary.
func schemaType(t string) string {
	switch t {
	case "integer", "int":
		return "integer"
	case "number", "float", "double":
		return "number"
	case "boolean", "bool":
		return "boolean"
	case "array", "list":
		return "array"
	case "object", "dict", "map":
		return "object"
	default:
		return "string"
	}
}

// YAML node helpers.

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func sequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func boolScalar(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalar(key), value)
}
