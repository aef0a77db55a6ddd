package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for docfold resources.
	uriScheme = "docfold://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the module index.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "modules",
		Name:        "modules",
		Description: "Index of all documented modules and their artifacts",
		MIMEType:    "application/json",
	}, s.handleModulesResource)

	// Template for module documentation.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "modules/{module}/doc",
		Name:        "module-doc",
		Description: "Markdown documentation for a module",
		MIMEType:    "text/markdown",
	}, s.handleModuleDocResource)

	// Template for module API descriptions.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "modules/{module}/spec",
		Name:        "module-spec",
		Description: "OpenAPI description for a module, when it exposes endpoints",
		MIMEType:    "application/yaml",
	}, s.handleModuleSpecResource)
}

// handleModulesResource returns the documented module index.
func (s *Server) handleModulesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	entries, err := s.ports.Docs.Index(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", err)
	}

	// Build simplified module list.
	type moduleInfo struct {
		Module string `json:"module"`
		Doc    string `json:"doc"`
		Spec   string `json:"spec,omitempty"`
		Viewer string `json:"viewer,omitempty"`
		HasAPI bool   `json:"has_api"`
	}

	infos := make([]moduleInfo, len(entries))
	for i, e := range entries {
		infos[i] = moduleInfo{
			Module: e.Module,
			Doc:    e.MarkdownPath,
			Spec:   e.SpecPath,
			Viewer: e.ViewerPath,
			HasAPI: e.SpecPath != "",
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling modules: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleModuleDocResource returns a module's Markdown documentation.
func (s *Server) handleModuleDocResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	module := extractModule(req.Params.URI, "/doc")
	if module == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Docs.ModuleDoc(ctx, module)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     doc,
		}},
	}, nil
}

// handleModuleSpecResource returns a module's API description.
func (s *Server) handleModuleSpecResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	module := extractModule(req.Params.URI, "/spec")
	if module == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	spec, err := s.ports.Docs.ModuleSpec(ctx, module)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/yaml",
			Text:     spec,
		}},
	}, nil
}

// extractModule extracts the module name from a URI like
// docfold://modules/{module}/doc.
func extractModule(uri, suffix string) string {
	const prefix = uriScheme + "modules/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}
	return strings.TrimSuffix(uri, suffix)
}
