package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListModulesInput is the input schema for the list_modules tool.
type ListModulesInput struct {
	APIOnly bool `json:"api_only,omitempty" jsonschema:"only list modules that expose HTTP endpoints"`
}

// ListModulesOutput is the output schema for the list_modules tool.
type ListModulesOutput struct {
	Modules []ModuleOutput `json:"modules"`
	Count   int            `json:"count"`
}

// ModuleOutput represents a single documented module.
type ModuleOutput struct {
	Module string `json:"module"`
	Doc    string `json:"doc"`
	Spec   string `json:"spec,omitempty"`
	HasAPI bool   `json:"has_api"`
}

// GetModuleDocInput is the input schema for the get_module_doc tool.
type GetModuleDocInput struct {
	Module string `json:"module" jsonschema:"the module name to fetch documentation for"`
}

// GetModuleDocOutput is the output schema for the get_module_doc tool.
type GetModuleDocOutput struct {
	Module   string `json:"module"`
	Markdown string `json:"markdown"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_modules",
		Description: "List all documented modules with their artifacts",
	}, s.handleListModules)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_module_doc",
		Description: "Fetch the Markdown documentation for a module",
	}, s.handleGetModuleDoc)
}

// handleListModules handles the list_modules tool invocation.
func (s *Server) handleListModules(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListModulesInput,
) (*mcp.CallToolResult, ListModulesOutput, error) {
	entries, err := s.ports.Docs.Index(ctx)
	if err != nil {
		return nil, ListModulesOutput{}, err
	}

	output := ListModulesOutput{Modules: make([]ModuleOutput, 0, len(entries))}
	for _, e := range entries {
		if input.APIOnly && e.SpecPath == "" {
			continue
		}
		output.Modules = append(output.Modules, ModuleOutput{
			Module: e.Module,
			Doc:    e.MarkdownPath,
			Spec:   e.SpecPath,
			HasAPI: e.SpecPath != "",
		})
	}
	output.Count = len(output.Modules)

	return nil, output, nil
}

// handleGetModuleDoc handles the get_module_doc tool invocation.
func (s *Server) handleGetModuleDoc(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetModuleDocInput,
) (*mcp.CallToolResult, GetModuleDocOutput, error) {
	doc, err := s.ports.Docs.ModuleDoc(ctx, input.Module)
	if err != nil {
		return nil, GetModuleDocOutput{}, err
	}

	return nil, GetModuleDocOutput{Module: input.Module, Markdown: doc}, nil
}
