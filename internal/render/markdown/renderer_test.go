package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docfold/docfold-cli/internal/core/domain"
)

func calcRecord() *domain.DocumentationRecord {
	return &domain.DocumentationRecord{
		Title:   "Calc",
		Summary: "Small arithmetic helpers.",
		Entities: []domain.Entity{
			{
				Name: "add", Kind: domain.EntityFunction,
				Description: "Adds two numbers.",
				Params: []domain.Param{
					{Name: "a", Type: "int", Description: "first operand"},
					{Name: "b", Type: "int", Description: "second operand"},
				},
				Returns: "The sum of a and b.",
			},
			{
				Name: "Calculator", Kind: domain.EntityClass,
				Description: "Stateful calculator.",
			},
		},
	}
}

func TestRenderSections(t *testing.T) {
	out := Render(calcRecord(), "calc")

	assert.True(t, strings.HasPrefix(out, "# Calc\n"))
	assert.Contains(t, out, "## Summary\n\nSmall arithmetic helpers.")
	assert.Contains(t, out, "## Classes\n\n### `Calculator`")
	assert.Contains(t, out, "## Functions\n\n### `add`")
	assert.Contains(t, out, "- `a` (int) - first operand")
	assert.Contains(t, out, "**Returns:** The sum of a and b.")

	// No endpoints, no API section.
	assert.NotContains(t, out, "## API Usage")
}

func TestRenderTitleFallback(t *testing.T) {
	out := Render(&domain.DocumentationRecord{}, "calc")
	assert.True(t, strings.HasPrefix(out, "# calc\n"))
}

func TestRenderAPIUsage(t *testing.T) {
	rec := &domain.DocumentationRecord{
		Title: "User API",
		Endpoints: []domain.Endpoint{
			{
				Path: "/users/", Method: "POST", Summary: "Create user",
				RequiresAuth: true, AuthScheme: "bearerAuth",
				Request: []domain.Param{{Name: "name", Type: "string", Required: true}},
				Responses: []domain.Response{
					{Status: 201, Description: "Created", Fields: []domain.Param{{Name: "id", Type: "int"}}},
				},
			},
			{
				Path: "/users/", Method: "GET", Summary: "List users",
				Responses: []domain.Response{{Status: 200, Description: "OK"}},
			},
		},
	}

	out := Render(rec, "user_api")

	assert.Contains(t, out, "### `POST /users/`")
	assert.Contains(t, out, "Requires authentication (`bearerAuth`).")
	assert.Contains(t, out, `"name": "string"`)
	assert.Contains(t, out, "**Response 201** - Created")
	assert.Contains(t, out, "curl -X POST http://localhost:8000/users/")
	assert.Contains(t, out, `-H "Authorization: Bearer <token>"`)

	// Endpoints appear in source order.
	assert.True(t, strings.Index(out, "POST /users/") < strings.Index(out, "GET /users/"))
}

func TestRenderDeterministic(t *testing.T) {
	first := Render(calcRecord(), "calc")
	second := Render(calcRecord(), "calc")
	assert.Equal(t, first, second)
}
