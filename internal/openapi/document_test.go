package openapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEncodeStructure(t *testing.T) {
	out, err := validDocument().Encode()
	require.NoError(t, err)

	// Decode into generic maps to check the emitted structure.
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))

	assert.Equal(t, "3.0.0", decoded["openapi"])

	info, ok := decoded["info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "User Management API", info["title"])

	paths, ok := decoded["paths"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, paths, "/users/")
	require.Contains(t, paths, "/users/{id}")

	users, ok := paths["/users/"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, users, "get")
	require.Contains(t, users, "post")

	post, ok := users["post"].(map[string]any)
	require.True(t, ok)
	body, ok := post["requestBody"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, body["required"])

	components, ok := decoded["components"].(map[string]any)
	require.True(t, ok)
	schemes, ok := components["securitySchemes"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, schemes, SchemeBearer)
}

func TestEncodeFieldOrder(t *testing.T) {
	out, err := validDocument().Encode()
	require.NoError(t, err)

	text := string(out)
	openapiIdx := strings.Index(text, "openapi:")
	infoIdx := strings.Index(text, "info:")
	pathsIdx := strings.Index(text, "paths:")
	componentsIdx := strings.Index(text, "components:")

	assert.True(t, openapiIdx < infoIdx, "openapi before info")
	assert.True(t, infoIdx < pathsIdx, "info before paths")
	assert.True(t, pathsIdx < componentsIdx, "paths before components")

	// Path order follows assembly order, not lexicographic order.
	assert.True(t, strings.Index(text, "/users/:") < strings.Index(text, "/users/{id}:"))
}

func TestEncodeStatusKeysAreStrings(t *testing.T) {
	out, err := validDocument().Encode()
	require.NoError(t, err)

	assert.Contains(t, string(out), `"200"`)
	assert.Contains(t, string(out), `"201"`)
}

func TestAsMapMirrorsDocument(t *testing.T) {
	doc := validDocument()
	m := doc.AsMap()

	assert.Equal(t, "3.0.0", m["openapi"])

	paths, ok := m["paths"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, paths, 2)

	components, ok := m["components"].(map[string]any)
	require.True(t, ok)
	schemes, ok := components["securitySchemes"].(map[string]any)
	require.True(t, ok)
	scheme, ok := schemes[SchemeBearer].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "http", scheme["type"])
	assert.Equal(t, "bearer", scheme["scheme"])
}

func TestSchemaTypeMapping(t *testing.T) {
	tests := map[string]string{
		"int":     "integer",
		"integer": "integer",
		"float":   "number",
		"bool":    "boolean",
		"list":    "array",
		"dict":    "object",
		"str":     "string",
		"":        "string",
	}
	for in, want := range tests {
		assert.Equal(t, want, schemaType(in), "type %q", in)
	}
}
