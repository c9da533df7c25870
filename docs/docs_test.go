package docs

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type swaggerDoc struct {
	Swagger  string `json:"swagger"`
	BasePath string `json:"basePath"`
	Info     struct {
		Title   string `json:"title"`
		Version string `json:"version"`
	} `json:"info"`
	Paths       map[string]map[string]json.RawMessage `json:"paths"`
	Definitions map[string]json.RawMessage            `json:"definitions"`
}

func readDoc(t *testing.T) (string, swaggerDoc) {
	t.Helper()

	raw := SwaggerInfo.ReadDoc()
	require.NotEmpty(t, raw)

	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return raw, doc
}

func TestRenderedDocMetadata(t *testing.T) {
	_, doc := readDoc(t)

	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "/internal", doc.BasePath)
	assert.Equal(t, "Catalog Service API", doc.Info.Title)
	assert.Equal(t, "1.0", doc.Info.Version)
	assert.Equal(t, "swagger", SwaggerInfo.InfoInstanceName)
}

func TestRouteMethods(t *testing.T) {
	_, doc := readDoc(t)

	routes := map[string]string{
		"/health":                                  "get",
		"/internal/facts/items":                    "post",
		"/internal/facts/items/{itemId}/price":     "put",
		"/internal/facts/items/{itemId}/inventory": "put",
		"/internal/facts/items/{itemId}/stock":     "put",
		"/internal/facts/items/{itemId}/backorder": "put",
		"/internal/facts/items/{itemId}/{part}":    "delete",
		"/internal/export/items/{itemId}":          "get",
		"/internal/export/products/{productId}":    "get",
		"/internal/prices/{itemId}":                "get",
	}

	for path, method := range routes {
		t.Run(method+" "+path, func(t *testing.T) {
			ops, ok := doc.Paths[path]
			require.True(t, ok, "missing path %s", path)
			assert.Contains(t, ops, method)
		})
	}
}

// Every $ref in the template must point at a declared definition.
func TestDefinitionRefsResolve(t *testing.T) {
	raw, doc := readDoc(t)

	refs := regexp.MustCompile(`#/definitions/([\w.]+)`).FindAllStringSubmatch(raw, -1)
	require.NotEmpty(t, refs)

	for _, ref := range refs {
		assert.Contains(t, doc.Definitions, ref[1])
	}
}
