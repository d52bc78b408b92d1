// docs.go serves the OpenAPI document and Swagger UI.
//
// The OpenAPI 3.0 document is hand-written YAML embedded into the binary;
// Swagger UI itself is loaded from a CDN.
package handlers

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// openAPISpec is the OpenAPI 3.0 YAML document embedded at compile time.
// Go Pattern: The `//go:embed` directive includes the file in the binary,
// so it must exist next to this source file when you run `go build`.
//
//go:embed openapi.yaml
var openAPISpec []byte

// ServeOpenAPISpec returns the raw OpenAPI YAML specification.
// GET /docs/openapi.yaml
func (h *Handler) ServeOpenAPISpec(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", openAPISpec)
}

// openAPIDoc is the embedded document decoded once, for JSON clients.
var openAPIDoc = sync.OnceValues(func() (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(openAPISpec, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse openapi.yaml: %w", err)
	}
	return doc, nil
})

// ServeOpenAPIJSON returns the OpenAPI specification converted to JSON.
// GET /docs/openapi.json
func (h *Handler) ServeOpenAPIJSON(c *gin.Context) {
	doc, err := openAPIDoc()
	if err != nil {
		h.Logger.Error("openapi document is invalid", zap.Error(err))
		abort(c, http.StatusInternalServerError, "docs_unavailable", "API documentation is unavailable")
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ServeSwaggerUI returns an HTML page that loads Swagger UI from a CDN
// and points it at the OpenAPI document.
// GET /docs
func (h *Handler) ServeSwaggerUI(c *gin.Context) {
	html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Contract Flags API</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
  <style>
    body { margin: 0; background: #fafafa; }
    .swagger-ui .topbar { display: none; }
    .swagger-ui .info { margin: 20px 0; }
  </style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/docs/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [
        SwaggerUIBundle.presets.apis,
        SwaggerUIBundle.SwaggerUIStandalonePreset
      ],
      layout: 'BaseLayout',
      deepLinking: true,
    });
  </script>
</body>
</html>`

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
