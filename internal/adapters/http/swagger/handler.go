// Package swagger serves the OpenAPI document and a ReDoc page rendering it.
package swagger

import (
	"context"
	_ "embed"
	"errors"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// ErrServe marks a failed docs response.
var ErrServe = errors.New("swagger serve failed")

// OpenAPI is the embedded API description.
//
//go:embed openapi.yaml
var OpenAPI []byte

// Docs page settings.
const (
	RedocURL = "https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js"
	Title    = "Combine Analytics API Docs"
	SpecPath = "/openapi.yaml"
	DocsPath = "/api-docs"
)

// Register attaches the docs page and the OpenAPI document to mux.
//
//	GET /api-docs     -> ReDoc HTML
//	GET /openapi.yaml -> embedded OpenAPI document
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	page := templ.Handler(docsPage(Title, SpecPath))

	mux.HandleFunc(DocsPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		page.ServeHTTP(w, r)
	})

	mux.HandleFunc(SpecPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})
}

// docsPage loads ReDoc and points it at specURL.
func docsPage(title, specURL string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>`+templ.EscapeString(title)+`</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <div id="redoc-container" data-spec="`+templ.EscapeString(string(templ.URL(specURL)))+`"></div>
    <script src="`+RedocURL+`"></script>
    <script>var c=document.getElementById('redoc-container');Redoc.init(c.dataset.spec,{suppressWarnings:true},c);</script>
  </body>
</html>`)
		if err != nil {
			return errors.Join(ErrServe, err)
		}
		return nil
	})
}
