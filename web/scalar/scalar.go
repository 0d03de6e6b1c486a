// Package scalar serves the Scalar API reference UI for the CourseCast API.
package scalar

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/coursecast/pkg/module"
	"github.com/JaimeStill/coursecast/pkg/web"
)

//go:embed index.html
var indexHTML string

// NewModule creates a module that serves the API reference at basePath,
// reading the OpenAPI document from specURL.
func NewModule(basePath, specURL string) (*module.Module, error) {
	tmpl, err := template.New("index").Parse(indexHTML)
	if err != nil {
		return nil, err
	}

	var page bytes.Buffer
	if err := tmpl.Execute(&page, map[string]string{"SpecURL": specURL}); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", web.Bytes(page.Bytes(), "text/html; charset=utf-8"))

	return module.New(basePath, mux), nil
}
