package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/coursecast/pkg/openapi"
	"github.com/JaimeStill/coursecast/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func predictionsGroup() routes.Group {
	return routes.Group{
		Prefix:      "/predictions",
		Tags:        []string{"Predictions"},
		Description: "Score courses",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: ok, OpenAPI: &openapi.Operation{Summary: "Score"}},
			{Method: "GET", Pattern: "/{id}", Handler: ok, OpenAPI: &openapi.Operation{Summary: "Find", Tags: []string{"History"}}},
			{Method: "DELETE", Pattern: "/{id}", Handler: ok},
		},
		Children: []routes.Group{
			{
				Prefix: "/stats",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: ok, OpenAPI: &openapi.Operation{Summary: "Stats"}},
				},
			},
		},
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, predictionsGroup())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"POST", "/predictions", http.StatusOK},
		{"GET", "/predictions/abc", http.StatusOK},
		{"DELETE", "/predictions/abc", http.StatusOK},
		{"GET", "/predictions/stats", http.StatusOK},
		{"GET", "/predictions", http.StatusMethodNotAllowed},
		{"GET", "/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0")
	routes.Describe(spec, "", predictionsGroup())

	item, ok := spec.Paths["/predictions"]
	if !ok || item.Post == nil {
		t.Fatal("missing POST /predictions")
	}
	if len(item.Post.Tags) != 1 || item.Post.Tags[0] != "Predictions" {
		t.Errorf("inherited tags: got %v", item.Post.Tags)
	}

	byID := spec.Paths["/predictions/{id}"]
	if byID.Get == nil || byID.Get.Tags[0] != "History" {
		t.Errorf("explicit tags should win: got %+v", byID.Get)
	}
	if byID.Delete != nil {
		t.Error("undocumented route should be skipped")
	}

	if _, ok := spec.Paths["/predictions/stats"]; !ok {
		t.Error("child group path missing")
	}

	if len(spec.Tags) != 1 || spec.Tags[0].Description != "Score courses" {
		t.Errorf("spec tags: got %+v", spec.Tags)
	}
}
