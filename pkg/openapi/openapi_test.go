package openapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/coursecast/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("CourseCast API", "1.0.0")
	spec.AddServer("/api")
	spec.SetDescription("Course success prediction")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "CourseCast API" || spec.Info.Description != "Course success prediction" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers: got %+v", spec.Servers)
	}
	if _, ok := spec.Components.Schemas["PageRequest"]; !ok {
		t.Error("default PageRequest schema missing")
	}
	for _, name := range []string{"BadRequest", "NotFound", "Unprocessable", "Unavailable", "Unauthorized"} {
		if _, ok := spec.Components.Responses[name]; !ok {
			t.Errorf("default response %s missing", name)
		}
	}
}

func TestAddTag(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.AddTag("Predictions", "")
	spec.AddTag("Predictions", "Score courses")
	spec.AddTag("Predictions", "ignored")
	spec.AddTag("Model", "")

	if len(spec.Tags) != 2 {
		t.Fatalf("tags: got %d, want 2", len(spec.Tags))
	}
	if spec.Tags[0].Description != "Score courses" {
		t.Errorf("description: got %q", spec.Tags[0].Description)
	}
}

func TestHelpers(t *testing.T) {
	if ref := openapi.SchemaRef("Prediction"); ref.Ref != "#/components/schemas/Prediction" {
		t.Errorf("schema ref: got %s", ref.Ref)
	}
	if ref := openapi.ResponseRef("NotFound"); ref.Ref != "#/components/responses/NotFound" {
		t.Errorf("response ref: got %s", ref.Ref)
	}

	body := openapi.RequestBodyJSON("PredictCommand", true)
	if !body.Required || body.Content["application/json"].Schema.Ref != "#/components/schemas/PredictCommand" {
		t.Errorf("request body: got %+v", body)
	}

	id := openapi.PathParam("id", "uuid", "Prediction ID")
	if id.In != "path" || !id.Required || id.Schema.Format != "uuid" {
		t.Errorf("path param: got %+v", id)
	}

	q := openapi.QueryParam("min_probability", "number", "")
	if q.In != "query" || q.Required || q.Schema.Type != "number" {
		t.Errorf("query param: got %+v", q)
	}

	if b := openapi.Bound(5); *b != 5 {
		t.Errorf("bound: got %v", *b)
	}
	if r := openapi.NoContent("Deleted"); r.Content != nil {
		t.Error("no-content response should have no body")
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	handler := openapi.ServeSpec(data)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type: got %s", ct)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Errorf("body is not JSON: %v", err)
	}

	req := httptest.NewRequest("GET", "/openapi.json", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusNotModified || rec.Body.Len() != 0 {
		t.Errorf("conditional request: got %d with %d bytes", rec.Code, rec.Body.Len())
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	if err := openapi.Encode(&buf, openapi.NewSpec("Test", "2.0.0")); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var decoded struct {
		Info struct{ Version string } `json:"info"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Info.Version != "2.0.0" {
		t.Errorf("version: got %s", decoded.Info.Version)
	}
}

func TestConfig(t *testing.T) {
	t.Setenv("TEST_OPENAPI_SERVER", "https://courses.example.com/api")

	cfg := openapi.Config{Description: "custom"}
	if err := cfg.Finalize(&openapi.ConfigEnv{ServerURL: "TEST_OPENAPI_SERVER"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Title != "CourseCast API" {
		t.Errorf("title = %q, want default", cfg.Title)
	}
	if cfg.Description != "custom" {
		t.Errorf("description = %q, explicit value should survive", cfg.Description)
	}
	if got := cfg.Server("/api"); got != "https://courses.example.com/api" {
		t.Errorf("Server() = %q", got)
	}

	cfg.Merge(&openapi.Config{Title: "Renamed"})
	if cfg.Title != "Renamed" || cfg.ServerURL == "" {
		t.Errorf("merge: %+v", cfg)
	}

	if got := (&openapi.Config{}).Server("/api"); got != "/api" {
		t.Errorf("Server() fallback = %q", got)
	}
}

func TestPathItemOperations(t *testing.T) {
	item := &openapi.PathItem{
		Get:    &openapi.Operation{Summary: "get"},
		Delete: &openapi.Operation{Summary: "delete"},
	}

	var got []string
	for op := range item.Operations() {
		got = append(got, op.Summary)
	}
	if len(got) != 2 || got[0] != "get" || got[1] != "delete" {
		t.Errorf("Operations() = %v", got)
	}
}
