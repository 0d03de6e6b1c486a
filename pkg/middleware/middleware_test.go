package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/coursecast/pkg/middleware"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestApplyOrder(t *testing.T) {
	var order []string
	mw := middleware.New()

	for _, name := range []string{"first", "second"} {
		mw.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	handler := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Errorf("order: got %v, want [first second handler]", order)
	}
	if mw.Len() != 2 {
		t.Errorf("len: got %d, want 2", mw.Len())
	}
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("encoder exploded")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/predictions", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Errorf("body: got %s", rec.Body.String())
	}
	if !strings.Contains(buf.String(), "encoder exploded") {
		t.Errorf("log missing panic value: %s", buf.String())
	}
}

func TestRecoverReraisesAbort(t *testing.T) {
	handler := middleware.Recover(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if r := recover(); r != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", r)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
}

func TestCORS(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         3600,
	}

	tests := []struct {
		name       string
		cfg        *middleware.CORSConfig
		origin     string
		wantOrigin string
	}{
		{"allowed origin", cfg, "http://example.com", "http://example.com"},
		{"disallowed origin", cfg, "http://denied.com", ""},
		{"disabled", &middleware.CORSConfig{Origins: cfg.Origins}, "http://example.com", ""},
		{"wildcard", &middleware.CORSConfig{Enabled: true, Origins: []string{"*"}}, "http://anywhere.dev", "*"},
		{"wildcard without origin header", &middleware.CORSConfig{Enabled: true, Origins: []string{"*"}}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Origin", tt.origin)
			middleware.CORS(tt.cfg)(okHandler()).ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("allow-origin: got %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled: true,
		Origins: []string{"http://example.com"},
	}

	var called bool
	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/api/predictions", nil)
	req.Header.Set("Origin", "http://example.com")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status: got %d, want 204", rec.Code)
	}
	if rec.Header().Get("Vary") != "Origin" {
		t.Errorf("vary: got %q", rec.Header().Get("Vary"))
	}
	if called {
		t.Error("handler should not be called for preflight")
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/predictions?x=1", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status: got %d, want 418", rec.Code)
	}

	out := buf.String()
	for _, want := range []string{"level=WARN", "method=POST", "uri=\"/api/predictions?x=1\"", "status=418"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q: %s", want, out)
		}
	}
}

type stubVerifier struct {
	verify func(ctx context.Context, raw string) (*oidc.IDToken, error)
}

func (s *stubVerifier) Verify(ctx context.Context, raw string) (*oidc.IDToken, error) {
	return s.verify(ctx, raw)
}

func TestAuth(t *testing.T) {
	verifier := &stubVerifier{
		verify: func(_ context.Context, raw string) (*oidc.IDToken, error) {
			if raw != "good-token" {
				return nil, errors.New("invalid token")
			}
			return &oidc.IDToken{Subject: "user-1"}, nil
		},
	}

	var subject string
	handler := middleware.Auth(verifier, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ = middleware.Subject(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		method string
		header string
		want   int
	}{
		{"valid token", "GET", "Bearer good-token", http.StatusOK},
		{"lowercase scheme", "GET", "bearer good-token", http.StatusOK},
		{"missing header", "GET", "", http.StatusUnauthorized},
		{"wrong scheme", "GET", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
		{"empty token", "GET", "Bearer  ", http.StatusUnauthorized},
		{"invalid token", "GET", "Bearer bad-token", http.StatusUnauthorized},
		{"preflight bypasses", "OPTIONS", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject = ""
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/api/predictions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
			if tt.name == "valid token" && subject != "user-1" {
				t.Errorf("subject: got %q, want user-1", subject)
			}
		})
	}
}

func TestAuthWithOIDCVerifier(t *testing.T) {
	verifier := oidc.NewVerifier("https://issuer.example.com", &oidc.StaticKeySet{}, &oidc.Config{ClientID: "coursecast"})
	handler := middleware.Auth(verifier, discardLogger())(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/model", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestAuthConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     middleware.AuthConfig
		wantErr bool
	}{
		{"disabled needs nothing", middleware.AuthConfig{}, false},
		{"enabled complete", middleware.AuthConfig{Enabled: true, IssuerURL: "https://issuer", ClientID: "id"}, false},
		{"enabled without issuer", middleware.AuthConfig{Enabled: true, ClientID: "id"}, true},
		{"enabled without client", middleware.AuthConfig{Enabled: true, IssuerURL: "https://issuer"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthConfigEnv(t *testing.T) {
	t.Setenv("TEST_AUTH_ENABLED", "true")
	t.Setenv("TEST_AUTH_ISSUER_URL", "https://login.example.com")
	t.Setenv("TEST_AUTH_CLIENT_ID", "coursecast")

	cfg := &middleware.AuthConfig{}
	err := cfg.Finalize(&middleware.AuthEnv{
		Enabled:   "TEST_AUTH_ENABLED",
		IssuerURL: "TEST_AUTH_ISSUER_URL",
		ClientID:  "TEST_AUTH_CLIENT_ID",
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !cfg.Enabled || cfg.IssuerURL != "https://login.example.com" || cfg.ClientID != "coursecast" {
		t.Errorf("config: got %+v", cfg)
	}
}

func TestCORSConfigFinalize(t *testing.T) {
	t.Setenv("TEST_CORS_ORIGINS", " http://a.dev, ,http://b.dev ")
	t.Setenv("TEST_CORS_ENABLED", "true")

	cfg := &middleware.CORSConfig{}
	if err := cfg.Finalize(&middleware.CORSEnv{
		Enabled: "TEST_CORS_ENABLED",
		Origins: "TEST_CORS_ORIGINS",
	}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if !cfg.Enabled {
		t.Error("enabled should come from env")
	}
	if len(cfg.Origins) != 2 || cfg.Origins[0] != "http://a.dev" || cfg.Origins[1] != "http://b.dev" {
		t.Errorf("origins: got %q", cfg.Origins)
	}
	if len(cfg.AllowedMethods) == 0 || cfg.MaxAge != 3600 {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	bad := &middleware.CORSConfig{Origins: []string{"*"}, AllowCredentials: true}
	if err := bad.Finalize(nil); !errors.Is(err, middleware.ErrWildcardCredentials) {
		t.Errorf("Finalize() error = %v, want ErrWildcardCredentials", err)
	}
}
