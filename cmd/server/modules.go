package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/coursecast/internal/api"
	"github.com/JaimeStill/coursecast/internal/config"
	"github.com/JaimeStill/coursecast/internal/infrastructure"
	"github.com/JaimeStill/coursecast/pkg/middleware"
	"github.com/JaimeStill/coursecast/pkg/module"
	"github.com/JaimeStill/coursecast/web/app"
	"github.com/JaimeStill/coursecast/web/scalar"
)

const (
	appPath    = "/app"
	scalarPath = "/scalar"
)

type Modules struct {
	API    *module.Module
	App    *module.Module
	Scalar *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	runtime := api.NewRuntime(cfg, infra)
	domain := api.NewDomain(runtime)

	apiModule, err := api.NewModule(cfg, runtime, domain)
	if err != nil {
		return nil, err
	}

	appModule, err := app.NewModule(
		app.Config{
			BasePath:    appPath,
			MaxBodySize: runtime.MaxBodySize,
			Pagination:  runtime.Pagination,
		},
		domain.Predictions,
		infra.Artifacts,
		infra.Logger,
	)
	if err != nil {
		return nil, err
	}
	appModule.Use(middleware.Logger(infra.Logger), middleware.Recover(infra.Logger))

	scalarModule, err := scalar.NewModule(scalarPath, cfg.API.BasePath+"/openapi.json")
	if err != nil {
		return nil, err
	}
	scalarModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:    apiModule,
		App:    appModule,
		Scalar: scalarModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.App)
	router.Mount(m.Scalar)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, appPath+"/", http.StatusFound)
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok", nil)
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		lc := infra.Lifecycle
		if !lc.Ready() {
			writeStatus(w, http.StatusServiceUnavailable, "not ready", lc.Status())
			return
		}
		writeStatus(w, http.StatusOK, "ready", lc.Status())
	})

	router.HandleNative("GET /metrics", infra.Metrics.Handler().ServeHTTP)

	return router
}

type statusResponse struct {
	Status     string          `json:"status"`
	Subsystems map[string]bool `json:"subsystems,omitempty"`
}

func writeStatus(w http.ResponseWriter, code int, status string, subsystems map[string]bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(statusResponse{Status: status, Subsystems: subsystems})
}
