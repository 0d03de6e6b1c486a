// Package app serves the server-rendered CourseCast pages: the course form,
// the prediction result with advice, and the prediction history.
package app

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/coursecast/internal/inference"
	"github.com/JaimeStill/coursecast/internal/predictions"
	"github.com/JaimeStill/coursecast/pkg/module"
	"github.com/JaimeStill/coursecast/pkg/pagination"
	"github.com/JaimeStill/coursecast/pkg/web"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	layout       = "base"
	staticMaxAge = time.Hour
)

var (
	predictView  = web.ViewDef{Route: "/{$}", Template: "predict.html", Title: "Predict", Bundle: "app"}
	resultView   = web.ViewDef{Route: "/predict", Template: "result.html", Title: "Result", Bundle: "app"}
	historyView  = web.ViewDef{Route: "/history", Template: "history.html", Title: "History", Bundle: "app"}
	notFoundView = web.ViewDef{Template: "not-found.html", Title: "Not Found", Bundle: "app"}
	errorView    = web.ViewDef{Template: "error.html", Title: "Error", Bundle: "app"}
)

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"dec": func(i int) int { return i - 1 },
}

// Config carries the values the app module needs from the server.
type Config struct {
	BasePath    string
	MaxBodySize int64
	Pagination  pagination.Config
}

// NewModule creates the app module mounted at cfg.BasePath. Category and
// difficulty options come from the fitted encoder vocabulary.
func NewModule(
	cfg Config,
	sys predictions.System,
	artifacts *inference.Artifacts,
	logger *slog.Logger,
) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		templateFS,
		templateFS,
		"templates/layouts/*.html",
		"templates/views",
		cfg.BasePath,
		funcs,
		[]web.ViewDef{predictView, resultView, historyView, notFoundView, errorView},
	)
	if err != nil {
		return nil, err
	}

	h := &handler{
		sys:          sys,
		pages:        ts,
		categories:   artifacts.Categories("category"),
		difficulties: artifacts.Categories("difficulty"),
		pagination:   cfg.Pagination,
		maxBodySize:  cfg.MaxBodySize,
		logger:       logger.With("module", "app"),
	}

	static, err := web.Static(staticFS, "static", "/static", staticMaxAge)
	if err != nil {
		return nil, err
	}
	public, err := web.FileRoutes(staticFS, "static", "favicon.svg")
	if err != nil {
		return nil, err
	}

	router := web.NewRouter(ts.ErrorHandler(layout, notFoundView, http.StatusNotFound))
	router.HandleFunc("GET "+predictView.Route, h.form)
	router.HandleFunc("POST "+resultView.Route, h.predict)
	router.HandleFunc("GET "+historyView.Route, h.history)
	router.Handle("GET /static/", static)
	router.Add(public...)

	return module.New(cfg.BasePath, router), nil
}
