package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/coursecast/internal/advisor"
	"github.com/JaimeStill/coursecast/internal/inference"
	"github.com/JaimeStill/coursecast/pkg/handlers"
	"github.com/JaimeStill/coursecast/pkg/openapi"
	"github.com/JaimeStill/coursecast/pkg/routes"
)

// ModelInfo summarizes the loaded artifact bundle and advisor.
type ModelInfo struct {
	Version        string              `json:"version"`
	Kind           string              `json:"kind"`
	Width          int                 `json:"width"`
	Threshold      float64             `json:"threshold"`
	Numeric        []string            `json:"numeric_features"`
	Categorical    []string            `json:"categorical_features"`
	Categories     map[string][]string `json:"categories"`
	UnknownPolicy  string              `json:"unknown_policy"`
	AdvisorEnabled bool                `json:"advisor_enabled"`
	AdvisorModel   string              `json:"advisor_model,omitempty"`
	HistoryEnabled bool                `json:"history_enabled"`
}

type modelHandler struct {
	info   ModelInfo
	logger *slog.Logger
}

func newModelHandler(
	artifacts *inference.Artifacts,
	adv *advisor.Advisor,
	history bool,
	logger *slog.Logger,
) *modelHandler {
	return &modelHandler{
		info:   describeModel(artifacts, adv, history),
		logger: logger.With("handler", "model"),
	}
}

func describeModel(a *inference.Artifacts, adv *advisor.Advisor, history bool) ModelInfo {
	categories := make(map[string][]string)
	for _, feature := range a.CategoricalFeatures() {
		categories[feature] = a.Categories(feature)
	}

	return ModelInfo{
		Version:        a.Version(),
		Kind:           a.ModelKind(),
		Width:          a.Width(),
		Threshold:      inference.Threshold,
		Numeric:        a.NumericFeatures(),
		Categorical:    a.CategoricalFeatures(),
		Categories:     categories,
		UnknownPolicy:  string(a.UnknownPolicy()),
		AdvisorEnabled: adv.Enabled(),
		AdvisorModel:   adv.ModelID(),
		HistoryEnabled: history,
	}
}

func (h *modelHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/model",
		Tags:   []string{"Model"},
		Routes: []routes.Route{
			{
				Method:  "GET",
				Pattern: "",
				Handler: h.get,
				OpenAPI: &openapi.Operation{
					Summary:     "Describe the loaded model",
					Description: "Returns the artifact bundle version, feature layout, vocabulary and advisor status.",
					Responses: map[int]*openapi.Response{
						200: {Description: "Model summary"},
					},
				},
			},
		},
	}
}

func (h *modelHandler) get(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.info)
}
