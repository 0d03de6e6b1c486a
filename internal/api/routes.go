package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/coursecast/internal/config"
	"github.com/JaimeStill/coursecast/pkg/openapi"
	"github.com/JaimeStill/coursecast/pkg/routes"
)

// Groups returns the route groups served by the API module.
func Groups(runtime *Runtime, domain *Domain) []routes.Group {
	model := newModelHandler(
		runtime.Artifacts,
		runtime.Advisor,
		domain.Predictions.HistoryEnabled(),
		runtime.Logger,
	)

	return []routes.Group{
		domain.Predictions.Handler(runtime.MaxBodySize).Routes(),
		model.routes(),
	}
}

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	groups := Groups(runtime, domain)

	specBytes, err := openapi.MarshalJSON(BuildSpec(cfg, groups...))
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}

	routes.Register(mux, groups...)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}
