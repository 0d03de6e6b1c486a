package api

import (
	"maps"

	"github.com/JaimeStill/coursecast/internal/config"
	"github.com/JaimeStill/coursecast/internal/predictions"
	"github.com/JaimeStill/coursecast/pkg/openapi"
	"github.com/JaimeStill/coursecast/pkg/routes"
)

// BuildSpec assembles the OpenAPI document for the given route groups.
// When bearer auth is enabled every operation also documents a 401.
func BuildSpec(cfg *config.Config, groups ...routes.Group) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.OpenAPI.Server(cfg.API.BasePath))
	spec.Components.AddSchemas(predictions.Schemas())

	routes.Describe(spec, "", groups...)

	if cfg.API.Auth.Enabled {
		for _, item := range spec.Paths {
			for op := range item.Operations() {
				op.Responses = maps.Clone(op.Responses)
				op.Responses[401] = openapi.ResponseRef("Unauthorized")
			}
		}
	}

	return spec
}
