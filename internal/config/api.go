package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/coursecast/pkg/formatting"
	"github.com/JaimeStill/coursecast/pkg/middleware"
	"github.com/JaimeStill/coursecast/pkg/openapi"
	"github.com/JaimeStill/coursecast/pkg/pagination"
)

const (
	EnvAPIBasePath    = "COURSECAST_API_BASE_PATH"
	EnvAPIMaxBodySize = "COURSECAST_API_MAX_BODY_SIZE"

	defaultMaxBodySize = 1 << 20
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "COURSECAST_CORS_ENABLED",
	Origins:          "COURSECAST_CORS_ORIGINS",
	AllowedMethods:   "COURSECAST_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "COURSECAST_CORS_ALLOWED_HEADERS",
	AllowCredentials: "COURSECAST_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "COURSECAST_CORS_MAX_AGE",
}

var authEnv = &middleware.AuthEnv{
	Enabled:   "COURSECAST_AUTH_ENABLED",
	IssuerURL: "COURSECAST_AUTH_ISSUER_URL",
	ClientID:  "COURSECAST_AUTH_CLIENT_ID",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "COURSECAST_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "COURSECAST_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "COURSECAST_OPENAPI_TITLE",
	Description: "COURSECAST_OPENAPI_DESCRIPTION",
	ServerURL:   "COURSECAST_OPENAPI_SERVER_URL",
}

// APIConfig holds API routing, request limits, CORS, auth, pagination,
// and OpenAPI settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Auth        middleware.AuthConfig `toml:"auth"`
	Pagination  pagination.Config     `toml:"pagination"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes, falling back to 1MB when
// the value does not parse.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return defaultMaxBodySize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxBodySize); v != "" {
		c.MaxBodySize = v
	}
}
