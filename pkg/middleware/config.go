package middleware

import (
	"errors"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Config validation errors.
var (
	ErrWildcardCredentials = errors.New("allow_credentials cannot be combined with origin \"*\"")
	ErrIssuerRequired      = errors.New("issuer_url required")
	ErrClientIDRequired    = errors.New("client_id required")
)

// CORSConfig holds CORS policy settings. An Origins entry of "*" allows
// any origin.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv names the environment variables that override CORSConfig. List
// values are comma-separated.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials string
	MaxAge           string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *CORSConfig) Finalize(env *CORSEnv) error {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization", "If-None-Match"}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}

	if env != nil {
		envBool(&c.Enabled, env.Enabled)
		envList(&c.Origins, env.Origins)
		envList(&c.AllowedMethods, env.AllowedMethods)
		envList(&c.AllowedHeaders, env.AllowedHeaders)
		envBool(&c.AllowCredentials, env.AllowCredentials)
		if n, err := strconv.Atoi(lookup(env.MaxAge)); err == nil {
			c.MaxAge = n
		}
	}

	if c.AllowCredentials && c.anyOrigin() {
		return ErrWildcardCredentials
	}
	return nil
}

// Merge overwrites fields from overlay. Boolean fields always apply; list
// fields apply when set and MaxAge when positive.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	c.AllowCredentials = overlay.AllowCredentials

	if overlay.Origins != nil {
		c.Origins = overlay.Origins
	}
	if overlay.AllowedMethods != nil {
		c.AllowedMethods = overlay.AllowedMethods
	}
	if overlay.AllowedHeaders != nil {
		c.AllowedHeaders = overlay.AllowedHeaders
	}
	if overlay.MaxAge > 0 {
		c.MaxAge = overlay.MaxAge
	}
}

func (c *CORSConfig) anyOrigin() bool {
	return slices.Contains(c.Origins, "*")
}

// AuthConfig holds OIDC bearer token verification settings.
type AuthConfig struct {
	Enabled   bool   `toml:"enabled"`
	IssuerURL string `toml:"issuer_url"`
	ClientID  string `toml:"client_id"`
}

// AuthEnv names the environment variables that override AuthConfig.
type AuthEnv struct {
	Enabled   string
	IssuerURL string
	ClientID  string
}

// Finalize applies environment variable overrides and validation.
func (c *AuthConfig) Finalize(env *AuthEnv) error {
	if env != nil {
		envBool(&c.Enabled, env.Enabled)
		if v := lookup(env.IssuerURL); v != "" {
			c.IssuerURL = v
		}
		if v := lookup(env.ClientID); v != "" {
			c.ClientID = v
		}
	}

	if !c.Enabled {
		return nil
	}
	switch {
	case c.IssuerURL == "":
		return ErrIssuerRequired
	case c.ClientID == "":
		return ErrClientIDRequired
	}
	return nil
}

// Merge overwrites fields from overlay. Enabled always applies; string
// fields only apply when non-empty.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	c.Enabled = overlay.Enabled

	if overlay.IssuerURL != "" {
		c.IssuerURL = overlay.IssuerURL
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func envBool(dst *bool, name string) {
	if b, err := strconv.ParseBool(lookup(name)); err == nil {
		*dst = b
	}
}

// envList replaces dst with the trimmed, non-empty items of a
// comma-separated variable. An unset variable leaves dst alone.
func envList(dst *[]string, name string) {
	v := lookup(name)
	if v == "" {
		return
	}

	items := []string{}
	for item := range strings.SplitSeq(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	*dst = items
}
