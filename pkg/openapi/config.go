package openapi

import "os"

// Config holds document metadata. ServerURL, when set, replaces the API
// base path as the single servers entry, for deployments behind a proxy
// that rewrites the public prefix.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	ServerURL   string `toml:"server_url"`
}

// ConfigEnv names the environment variables that override Config.
type ConfigEnv struct {
	Title       string
	Description string
	ServerURL   string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "CourseCast API"
	}
	if c.Description == "" {
		c.Description = "Course success prediction and improvement advice."
	}
	if env != nil {
		for dst, name := range map[*string]string{
			&c.Title:       env.Title,
			&c.Description: env.Description,
			&c.ServerURL:   env.ServerURL,
		} {
			if v := os.Getenv(name); name != "" && v != "" {
				*dst = v
			}
		}
	}
	return nil
}

// Merge overwrites fields that are set in overlay.
func (c *Config) Merge(overlay *Config) {
	for dst, v := range map[*string]string{
		&c.Title:       overlay.Title,
		&c.Description: overlay.Description,
		&c.ServerURL:   overlay.ServerURL,
	} {
		if v != "" {
			*dst = v
		}
	}
}

// Server returns ServerURL, or fallback when it is unset.
func (c *Config) Server(fallback string) string {
	if c.ServerURL != "" {
		return c.ServerURL
	}
	return fallback
}
