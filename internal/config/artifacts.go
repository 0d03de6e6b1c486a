package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvArtifactsPath        = "COURSECAST_ARTIFACTS_PATH"
	EnvArtifactsBlobKey     = "COURSECAST_ARTIFACTS_BLOB_KEY"
	EnvArtifactsLoadTimeout = "COURSECAST_ARTIFACTS_LOAD_TIMEOUT"
)

// ArtifactsConfig locates the fitted model bundle. BlobKey, when set,
// fetches the bundle from blob storage and takes precedence over Path.
type ArtifactsConfig struct {
	Path        string `toml:"path"`
	BlobKey     string `toml:"blob_key"`
	LoadTimeout string `toml:"load_timeout"`
}

// LoadTimeoutDuration returns LoadTimeout as a time.Duration.
func (c *ArtifactsConfig) LoadTimeoutDuration() time.Duration {
	return mustDuration(c.LoadTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ArtifactsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ArtifactsConfig) Merge(overlay *ArtifactsConfig) {
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.BlobKey != "" {
		c.BlobKey = overlay.BlobKey
	}
	if overlay.LoadTimeout != "" {
		c.LoadTimeout = overlay.LoadTimeout
	}
}

func (c *ArtifactsConfig) loadDefaults() {
	if c.Path == "" {
		c.Path = "artifacts/course_success_model.json"
	}
	if c.LoadTimeout == "" {
		c.LoadTimeout = "30s"
	}
}

func (c *ArtifactsConfig) loadEnv() {
	if v := os.Getenv(EnvArtifactsPath); v != "" {
		c.Path = v
	}
	if v := os.Getenv(EnvArtifactsBlobKey); v != "" {
		c.BlobKey = v
	}
	if v := os.Getenv(EnvArtifactsLoadTimeout); v != "" {
		c.LoadTimeout = v
	}
}

func (c *ArtifactsConfig) validate() error {
	if _, err := time.ParseDuration(c.LoadTimeout); err != nil {
		return fmt.Errorf("invalid load_timeout: %w", err)
	}
	return nil
}
