package storage

import (
	"errors"
	"os"
	"strconv"
)

// Validation errors returned by Config.Finalize when storage is enabled.
var (
	ErrContainerName = errors.New("container_name required")
	ErrCredentials   = errors.New("connection_string or service_url required")
)

// Config holds Azure Blob Storage connection parameters. Either a
// connection string or a service URL must be set when storage is enabled;
// a service URL authenticates with the default Azure credential chain.
type Config struct {
	Enabled          bool   `toml:"enabled"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	ServiceURL       string `toml:"service_url"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled          string
	ContainerName    string
	ConnectionString string
	ServiceURL       string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. Enabled always applies; string
// fields only apply when non-empty.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = overlay.Enabled

	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.ServiceURL != "" {
		c.ServiceURL = overlay.ServiceURL
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "artifacts"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := lookup(env.Enabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	setString(&c.ContainerName, env.ContainerName)
	setString(&c.ConnectionString, env.ConnectionString)
	setString(&c.ServiceURL, env.ServiceURL)
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func setString(dst *string, name string) {
	if v := lookup(name); v != "" {
		*dst = v
	}
}

func (c *Config) validate() error {
	if !c.Enabled {
		return nil
	}
	switch {
	case c.ContainerName == "":
		return ErrContainerName
	case c.ConnectionString == "" && c.ServiceURL == "":
		return ErrCredentials
	}
	return nil
}
