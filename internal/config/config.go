package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/coursecast/internal/advisor"
	"github.com/JaimeStill/coursecast/pkg/database"
	"github.com/JaimeStill/coursecast/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCoursecastEnv             = "COURSECAST_ENV"
	EnvCoursecastShutdownTimeout = "COURSECAST_SHUTDOWN_TIMEOUT"
	EnvCoursecastVersion         = "COURSECAST_VERSION"
	EnvCoursecastLogLevel        = "COURSECAST_LOG_LEVEL"
)

var databaseEnv = &database.Env{
	Enabled:         "COURSECAST_DB_ENABLED",
	Host:            "COURSECAST_DB_HOST",
	Port:            "COURSECAST_DB_PORT",
	Name:            "COURSECAST_DB_NAME",
	User:            "COURSECAST_DB_USER",
	Password:        "COURSECAST_DB_PASSWORD",
	SSLMode:         "COURSECAST_DB_SSL_MODE",
	MaxOpenConns:    "COURSECAST_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "COURSECAST_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "COURSECAST_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "COURSECAST_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Enabled:          "COURSECAST_STORAGE_ENABLED",
	ContainerName:    "COURSECAST_STORAGE_CONTAINER_NAME",
	ConnectionString: "COURSECAST_STORAGE_CONNECTION_STRING",
	ServiceURL:       "COURSECAST_STORAGE_SERVICE_URL",
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Config is the root configuration for the CourseCast service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Artifacts       ArtifactsConfig `toml:"artifacts"`
	Advisor         advisor.Config  `toml:"advisor"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
	LogLevel        string          `toml:"log_level"`
}

// Env returns the COURSECAST_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCoursecastEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout)
}

// SlogLevel returns LogLevel as a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	return logLevels[strings.ToLower(c.LogLevel)]
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Artifacts.Merge(&overlay.Artifacts)
	c.Advisor.Merge(&overlay.Advisor)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Artifacts.Finalize(); err != nil {
		return fmt.Errorf("artifacts: %w", err)
	}
	if c.Artifacts.BlobKey != "" && !c.Storage.Enabled {
		return fmt.Errorf("artifacts: blob_key requires storage to be enabled")
	}
	if err := c.Advisor.Finalize(advisorEnv); err != nil {
		return fmt.Errorf("advisor: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCoursecastShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCoursecastVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvCoursecastLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCoursecastEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
