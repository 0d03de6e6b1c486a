// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies domain systems require: logging, the fitted model
// artifacts, the advisor, metrics, and the optional database and blob storage.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/coursecast/internal/advisor"
	"github.com/JaimeStill/coursecast/internal/config"
	"github.com/JaimeStill/coursecast/internal/inference"
	"github.com/JaimeStill/coursecast/internal/metrics"
	"github.com/JaimeStill/coursecast/pkg/database"
	"github.com/JaimeStill/coursecast/pkg/lifecycle"
	"github.com/JaimeStill/coursecast/pkg/storage"
)

// Infrastructure holds the core systems shared by all modules.
// Database and Storage are nil when disabled in configuration.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Artifacts *inference.Artifacts
	Advisor   *advisor.Advisor
	Metrics   *metrics.Metrics
}

// New creates an Infrastructure from the application configuration.
// Model artifacts are loaded eagerly and a load failure is fatal. Database
// and storage are created but not started; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	return NewWithLogger(cfg, logger)
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Metrics:   metrics.New(),
	}

	if cfg.Database.Enabled {
		db, err := database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
	}

	if cfg.Storage.Enabled {
		store, err := storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
		infra.Storage = store
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Artifacts.LoadTimeoutDuration())
	defer cancel()

	artifacts, err := LoadArtifacts(ctx, &cfg.Artifacts, infra.Storage)
	if err != nil {
		return nil, fmt.Errorf("artifacts init failed: %w", err)
	}
	infra.Artifacts = artifacts

	logger.Info(
		"model artifacts loaded",
		"version", artifacts.Version(),
		"model", artifacts.ModelKind(),
		"width", artifacts.Width(),
	)

	adv, err := advisor.New(&cfg.Advisor, logger)
	if err != nil {
		return nil, fmt.Errorf("advisor init failed: %w", err)
	}
	infra.Advisor = adv

	return infra, nil
}

// Start registers the enabled infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	return nil
}
