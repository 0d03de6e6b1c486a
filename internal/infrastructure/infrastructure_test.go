package infrastructure_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/JaimeStill/coursecast/internal/advisor"
	"github.com/JaimeStill/coursecast/internal/config"
	"github.com/JaimeStill/coursecast/internal/inference"
	"github.com/JaimeStill/coursecast/internal/infrastructure"
	"github.com/JaimeStill/coursecast/pkg/database"
	"github.com/JaimeStill/coursecast/pkg/lifecycle"
	"github.com/JaimeStill/coursecast/pkg/storage"
)

const bundlePath = "../../artifacts/course_success_model.json"

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validConfig() *config.Config {
	return &config.Config{
		Artifacts: config.ArtifactsConfig{
			Path:        bundlePath,
			LoadTimeout: "5s",
		},
		Advisor: advisor.Config{
			Provider:    advisor.ProviderNone,
			MaxTokens:   400,
			Temperature: 0.7,
			Timeout:     "5s",
		},
		LogLevel: "info",
		Version:  "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.NewWithLogger(validConfig(), discardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Artifacts == nil {
		t.Fatal("Artifacts is nil")
	}
	if infra.Artifacts.Version() != "2024.11-sample" {
		t.Errorf("artifacts version: got %s", infra.Artifacts.Version())
	}
	if infra.Advisor == nil || infra.Advisor.Enabled() {
		t.Error("advisor should exist without a provider")
	}
	if infra.Metrics == nil {
		t.Error("Metrics is nil")
	}
	if infra.Database != nil {
		t.Error("Database should be nil when disabled")
	}
	if infra.Storage != nil {
		t.Error("Storage should be nil when disabled")
	}
	if err := infra.Start(); err != nil {
		t.Errorf("Start() with no optional systems: %v", err)
	}
}

func TestNewWithDatabaseAndStorage(t *testing.T) {
	cfg := validConfig()
	cfg.Database = database.Config{
		Enabled:         true,
		Host:            "localhost",
		Port:            5432,
		Name:            "coursecast",
		User:            "coursecast",
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    1,
		ConnMaxLifetime: "15m",
		ConnTimeout:     "5s",
	}
	cfg.Storage = storage.Config{
		Enabled:          true,
		ContainerName:    "artifacts",
		ConnectionString: azuriteConnString,
	}

	infra, err := infrastructure.NewWithLogger(cfg, discardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Database == nil {
		t.Fatal("Database is nil")
	}
	defer infra.Database.Connection().Close()

	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
}

func TestNewMissingArtifacts(t *testing.T) {
	cfg := validConfig()
	cfg.Artifacts.Path = "does-not-exist.json"

	_, err := infrastructure.NewWithLogger(cfg, discardLogger())
	if !errors.Is(err, inference.ErrArtifactLoad) {
		t.Fatalf("error: got %v, want ErrArtifactLoad", err)
	}
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Storage = storage.Config{
		Enabled:          true,
		ContainerName:    "artifacts",
		ConnectionString: "not-a-connection-string",
	}

	if _, err := infrastructure.NewWithLogger(cfg, discardLogger()); err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}

type blobStore struct {
	download func(ctx context.Context, key string) (io.ReadCloser, error)
}

func (b *blobStore) Start(*lifecycle.Coordinator) error { return nil }
func (b *blobStore) Upload(context.Context, string, io.Reader, string) error {
	return nil
}
func (b *blobStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return b.download(ctx, key)
}
func (b *blobStore) Delete(context.Context, string) error { return nil }
func (b *blobStore) Exists(context.Context, string) (bool, error) {
	return true, nil
}

func TestLoadArtifacts(t *testing.T) {
	bundle, err := os.ReadFile(bundlePath)
	if err != nil {
		t.Fatalf("read bundle: %v", err)
	}

	var requested string
	store := &blobStore{
		download: func(_ context.Context, key string) (io.ReadCloser, error) {
			requested = key
			if key != "models/current.json" {
				return nil, storage.ErrNotFound
			}
			return io.NopCloser(bytes.NewReader(bundle)), nil
		},
	}

	tests := []struct {
		name    string
		cfg     config.ArtifactsConfig
		store   storage.System
		wantErr error
	}{
		{"local path", config.ArtifactsConfig{Path: bundlePath}, nil, nil},
		{"blob key", config.ArtifactsConfig{Path: "ignored.json", BlobKey: "models/current.json"}, store, nil},
		{"missing blob", config.ArtifactsConfig{BlobKey: "models/missing.json"}, store, storage.ErrNotFound},
		{"blob key without storage", config.ArtifactsConfig{BlobKey: "models/current.json"}, nil, infrastructure.ErrStorageRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := infrastructure.LoadArtifacts(context.Background(), &tt.cfg, tt.store)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error: got %v, want %v", err, tt.wantErr)
				}
				if !errors.Is(err, inference.ErrArtifactLoad) {
					t.Errorf("error should wrap ErrArtifactLoad: %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if a.Width() != 25 {
				t.Errorf("width: got %d, want 25", a.Width())
			}
		})
	}

	if requested == "" {
		t.Error("blob store was never consulted")
	}
}
