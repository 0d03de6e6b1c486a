package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/coursecast/internal/config"
	"github.com/JaimeStill/coursecast/internal/inference"
	"github.com/JaimeStill/coursecast/pkg/storage"
)

// ErrStorageRequired indicates a blob key was configured without a storage system.
var ErrStorageRequired = errors.New("artifact blob key requires storage")

// LoadArtifacts loads the model bundle from blob storage when cfg.BlobKey is
// set, otherwise from cfg.Path on the local filesystem.
func LoadArtifacts(ctx context.Context, cfg *config.ArtifactsConfig, store storage.System) (*inference.Artifacts, error) {
	if cfg.BlobKey == "" {
		return inference.LoadFile(cfg.Path)
	}

	if store == nil {
		return nil, fmt.Errorf("%w: %w", inference.ErrArtifactLoad, ErrStorageRequired)
	}

	body, err := store.Download(ctx, cfg.BlobKey)
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %w", inference.ErrArtifactLoad, cfg.BlobKey, err)
	}
	defer body.Close()

	return inference.Load(body)
}
