package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/coursecast/internal/inference"
	"github.com/JaimeStill/coursecast/pkg/formatting"
	"github.com/JaimeStill/coursecast/pkg/storage"
)

// ErrStorageDisabled indicates publish ran without blob storage configured.
var ErrStorageDisabled = errors.New("storage is not enabled")

func newPublishCmd(root *rootOptions) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "publish <bundle.json>",
		Short: "Validate a bundle and upload it to blob storage",
		Long: `Validate a model bundle and upload it to the configured blob container.
The key defaults to models/<version>.json. Point the server at it with
artifacts.blob_key or COURSECAST_ARTIFACTS_BLOB_KEY.`,
		Example: `  $ COURSECAST_STORAGE_ENABLED=true coursectl publish artifacts/course_success_model.json
  $ coursectl publish model.json --key models/current.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			a, err := inference.Load(bytes.NewReader(data))
			if err != nil {
				return err
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Storage.Enabled {
				return ErrStorageDisabled
			}

			store, err := storage.New(&cfg.Storage, root.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			if key == "" {
				key = fmt.Sprintf("models/%s.json", a.Version())
			}
			if err := store.Upload(cmd.Context(), key, bytes.NewReader(data), "application/json"); err != nil {
				return fmt.Errorf("upload %s: %w", key, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "published %s (version %s, %s) to %s/%s\n",
				args[0], a.Version(), formatting.FormatBytes(int64(len(data))), cfg.Storage.ContainerName, key)
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Blob key (default models/<version>.json)")
	return cmd
}
