package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/coursecast/internal/config"
)

const version = "0.1.0"

type rootOptions struct {
	verbose bool
	bundle  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "coursectl",
		Short:   "CourseCast command-line tool",
		Version: version,
		Long: `Score courses against the fitted success model, inspect or publish
model bundles, and manage the prediction history schema.

Configuration is read the same way the server reads it: config.toml,
the COURSECAST_ENV overlay, then COURSECAST_* environment variables.`,
		Example: `  # Score a course with the configured bundle
  $ coursectl predict --category Tech --difficulty Beginner --price 499 --reviews 120

  # Summarize a bundle
  $ coursectl inspect --bundle artifacts/course_success_model.json

  # Apply all pending migrations
  $ coursectl migrate up`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")
	cmd.PersistentFlags().StringVar(&opts.bundle, "bundle", "", "Model bundle path (overrides the configured artifacts path)")

	cmd.AddCommand(
		newPredictCmd(opts),
		newInspectCmd(opts),
		newPublishCmd(opts),
		newOpenAPICmd(opts),
		newMigrateCmd(opts),
	)

	return cmd
}

// loadConfig resolves configuration and applies the --bundle override.
// A local bundle path always wins over a configured blob key.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.bundle != "" {
		cfg.Artifacts.Path = o.bundle
		cfg.Artifacts.BlobKey = ""
	}
	return cfg, nil
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
