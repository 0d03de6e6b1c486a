package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/coursecast/internal/inference"
	"github.com/JaimeStill/coursecast/internal/infrastructure"
	"github.com/JaimeStill/coursecast/pkg/storage"
)

type bundleSummary struct {
	Version       string              `json:"version"`
	Model         string              `json:"model"`
	Width         int                 `json:"width"`
	UnknownPolicy string              `json:"unknown_policy"`
	Numeric       []string            `json:"numeric_features"`
	Categorical   []string            `json:"categorical_features"`
	Categories    map[string][]string `json:"categories"`
}

func summarize(a *inference.Artifacts) bundleSummary {
	s := bundleSummary{
		Version:       a.Version(),
		Model:         a.ModelKind(),
		Width:         a.Width(),
		UnknownPolicy: string(a.UnknownPolicy()),
		Numeric:       a.NumericFeatures(),
		Categorical:   a.CategoricalFeatures(),
		Categories:    make(map[string][]string),
	}
	for _, f := range s.Categorical {
		s.Categories[f] = a.Categories(f)
	}
	return s
}

func newInspectCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the model bundle",
		Long: `Load the configured model bundle (or --bundle) and print its version,
model kind, feature layout, and the category vocabulary the encoder accepts.
Loading validates the bundle, so a malformed bundle fails here.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			var store storage.System
			if cfg.Artifacts.BlobKey != "" && cfg.Storage.Enabled {
				if store, err = storage.New(&cfg.Storage, root.logger(cmd.ErrOrStderr())); err != nil {
					return err
				}
			}

			a, err := infrastructure.LoadArtifacts(cmd.Context(), &cfg.Artifacts, store)
			if err != nil {
				return err
			}

			s := summarize(a)
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Version:\t%s\n", s.Version)
			fmt.Fprintf(tw, "Model:\t%s\n", s.Model)
			fmt.Fprintf(tw, "Width:\t%d\n", s.Width)
			fmt.Fprintf(tw, "Unknown categories:\t%s\n", s.UnknownPolicy)
			fmt.Fprintf(tw, "Numeric:\t%s\n", strings.Join(s.Numeric, ", "))
			for _, f := range s.Categorical {
				fmt.Fprintf(tw, "%s:\t%s\n", f, strings.Join(s.Categories[f], ", "))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}
