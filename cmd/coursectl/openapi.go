package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/coursecast/internal/api"
	"github.com/JaimeStill/coursecast/internal/infrastructure"
	"github.com/JaimeStill/coursecast/pkg/openapi"
)

func newOpenAPICmd(root *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the API's OpenAPI document",
		Long: `Generate the OpenAPI 3.1 document the server publishes at
<base_path>/openapi.json, using the current configuration.`,
		Example: `  $ coursectl openapi --out openapi.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			cfg.Database.Enabled = false

			infra, err := infrastructure.NewWithLogger(cfg, root.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			rt := api.NewRuntime(cfg, infra)
			spec := api.BuildSpec(cfg, api.Groups(rt, api.NewDomain(rt))...)

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return openapi.Encode(w, spec)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	return cmd
}
