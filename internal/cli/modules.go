package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/ignite/internal/cli/render"
)

// NewModulesCmd creates the modules command
func NewModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "modules",
		Aliases: []string{"ls"},
		Short:   "List the deployment modules of the project",
		Example: `  # List modules
  ignite modules

  # List modules as JSON
  ignite modules --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			modules, err := app.ListModules.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), modules)
			}
			return render.NewModulesRenderer(cmd.OutOrStdout()).RenderModules(modules)
		},
	}
}
