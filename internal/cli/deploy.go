package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/ignite/internal/cli/render"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "deploy [module]",
		Short: "Deploy a module to a network",
		Long: `Deploy every future of a module in plan order.

Each deployment keeps a journal under the deployments directory. Running the
same module again skips futures that are already deployed with identical
arguments and fails if a deployed future was changed; use --reset to start
over. When no module is given an interactive picker is shown.`,
		Example: `  # Deploy to the local node
  ignite deploy CompoundModule

  # Deploy to sepolia with parameters
  ignite deploy SnekModule --network sepolia --parameters ignition/parameters.json

  # Predict addresses without sending transactions
  ignite deploy CompoundModule --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getNetworkApp(cmd)
			if err != nil {
				return err
			}

			moduleID, err := resolveModuleID(cmd, args)
			if err != nil {
				return err
			}

			result, err := app.DeployModule.Run(cmd.Context(), usecase.DeployModuleParams{
				ModuleID:       moduleID,
				Network:        app.Config.Network,
				DeploymentID:   app.Config.DeploymentID,
				ParametersFile: app.Config.ParametersFile,
				From:           from,
				DryRun:         app.Config.DryRun,
				Reset:          app.Config.Reset,
			})
			if err != nil {
				return err
			}

			renderer := render.NewDeployRenderer(cmd.OutOrStdout())
			if app.Config.JSON {
				if err := renderer.RenderJSON(result); err != nil {
					return err
				}
			} else {
				renderer.RenderSummary(result)
			}

			if !result.Success {
				return fmt.Errorf("deployment %s failed at %s", result.DeploymentID, result.Failed.Step.FutureID)
			}
			return nil
		},
	}

	cmd.Flags().StringP("parameters", "p", "", "Module parameters file (JSON or YAML)")
	cmd.Flags().String("deployment-id", "", "Deployment journal to use (defaults to chain-<chainId>)")
	cmd.Flags().Bool("dry-run", false, "Predict addresses without sending transactions")
	cmd.Flags().Bool("reset", false, "Discard the existing journal before deploying")
	cmd.Flags().StringVar(&from, "from", "", "Sender address (defaults to the network's from or the node's first account)")

	return cmd
}

// resolveModuleID returns the module named on the command line or asks the
// user to pick one
func resolveModuleID(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	app, err := getApp(cmd)
	if err != nil {
		return "", err
	}

	module, err := app.Selector.SelectModule(cmd.Context(), app.Registry.List(), "Select a module to deploy")
	if err != nil {
		return "", err
	}
	return module.ID(), nil
}
