package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/ignite/internal/cli/render"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [deployment-id]",
		Short: "Show the journal of a deployment",
		Long: `Show every recorded future of a deployment with its status, address
and transaction. Without an id the deployment of the selected network is shown.`,
		Example: `  ignite status
  ignite status chain-11155111
  ignite status --network sepolia --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var deploymentID string
			if len(args) > 0 {
				deploymentID = args[0]
			} else {
				if app, err = getNetworkApp(cmd); err != nil {
					return err
				}
				deploymentID = app.Config.DeploymentID
			}

			details, err := app.ShowDeployment.Run(cmd.Context(), usecase.ShowDeploymentParams{DeploymentID: deploymentID})
			if err != nil {
				return fmt.Errorf("failed to load deployment: %w", err)
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), details.State)
			}
			return render.NewDeploymentRenderer(cmd.OutOrStdout()).RenderDeployment(details)
		},
	}
}
