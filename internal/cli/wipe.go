package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/ignite/internal/cli/render"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// NewWipeCmd creates the wipe command
func NewWipeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wipe <deployment-id> [future...]",
		Short: "Remove futures from a deployment journal",
		Long: `Remove futures from a deployment journal so that the next deploy sends
them again. A future cannot be wiped while another recorded future depends on
it, unless that future is wiped as well.

Without future ids an interactive picker lists the recorded futures.`,
		Example: `  ignite wipe chain-31337 CompoundModule#CompoundingStakableERC20Token
  ignite wipe chain-31337`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.WipeFuture.Run(cmd.Context(), usecase.WipeFutureParams{
				DeploymentID: args[0],
				FutureIDs:    args[1:],
				Interactive:  !app.Config.NonInteractive,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result)
			}
			for _, id := range result.Wiped {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("wiped "+id))
			}
			return nil
		},
	}
}
