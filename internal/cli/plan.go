package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/ignite/internal/cli/render"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// NewPlanCmd creates the plan command
func NewPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <module>",
		Short: "Show the execution plan of a module",
		Long: `Evaluate a module and print the order in which its futures would be
deployed. Futures in the same batch do not depend on each other.

Nothing is sent to the network.`,
		Example: `  ignite plan CompoundModule
  ignite plan SnekModule --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			plan, err := app.PlanModule.Run(cmd.Context(), usecase.PlanModuleParams{ModuleID: args[0]})
			if err != nil {
				return err
			}

			renderer := render.NewPlanRenderer(cmd.OutOrStdout())
			if app.Config.JSON {
				return renderer.RenderJSON(plan)
			}
			renderer.RenderExecutionPlan(plan)
			return nil
		},
	}
}
