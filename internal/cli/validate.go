package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/ignite/internal/cli/render"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// NewValidateCmd creates the validate command
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <module>",
		Short: "Check a module against the compiled artifacts",
		Long: `Check that every contract of a module has a deployable artifact, that
constructor arguments match the ABI and that required libraries are linked.

Futures that are not deployed yet are replaced by placeholder addresses.`,
		Example: `  ignite validate CompoundModule
  ignite validate CompoundModule --parameters ignition/parameters.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ValidateModule.Run(cmd.Context(), usecase.ValidateModuleParams{
				ModuleID:       args[0],
				ParametersFile: app.Config.ParametersFile,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				if err := render.RenderJSON(cmd.OutOrStdout(), validationJSON(result)); err != nil {
					return err
				}
			} else if err := render.NewValidationRenderer(cmd.OutOrStdout()).RenderValidation(result); err != nil {
				return err
			}

			if !result.Valid() {
				return fmt.Errorf("validation failed for %s", result.Plan.ModuleID)
			}
			return nil
		},
	}

	cmd.Flags().StringP("parameters", "p", "", "Module parameters file (JSON or YAML)")

	return cmd
}

type validationIssueJSON struct {
	FutureID string `json:"futureId"`
	Error    string `json:"error"`
}

func validationJSON(result *usecase.ValidationResult) map[string]any {
	issues := make([]validationIssueJSON, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, validationIssueJSON{FutureID: issue.FutureID, Error: issue.Err.Error()})
	}
	return map[string]any{
		"module": result.Plan.ModuleID,
		"valid":  result.Valid(),
		"issues": issues,
	}
}
