package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/ignite/internal/adapters/progress"
	"github.com/trebuchet-org/ignite/internal/app"
	"github.com/trebuchet-org/ignite/internal/cli/render"
	"github.com/trebuchet-org/ignite/internal/config"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ignite",
		Short: "Declarative smart contract deployment modules",
		Long: `Ignite deploys smart contracts from declarative Go modules.

Modules describe contracts, libraries and their constructor arguments.
Ignite plans them, sends the transactions and keeps a journal per
deployment so that re-running a module only deploys what changed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v, newProgressSink(cmd, v))
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network from ignite.toml to use (defaults to localhost)")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "deployment",
		Title: "Deployment Commands",
	})

	for _, cmd := range []*cobra.Command{
		NewModulesCmd(),
		NewPlanCmd(),
		NewValidateCmd(),
		NewDeployCmd(),
	} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		NewStatusCmd(),
		NewDeploymentsCmd(),
		NewWipeCmd(),
	} {
		cmd.GroupID = "deployment"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// newProgressSink streams deploy progress to the terminal unless JSON output
// was requested
func newProgressSink(cmd *cobra.Command, v *viper.Viper) usecase.ProgressSink {
	if cmd.Name() != "deploy" || v.GetBool("json") {
		return progress.NewNopSink()
	}
	out := cmd.OutOrStdout()
	return progress.NewDeployProgress(render.NewDeployRenderer(out), render.NewPlanRenderer(out))
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// getNetworkApp retrieves the app and resolves the selected network. Only
// commands that talk to a chain or need the default deployment id use it.
func getNetworkApp(cmd *cobra.Command) (*app.App, error) {
	app, err := getApp(cmd)
	if err != nil {
		return nil, err
	}
	if err := app.Networks.ResolveRuntime(cmd.Context(), app.Config); err != nil {
		return nil, err
	}
	return app, nil
}
