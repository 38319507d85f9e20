//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/ignite/internal/adapters"
	"github.com/trebuchet-org/ignite/internal/config"
	"github.com/trebuchet-org/ignite/internal/logging"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		config.ProvideNetworkResolver,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewListModules,
		usecase.NewPlanModule,
		usecase.NewValidateModule,
		usecase.NewDeployModule,
		usecase.NewShowDeployment,
		usecase.NewListDeployments,
		usecase.NewWipeFuture,

		// App
		NewApp,
	)
	return nil, nil
}
