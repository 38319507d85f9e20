package app

import (
	configadapter "github.com/trebuchet-org/ignite/internal/config"
	"github.com/trebuchet-org/ignite/internal/domain/config"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Networks *configadapter.NetworkResolver
	Selector usecase.ModuleSelector
	Registry usecase.ModuleRegistry

	// Use cases
	ListModules     *usecase.ListModules
	PlanModule      *usecase.PlanModule
	ValidateModule  *usecase.ValidateModule
	DeployModule    *usecase.DeployModule
	ShowDeployment  *usecase.ShowDeployment
	ListDeployments *usecase.ListDeployments
	WipeFuture      *usecase.WipeFuture
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	networks *configadapter.NetworkResolver,
	selector usecase.ModuleSelector,
	registry usecase.ModuleRegistry,
	listModules *usecase.ListModules,
	planModule *usecase.PlanModule,
	validateModule *usecase.ValidateModule,
	deployModule *usecase.DeployModule,
	showDeployment *usecase.ShowDeployment,
	listDeployments *usecase.ListDeployments,
	wipeFuture *usecase.WipeFuture,
) (*App, error) {
	return &App{
		Config:          cfg,
		Networks:        networks,
		Selector:        selector,
		Registry:        registry,
		ListModules:     listModules,
		PlanModule:      planModule,
		ValidateModule:  validateModule,
		DeployModule:    deployModule,
		ShowDeployment:  showDeployment,
		ListDeployments: listDeployments,
		WipeFuture:      wipeFuture,
	}, nil
}
