package adapters

import (
	"fmt"
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/ignite/ignition/modules"
	"github.com/trebuchet-org/ignite/internal/adapters/abi"
	"github.com/trebuchet-org/ignite/internal/adapters/artifacts"
	"github.com/trebuchet-org/ignite/internal/adapters/blockchain"
	"github.com/trebuchet-org/ignite/internal/adapters/fs"
	"github.com/trebuchet-org/ignite/internal/adapters/interactive"
	"github.com/trebuchet-org/ignite/internal/adapters/parameters"
	"github.com/trebuchet-org/ignite/internal/domain/config"
	"github.com/trebuchet-org/ignite/internal/usecase"
	"github.com/trebuchet-org/ignite/pkg/ignition"
)

// ProvideModuleRegistry provides the registry holding the project's modules
func ProvideModuleRegistry() (*ignition.Registry, error) {
	reg := ignition.NewRegistry()
	if err := modules.Register(reg); err != nil {
		return nil, fmt.Errorf("failed to register modules: %w", err)
	}
	return reg, nil
}

// ProvideContractDeployer picks the deployer matching the run mode
func ProvideContractDeployer(cfg *config.RuntimeConfig, log *slog.Logger) usecase.ContractDeployer {
	if cfg.DryRun {
		return blockchain.NewDryRunDeployer(log)
	}
	return blockchain.NewRPCDeployer(log)
}

// ModuleSet provides the module registry
var ModuleSet = wire.NewSet(
	ProvideModuleRegistry,
	wire.Bind(new(usecase.ModuleRegistry), new(*ignition.Registry)),
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewDeploymentStateStoreAdapter,
	wire.Bind(new(usecase.DeploymentStateStore), new(*fs.DeploymentStateStoreAdapter)),
)

// ArtifactsSet provides the compiled artifact repository
var ArtifactsSet = wire.NewSet(
	artifacts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Repository)),
)

// ABISet provides constructor encoding and library linking
var ABISet = wire.NewSet(
	abi.NewEncoder,
	wire.Bind(new(usecase.ConstructorEncoder), new(*abi.Encoder)),
)

// ParametersSet provides the module parameters loader
var ParametersSet = wire.NewSet(
	parameters.NewLoader,
	wire.Bind(new(usecase.ParameterSource), new(*parameters.Loader)),
)

// BlockchainSet provides network-facing implementations
var BlockchainSet = wire.NewSet(
	ProvideContractDeployer,
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ModuleSelector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.FutureSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ModuleSet,
	FSSet,
	ArtifactsSet,
	ABISet,
	ParametersSet,
	BlockchainSet,
	InteractiveSet,
)
