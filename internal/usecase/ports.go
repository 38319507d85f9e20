package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/ignite/internal/domain/config"
	"github.com/trebuchet-org/ignite/internal/domain/models"
	"github.com/trebuchet-org/ignite/pkg/ignition"
)

// ModuleRegistry provides the deployment modules known to the project
type ModuleRegistry interface {
	Get(id string) (*ignition.Module, error)
	List() []*ignition.Module
}

// ArtifactRepository provides access to compiled contracts
type ArtifactRepository interface {
	GetArtifact(ctx context.Context, name string) (*models.Artifact, error)
	ListArtifacts(ctx context.Context) ([]*models.Artifact, error)
}

// ConstructorEncoder turns constructor literals into deployable calldata
type ConstructorEncoder interface {
	// EncodeConstructor packs args according to the artifact's constructor ABI
	EncodeConstructor(artifact *models.Artifact, args []any) ([]byte, error)
	// Link substitutes library addresses into the artifact bytecode
	Link(artifact *models.Artifact, libraries map[string]common.Address) ([]byte, error)
}

// DeploymentStateStore persists deployment journals
type DeploymentStateStore interface {
	Load(ctx context.Context, deploymentID string) (*models.DeploymentState, error)
	Save(ctx context.Context, state *models.DeploymentState) error
	Delete(ctx context.Context, deploymentID string) error
	List(ctx context.Context) ([]string, error)
}

// ParameterSource loads deploy-time module parameters
type ParameterSource interface {
	// LoadParameters returns values keyed by module id then parameter name
	LoadParameters(ctx context.Context, path string) (map[string]map[string]any, error)
}

// DeployRequest is a single contract creation handed to a deployer
type DeployRequest struct {
	FutureID string
	From     string
	Data     []byte
	Value    *big.Int
}

// DeployReceipt is the outcome of a contract creation
type DeployReceipt struct {
	Address     common.Address
	TxHash      common.Hash
	From        common.Address
	BlockNumber uint64
	GasUsed     uint64
}

// ContractDeployer sends contract creations to a network
type ContractDeployer interface {
	Connect(ctx context.Context, network *config.Network) error
	Deploy(ctx context.Context, req DeployRequest) (*DeployReceipt, error)
}

// ModuleSelector handles interactive selection of modules
type ModuleSelector interface {
	SelectModule(ctx context.Context, modules []*ignition.Module, prompt string) (*ignition.Module, error)
}

// FutureSelector handles interactive selection of recorded futures
type FutureSelector interface {
	SelectFutures(ctx context.Context, futures []*models.FutureState, prompt string) ([]*models.FutureState, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Progress stages emitted by DeployModule
const (
	StagePlanCreated     = "plan_created"
	StageFutureStarting  = "future_starting"
	StageFutureSkipped   = "future_skipped"
	StageFutureCompleted = "future_completed"
	StageDeployCompleted = "deploy_completed"
)
