package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/oklog/ulid/v2"
	"github.com/trebuchet-org/ignite/internal/domain"
	"github.com/trebuchet-org/ignite/internal/domain/config"
	"github.com/trebuchet-org/ignite/internal/domain/models"
	"github.com/trebuchet-org/ignite/pkg/ignition"
)

// DeployModule executes a module against a network, journaling every future
// so that later runs only send what is missing
type DeployModule struct {
	planner   *PlanModule
	artifacts ArtifactRepository
	encoder   ConstructorEncoder
	store     DeploymentStateStore
	deployer  ContractDeployer
	params    ParameterSource
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployModule creates a new deploy use case
func NewDeployModule(
	planner *PlanModule,
	artifacts ArtifactRepository,
	encoder ConstructorEncoder,
	store DeploymentStateStore,
	deployer ContractDeployer,
	params ParameterSource,
	progress ProgressSink,
	log *slog.Logger,
) *DeployModule {
	if progress == nil {
		progress = NopProgress{}
	}
	return &DeployModule{
		planner:   planner,
		artifacts: artifacts,
		encoder:   encoder,
		store:     store,
		deployer:  deployer,
		params:    params,
		progress:  progress,
		log:       log,
	}
}

// DeployModuleParams contains parameters for a deployment
type DeployModuleParams struct {
	ModuleID       string
	Network        *config.Network
	DeploymentID   string
	ParametersFile string
	From           string
	DryRun         bool
	Reset          bool
}

// FutureOutcome describes what happened to a future during a run
type FutureOutcome string

const (
	OutcomeDeployed FutureOutcome = "deployed"
	OutcomeSkipped  FutureOutcome = "skipped"
	OutcomeFailed   FutureOutcome = "failed"
)

// FutureResult contains the result of executing a single step
type FutureResult struct {
	Step    *ExecutionStep
	Outcome FutureOutcome
	Address string
	TxHash  string
	Error   error
}

// DeployModuleResult contains the result of a deployment run
type DeployModuleResult struct {
	DeploymentID string
	RunID        string
	DryRun       bool
	Plan         *ExecutionPlan
	Deployed     []*FutureResult
	Skipped      []*FutureResult
	Failed       *FutureResult
	// Results maps the module's result names to deployed addresses
	Results map[string]string
	Success bool
}

// Run executes the deployment
func (uc *DeployModule) Run(ctx context.Context, params DeployModuleParams) (*DeployModuleResult, error) {
	if params.Network == nil {
		return nil, domain.ErrNoNetwork
	}

	plan, err := uc.planner.Run(ctx, PlanModuleParams{ModuleID: params.ModuleID})
	if err != nil {
		return nil, err
	}

	moduleParams := ModuleParameters{}
	if params.ParametersFile != "" {
		loaded, err := uc.params.LoadParameters(ctx, params.ParametersFile)
		if err != nil {
			return nil, err
		}
		moduleParams = loaded
	}

	deploymentID := params.DeploymentID
	if deploymentID == "" {
		deploymentID = models.DefaultDeploymentID(params.Network.ChainID)
	}

	state, err := uc.loadState(ctx, deploymentID, params)
	if err != nil {
		return nil, err
	}

	if err := uc.deployer.Connect(ctx, params.Network); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", params.Network.Name, err)
	}
	if closer, ok := uc.deployer.(interface{ Close() }); ok {
		defer closer.Close()
	}

	runID := ulid.Make().String()
	state.LastRunID = runID
	state.Network = params.Network.Name
	state.DryRun = params.DryRun
	plan.Definition.Walk(func(def *ignition.ModuleDefinition) {
		state.AddModule(def.ID)
	})

	uc.log.Info("starting deployment",
		"module", plan.ModuleID,
		"deployment", deploymentID,
		"network", params.Network.Name,
		"run", runID,
		"dryRun", params.DryRun)

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StagePlanCreated,
		Total:    len(plan.Steps),
		Metadata: plan,
	})

	result := &DeployModuleResult{
		DeploymentID: deploymentID,
		RunID:        runID,
		DryRun:       params.DryRun,
		Plan:         plan,
		Success:      true,
	}

	for i, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stepResult := uc.executeStep(ctx, state, step, moduleParams, params, runID, i, len(plan.Steps))

		switch stepResult.Outcome {
		case OutcomeSkipped:
			result.Skipped = append(result.Skipped, stepResult)
			uc.progress.OnProgress(ctx, ProgressEvent{
				Stage:    StageFutureSkipped,
				Current:  i + 1,
				Total:    len(plan.Steps),
				Message:  step.FutureID,
				Metadata: stepResult,
			})
			continue
		case OutcomeDeployed:
			result.Deployed = append(result.Deployed, stepResult)
		case OutcomeFailed:
			result.Failed = stepResult
			result.Success = false
		}

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:    StageFutureCompleted,
			Current:  i + 1,
			Total:    len(plan.Steps),
			Message:  step.FutureID,
			Metadata: stepResult,
		})

		if err := uc.saveState(ctx, state, params.DryRun); err != nil {
			return nil, err
		}

		if !result.Success {
			uc.log.Error("future failed", "future", step.FutureID, "error", stepResult.Error)
			break
		}
	}

	result.Results = moduleResults(plan.Definition, state)

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageDeployCompleted,
		Current:  len(result.Deployed) + len(result.Skipped),
		Total:    len(plan.Steps),
		Metadata: result,
	})

	uc.log.Info("deployment finished",
		"deployment", deploymentID,
		"deployed", len(result.Deployed),
		"skipped", len(result.Skipped),
		"success", result.Success)

	return result, nil
}

func (uc *DeployModule) loadState(ctx context.Context, deploymentID string, params DeployModuleParams) (*models.DeploymentState, error) {
	if params.Reset && !params.DryRun {
		if err := uc.store.Delete(ctx, deploymentID); err != nil {
			return nil, fmt.Errorf("failed to reset deployment %s: %w", deploymentID, err)
		}
		uc.log.Info("deployment reset", "deployment", deploymentID)
	}

	state, err := uc.store.Load(ctx, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deployment %s: %w", deploymentID, err)
	}

	if params.Reset && params.DryRun {
		state = models.NewDeploymentState(deploymentID, params.Network.ChainID)
	}

	if state.ChainID == 0 {
		state.ChainID = params.Network.ChainID
	}
	if state.ChainID != params.Network.ChainID {
		return nil, fmt.Errorf("%w: deployment %s was made on chain %d, network %s is chain %d",
			domain.ErrNetworkMismatch, deploymentID, state.ChainID, params.Network.Name, params.Network.ChainID)
	}
	return state, nil
}

// saveState persists the journal. Dry runs never touch the store.
func (uc *DeployModule) saveState(ctx context.Context, state *models.DeploymentState, dryRun bool) error {
	if dryRun {
		return nil
	}
	state.UpdatedAt = time.Now()
	if err := uc.store.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save deployment %s: %w", state.ID, err)
	}
	return nil
}

func (uc *DeployModule) executeStep(
	ctx context.Context,
	state *models.DeploymentState,
	step *ExecutionStep,
	moduleParams ModuleParameters,
	params DeployModuleParams,
	runID string,
	index, total int,
) *FutureResult {
	result := &FutureResult{Step: step}

	fail := func(err error) *FutureResult {
		result.Outcome = OutcomeFailed
		result.Error = err
		return result
	}

	fingerprint, err := Fingerprint(step.Request, moduleParams)
	if err != nil {
		return fail(err)
	}

	previous := state.Future(step.FutureID)
	if previous != nil && previous.Status == models.FutureStatusSuccess {
		if previous.Fingerprint != fingerprint {
			// The previous record stays untouched
			return fail(domain.ReconciliationError{
				FutureID: step.FutureID,
				Previous: previous.Fingerprint,
				Current:  fingerprint,
			})
		}
		result.Outcome = OutcomeSkipped
		result.Address = previous.Address
		result.TxHash = previous.TxHash
		return result
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageFutureStarting,
		Current: index + 1,
		Total:   total,
		Message: step.FutureID,
		Spinner: true,
	})

	record := &models.FutureState{
		FutureID:     step.FutureID,
		ModuleID:     step.ModuleID,
		ContractName: step.ContractName,
		Kind:         string(step.Kind),
		Status:       models.FutureStatusPending,
		Fingerprint:  fingerprint,
		Dependencies: step.Dependencies,
		RunID:        runID,
		UpdatedAt:    time.Now(),
	}
	state.Futures[step.FutureID] = record

	recordFailure := func(err error) *FutureResult {
		record.Status = models.FutureStatusFailed
		record.Error = err.Error()
		record.UpdatedAt = time.Now()
		return fail(err)
	}

	data, err := uc.creationData(ctx, state, step, moduleParams)
	if err != nil {
		return recordFailure(err)
	}

	from := step.Request.Options.From
	if from == "" {
		from = params.From
	}
	if from == "" {
		from = params.Network.From
	}

	receipt, err := uc.deployer.Deploy(ctx, DeployRequest{
		FutureID: step.FutureID,
		From:     from,
		Data:     data,
		Value:    step.Request.Options.Value,
	})
	if err != nil {
		return recordFailure(err)
	}

	record.Status = models.FutureStatusSuccess
	record.Address = receipt.Address.Hex()
	record.TxHash = receipt.TxHash.Hex()
	record.From = receipt.From.Hex()
	record.BlockNumber = receipt.BlockNumber
	record.GasUsed = receipt.GasUsed
	record.Error = ""
	record.UpdatedAt = time.Now()

	uc.log.Debug("future deployed",
		"future", step.FutureID,
		"address", record.Address,
		"tx", record.TxHash)

	result.Outcome = OutcomeDeployed
	result.Address = record.Address
	result.TxHash = record.TxHash
	return result
}

// creationData returns linked bytecode followed by the encoded constructor args
func (uc *DeployModule) creationData(
	ctx context.Context,
	state *models.DeploymentState,
	step *ExecutionStep,
	moduleParams ModuleParameters,
) ([]byte, error) {
	artifact, err := uc.artifacts.GetArtifact(ctx, step.ContractName)
	if err != nil {
		return nil, err
	}

	lookup := func(h ignition.ContractHandle) (common.Address, error) {
		return deployedAddress(state, h.FutureID())
	}

	resolver := argumentResolver{params: moduleParams, address: lookup}
	args, err := resolver.resolve(step.Request.Args)
	if err != nil {
		return nil, err
	}

	libraries := make(map[string]common.Address, len(step.Request.Options.Libraries))
	for _, name := range sortedNames(step.Request.Options.Libraries) {
		addr, err := lookup(step.Request.Options.Libraries[name])
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", name, err)
		}
		libraries[name] = addr
	}

	bytecode, err := uc.encoder.Link(artifact, libraries)
	if err != nil {
		return nil, err
	}

	encoded, err := uc.encoder.EncodeConstructor(artifact, args)
	if err != nil {
		var mismatch domain.ArgumentMismatchError
		if errors.As(err, &mismatch) {
			mismatch.FutureID = step.FutureID
			return nil, mismatch
		}
		return nil, err
	}

	return append(bytecode, encoded...), nil
}

func deployedAddress(state *models.DeploymentState, futureID string) (common.Address, error) {
	f := state.Future(futureID)
	if f == nil || f.Status != models.FutureStatusSuccess || f.Address == "" {
		return common.Address{}, fmt.Errorf("dependency %s is not deployed", futureID)
	}
	return common.HexToAddress(f.Address), nil
}

func moduleResults(def *ignition.ModuleDefinition, state *models.DeploymentState) map[string]string {
	results := make(map[string]string, len(def.Results))
	for name, h := range def.Results {
		if f := state.Future(h.FutureID()); f != nil && f.Status == models.FutureStatusSuccess {
			results[name] = f.Address
		}
	}
	return results
}
