package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/ignite/internal/domain"
	"github.com/trebuchet-org/ignite/internal/domain/models"
	"github.com/trebuchet-org/ignite/internal/usecase"
	"github.com/trebuchet-org/ignite/pkg/ignition"
)

const (
	libAddr   = "0x1111111111111111111111111111111111111111"
	tokenAddr = "0x2222222222222222222222222222222222222222"
	vaultAddr = "0x3333333333333333333333333333333333333333"
)

var tokenModule = ignition.BuildModule("TokenModule", func(m ignition.Builder) ignition.Results {
	lib := m.Library("SafeMath", ignition.ContractOptions{})
	supply := m.GetParameter("supply", 1000)
	tok := m.Contract("Token", []any{"T", supply}, ignition.ContractOptions{
		Libraries: map[string]ignition.ContractHandle{"SafeMath": lib},
	})
	vault := m.Contract("Vault", []any{tok}, ignition.ContractOptions{})
	return ignition.Results{"token": tok, "vault": vault}
})

type deployFixture struct {
	store    *memStore
	encoder  *recordingEncoder
	sink     *recordingSink
	registry *ignition.Registry
}

func newDeployFixture() *deployFixture {
	return &deployFixture{
		store:    newMemStore(),
		encoder:  newRecordingEncoder(),
		sink:     &recordingSink{},
		registry: newRegistry(tokenModule),
	}
}

func (f *deployFixture) useCase(deployer usecase.ContractDeployer, params fakeParameters) *usecase.DeployModule {
	log := discardLogger()
	return usecase.NewDeployModule(
		usecase.NewPlanModule(f.registry, log),
		fakeArtifacts{
			"SafeMath": artifact("SafeMath"),
			"Token":    artifact("Token", "SafeMath"),
			"Vault":    artifact("Vault"),
		},
		f.encoder,
		f.store,
		deployer,
		params,
		f.sink,
		log,
	)
}

func forFuture(id string) any {
	return mock.MatchedBy(func(req usecase.DeployRequest) bool { return req.FutureID == id })
}

func connectedDeployer() *MockDeployer {
	deployer := new(MockDeployer)
	deployer.On("Connect", mock.Anything, mock.Anything).Return(nil)
	return deployer
}

func fullDeployer() *MockDeployer {
	deployer := connectedDeployer()
	deployer.On("Deploy", mock.Anything, forFuture("TokenModule#SafeMath")).Return(receipt(libAddr, 1), nil).Once()
	deployer.On("Deploy", mock.Anything, forFuture("TokenModule#Token")).Return(receipt(tokenAddr, 2), nil).Once()
	deployer.On("Deploy", mock.Anything, forFuture("TokenModule#Vault")).Return(receipt(vaultAddr, 3), nil).Once()
	return deployer
}

func TestDeployModule_FreshDeployment(t *testing.T) {
	ctx := context.Background()
	f := newDeployFixture()
	deployer := fullDeployer()

	result, err := f.useCase(deployer, nil).Run(ctx, usecase.DeployModuleParams{
		ModuleID: "TokenModule",
		Network:  testNetwork(),
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "chain-31337", result.DeploymentID)
	assert.NotEmpty(t, result.RunID)
	assert.Len(t, result.Deployed, 3)
	assert.Empty(t, result.Skipped)
	assert.Nil(t, result.Failed)
	assert.Equal(t, map[string]string{
		"token": common.HexToAddress(tokenAddr).Hex(),
		"vault": common.HexToAddress(vaultAddr).Hex(),
	}, result.Results)

	// Handles and parameters are resolved before encoding
	assert.Equal(t, []any{"T", 1000}, f.encoder.args["Token"])
	assert.Equal(t, []any{common.HexToAddress(tokenAddr)}, f.encoder.args["Vault"])
	assert.Equal(t, common.HexToAddress(libAddr), f.encoder.libraries["Token"]["SafeMath"])

	state, err := f.store.Load(ctx, "chain-31337")
	require.NoError(t, err)
	assert.Equal(t, uint64(31337), state.ChainID)
	assert.Equal(t, "localhost", state.Network)
	assert.Equal(t, []string{"TokenModule"}, state.Modules)
	require.Len(t, state.Futures, 3)
	for _, future := range state.Futures {
		assert.Equal(t, models.FutureStatusSuccess, future.Status)
		assert.Equal(t, result.RunID, future.RunID)
		assert.NotEmpty(t, future.Fingerprint)
	}
	assert.Equal(t, []string{"TokenModule#Token"}, state.Future("TokenModule#Vault").Dependencies)

	assert.Equal(t, []string{
		usecase.StagePlanCreated,
		usecase.StageFutureStarting, usecase.StageFutureCompleted,
		usecase.StageFutureStarting, usecase.StageFutureCompleted,
		usecase.StageFutureStarting, usecase.StageFutureCompleted,
		usecase.StageDeployCompleted,
	}, f.sink.stages)

	deployer.AssertExpectations(t)
}

func TestDeployModule_RerunSkipsDeployedFutures(t *testing.T) {
	ctx := context.Background()
	f := newDeployFixture()

	_, err := f.useCase(fullDeployer(), nil).Run(ctx, usecase.DeployModuleParams{ModuleID: "TokenModule", Network: testNetwork()})
	require.NoError(t, err)

	deployer := connectedDeployer()
	result, err := f.useCase(deployer, nil).Run(ctx, usecase.DeployModuleParams{ModuleID: "TokenModule", Network: testNetwork()})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.Deployed)
	assert.Len(t, result.Skipped, 3)
	assert.Equal(t, common.HexToAddress(vaultAddr).Hex(), result.Results["vault"])
	deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
}

func TestDeployModule_ChangedDeclaration(t *testing.T) {
	ctx := context.Background()
	f := newDeployFixture()

	_, err := f.useCase(fullDeployer(), nil).Run(ctx, usecase.DeployModuleParams{ModuleID: "TokenModule", Network: testNetwork()})
	require.NoError(t, err)
	before, err := f.store.Load(ctx, "chain-31337")
	require.NoError(t, err)

	deployer := connectedDeployer()
	params := fakeParameters{"TokenModule": {"supply": 2000}}
	result, err := f.useCase(deployer, params).Run(ctx, usecase.DeployModuleParams{
		ModuleID:       "TokenModule",
		Network:        testNetwork(),
		ParametersFile: "params.json",
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.NotNil(t, result.Failed)
	assert.Equal(t, "TokenModule#Token", result.Failed.Step.FutureID)
	var reconciliation domain.ReconciliationError
	require.True(t, errors.As(result.Failed.Error, &reconciliation))
	assert.Equal(t, "TokenModule#Token", reconciliation.FutureID)
	assert.Len(t, result.Skipped, 1)

	after, err := f.store.Load(ctx, "chain-31337")
	require.NoError(t, err)
	assert.Equal(t, *before.Future("TokenModule#Token"), *after.Future("TokenModule#Token"))
	deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
}

func TestDeployModule_FailureStopsAndResumes(t *testing.T) {
	ctx := context.Background()
	f := newDeployFixture()

	deployer := connectedDeployer()
	deployer.On("Deploy", mock.Anything, forFuture("TokenModule#SafeMath")).Return(receipt(libAddr, 1), nil).Once()
	deployer.On("Deploy", mock.Anything, forFuture("TokenModule#Token")).Return(nil, domain.ErrTransactionFailed).Once()

	result, err := f.useCase(deployer, nil).Run(ctx, usecase.DeployModuleParams{ModuleID: "TokenModule", Network: testNetwork()})
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.NotNil(t, result.Failed)
	assert.ErrorIs(t, result.Failed.Error, domain.ErrTransactionFailed)
	assert.Len(t, result.Deployed, 1)
	assert.NotContains(t, result.Results, "token")

	state, err := f.store.Load(ctx, "chain-31337")
	require.NoError(t, err)
	assert.Equal(t, models.FutureStatusFailed, state.Future("TokenModule#Token").Status)
	assert.NotEmpty(t, state.Future("TokenModule#Token").Error)
	assert.Nil(t, state.Future("TokenModule#Vault"))

	retry := connectedDeployer()
	retry.On("Deploy", mock.Anything, forFuture("TokenModule#Token")).Return(receipt(tokenAddr, 2), nil).Once()
	retry.On("Deploy", mock.Anything, forFuture("TokenModule#Vault")).Return(receipt(vaultAddr, 3), nil).Once()

	result, err = f.useCase(retry, nil).Run(ctx, usecase.DeployModuleParams{ModuleID: "TokenModule", Network: testNetwork()})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.Skipped, 1)
	assert.Len(t, result.Deployed, 2)
	retry.AssertExpectations(t)
}

func TestDeployModule_DryRunDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	f := newDeployFixture()

	result, err := f.useCase(fullDeployer(), nil).Run(ctx, usecase.DeployModuleParams{
		ModuleID: "TokenModule",
		Network:  testNetwork(),
		DryRun:   true,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.DryRun)
	assert.Equal(t, 0, f.store.saves)

	ids, err := f.store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDeployModule_Reset(t *testing.T) {
	ctx := context.Background()
	f := newDeployFixture()

	_, err := f.useCase(fullDeployer(), nil).Run(ctx, usecase.DeployModuleParams{ModuleID: "TokenModule", Network: testNetwork()})
	require.NoError(t, err)

	deployer := fullDeployer()
	result, err := f.useCase(deployer, nil).Run(ctx, usecase.DeployModuleParams{
		ModuleID: "TokenModule",
		Network:  testNetwork(),
		Reset:    true,
	})
	require.NoError(t, err)
	assert.Len(t, result.Deployed, 3)
	deployer.AssertExpectations(t)
}

func TestDeployModule_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("no network", func(t *testing.T) {
		f := newDeployFixture()
		_, err := f.useCase(connectedDeployer(), nil).Run(ctx, usecase.DeployModuleParams{ModuleID: "TokenModule"})
		assert.ErrorIs(t, err, domain.ErrNoNetwork)
	})

	t.Run("unknown module", func(t *testing.T) {
		f := newDeployFixture()
		_, err := f.useCase(connectedDeployer(), nil).Run(ctx, usecase.DeployModuleParams{ModuleID: "Nope", Network: testNetwork()})
		assert.ErrorIs(t, err, domain.ErrModuleNotFound)
	})

	t.Run("chain mismatch", func(t *testing.T) {
		f := newDeployFixture()
		require.NoError(t, f.store.Save(ctx, models.NewDeploymentState("chain-31337", 1)))

		_, err := f.useCase(connectedDeployer(), nil).Run(ctx, usecase.DeployModuleParams{ModuleID: "TokenModule", Network: testNetwork()})
		assert.ErrorIs(t, err, domain.ErrNetworkMismatch)
	})

	t.Run("connect failure", func(t *testing.T) {
		f := newDeployFixture()
		deployer := new(MockDeployer)
		deployer.On("Connect", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		_, err := f.useCase(deployer, nil).Run(ctx, usecase.DeployModuleParams{ModuleID: "TokenModule", Network: testNetwork()})
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("argument mismatch names the future", func(t *testing.T) {
		f := newDeployFixture()
		f.encoder.failFor["SafeMath"] = domain.ArgumentMismatchError{Reason: "expected 0 arguments, got 1"}

		result, err := f.useCase(connectedDeployer(), nil).Run(ctx, usecase.DeployModuleParams{ModuleID: "TokenModule", Network: testNetwork()})
		require.NoError(t, err)
		require.NotNil(t, result.Failed)
		var mismatch domain.ArgumentMismatchError
		require.True(t, errors.As(result.Failed.Error, &mismatch))
		assert.Equal(t, "TokenModule#SafeMath", mismatch.FutureID)
	})
}
