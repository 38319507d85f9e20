package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/ignite/internal/domain"
	"github.com/trebuchet-org/ignite/internal/domain/models"
	"github.com/trebuchet-org/ignite/internal/usecase"
	"github.com/trebuchet-org/ignite/pkg/ignition"
)

func newValidate(registry *ignition.Registry, artifacts fakeArtifacts, encoder *recordingEncoder, params fakeParameters) *usecase.ValidateModule {
	log := discardLogger()
	return usecase.NewValidateModule(usecase.NewPlanModule(registry, log), artifacts, encoder, params, log)
}

func TestValidateModule_Valid(t *testing.T) {
	encoder := newRecordingEncoder()
	uc := newValidate(newRegistry(tokenModule), fakeArtifacts{
		"SafeMath": artifact("SafeMath"),
		"Token":    artifact("Token", "SafeMath"),
		"Vault":    artifact("Vault"),
	}, encoder, nil)

	result, err := uc.Run(context.Background(), usecase.ValidateModuleParams{ModuleID: "TokenModule"})
	require.NoError(t, err)
	assert.True(t, result.Valid())
	assert.NoError(t, result.Err())
	assert.Len(t, result.Plan.Steps, 3)

	// Undeployed dependencies are validated with a stand-in address
	require.Len(t, encoder.args["Vault"], 1)
	assert.IsType(t, common.Address{}, encoder.args["Vault"][0])
}

func TestValidationIssue_Unwrap(t *testing.T) {
	issue := usecase.ValidationIssue{FutureID: "TokenModule#Vault", Err: fmt.Errorf("%w: Vault", domain.ErrArtifactNotFound)}
	assert.ErrorIs(t, issue, domain.ErrArtifactNotFound)
	assert.EqualError(t, issue, "TokenModule#Vault: artifact not found: Vault")

	mismatch := domain.ArgumentMismatchError{FutureID: "TokenModule#Token", Reason: "expected 2 arguments, got 1"}
	result := usecase.ValidationResult{Issues: []usecase.ValidationIssue{
		issue,
		{FutureID: "TokenModule#Token", Err: mismatch},
	}}
	assert.ErrorIs(t, result.Err(), domain.ErrArtifactNotFound)
	var target domain.ArgumentMismatchError
	require.ErrorAs(t, result.Err(), &target)
	assert.Equal(t, "TokenModule#Token", target.FutureID)
}

func TestValidateModule_Issues(t *testing.T) {
	ctx := context.Background()

	t.Run("missing artifact", func(t *testing.T) {
		uc := newValidate(newRegistry(tokenModule), fakeArtifacts{
			"SafeMath": artifact("SafeMath"),
			"Token":    artifact("Token", "SafeMath"),
		}, newRecordingEncoder(), nil)

		result, err := uc.Run(ctx, usecase.ValidateModuleParams{ModuleID: "TokenModule"})
		require.NoError(t, err)
		require.Len(t, result.Issues, 1)
		assert.Equal(t, "TokenModule#Vault", result.Issues[0].FutureID)
		assert.ErrorIs(t, result.Err(), domain.ErrArtifactNotFound)
	})

	t.Run("argument mismatch", func(t *testing.T) {
		encoder := newRecordingEncoder()
		encoder.failFor["Vault"] = errors.New("expected 2 arguments, got 1")
		uc := newValidate(newRegistry(tokenModule), fakeArtifacts{
			"SafeMath": artifact("SafeMath"),
			"Token":    artifact("Token", "SafeMath"),
			"Vault":    artifact("Vault"),
		}, encoder, nil)

		result, err := uc.Run(ctx, usecase.ValidateModuleParams{ModuleID: "TokenModule"})
		require.NoError(t, err)
		require.Len(t, result.Issues, 1)
		var mismatch domain.ArgumentMismatchError
		require.True(t, errors.As(result.Issues[0].Err, &mismatch))
		assert.Equal(t, "TokenModule#Vault", mismatch.FutureID)
		assert.Equal(t, "expected 2 arguments, got 1", mismatch.Reason)
	})

	t.Run("missing parameter", func(t *testing.T) {
		module := ignition.BuildModule("Param", func(m ignition.Builder) ignition.Results {
			owner := m.GetParameter("owner", nil)
			return ignition.Results{"c": m.Contract("C", []any{owner}, ignition.ContractOptions{})}
		})
		uc := newValidate(newRegistry(module), fakeArtifacts{"C": artifact("C")}, newRecordingEncoder(), nil)

		result, err := uc.Run(ctx, usecase.ValidateModuleParams{ModuleID: "Param"})
		require.NoError(t, err)
		assert.ErrorIs(t, result.Err(), domain.ErrMissingParameter)
	})

	t.Run("supplied parameter", func(t *testing.T) {
		module := ignition.BuildModule("Param", func(m ignition.Builder) ignition.Results {
			owner := m.GetParameter("owner", nil)
			return ignition.Results{"c": m.Contract("C", []any{owner}, ignition.ContractOptions{})}
		})
		encoder := newRecordingEncoder()
		uc := newValidate(newRegistry(module), fakeArtifacts{"C": artifact("C")}, encoder,
			fakeParameters{"Param": {"owner": "0xabc"}})

		result, err := uc.Run(ctx, usecase.ValidateModuleParams{ModuleID: "Param", ParametersFile: "p.yaml"})
		require.NoError(t, err)
		assert.True(t, result.Valid())
		assert.Equal(t, []any{"0xabc"}, encoder.args["C"])
	})

	t.Run("artifact checks", func(t *testing.T) {
		module := ignition.BuildModule("Checks", func(m ignition.Builder) ignition.Results {
			lib := m.Library("Lib", ignition.ContractOptions{})
			abstract := m.Contract("Abstract", nil, ignition.ContractOptions{
				Libraries: map[string]ignition.ContractHandle{"Lib": lib},
				Value:     big.NewInt(1),
			})
			return ignition.Results{"abstract": abstract}
		})
		abstract := &models.Artifact{
			ContractName: "Abstract",
			SourceName:   "contracts/Abstract.sol",
			ABI:          []byte(`[{"type":"constructor","inputs":[],"stateMutability":"nonpayable"}]`),
			Bytecode:     "0x",
		}
		uc := newValidate(newRegistry(module), fakeArtifacts{"Lib": artifact("Lib"), "Abstract": abstract}, newRecordingEncoder(), nil)

		result, err := uc.Run(ctx, usecase.ValidateModuleParams{ModuleID: "Checks"})
		require.NoError(t, err)
		require.Len(t, result.Issues, 3)
		err = result.Err()
		assert.ErrorContains(t, err, "no creation bytecode")
		assert.ErrorContains(t, err, "library Lib is not referenced")
		assert.ErrorContains(t, err, "non-payable constructor")
	})
}
