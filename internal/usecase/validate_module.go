package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/ignite/internal/domain"
	"github.com/trebuchet-org/ignite/internal/domain/models"
)

// ValidateModule checks a module against the compiled artifacts without
// sending anything to a network
type ValidateModule struct {
	planner   *PlanModule
	artifacts ArtifactRepository
	encoder   ConstructorEncoder
	params    ParameterSource
	log       *slog.Logger
}

// NewValidateModule creates a new validate use case
func NewValidateModule(
	planner *PlanModule,
	artifacts ArtifactRepository,
	encoder ConstructorEncoder,
	params ParameterSource,
	log *slog.Logger,
) *ValidateModule {
	return &ValidateModule{
		planner:   planner,
		artifacts: artifacts,
		encoder:   encoder,
		params:    params,
		log:       log,
	}
}

// ValidateModuleParams contains parameters for validation
type ValidateModuleParams struct {
	ModuleID       string
	ParametersFile string
}

// ValidationIssue describes a problem with one future
type ValidationIssue struct {
	FutureID string
	Err      error
}

func (i ValidationIssue) Error() string {
	return fmt.Sprintf("%s: %v", i.FutureID, i.Err)
}

func (i ValidationIssue) Unwrap() error {
	return i.Err
}

// ValidationResult contains the plan and every issue found
type ValidationResult struct {
	Plan   *ExecutionPlan
	Issues []ValidationIssue
}

// Valid reports whether no issue was found
func (r *ValidationResult) Valid() bool {
	return len(r.Issues) == 0
}

// Err joins all issues into a single error, nil when valid
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	errs := make([]error, len(r.Issues))
	for i, issue := range r.Issues {
		errs[i] = issue
	}
	return errors.Join(errs...)
}

// Run validates every future of the module tree
func (uc *ValidateModule) Run(ctx context.Context, params ValidateModuleParams) (*ValidationResult, error) {
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

	result := &ValidationResult{Plan: plan}
	for _, step := range plan.Steps {
		for _, issueErr := range uc.validateStep(ctx, step, moduleParams) {
			result.Issues = append(result.Issues, ValidationIssue{FutureID: step.FutureID, Err: issueErr})
		}
	}

	uc.log.Debug("module validated", "module", plan.ModuleID, "issues", len(result.Issues))
	return result, nil
}

func (uc *ValidateModule) validateStep(ctx context.Context, step *ExecutionStep, params ModuleParameters) []error {
	artifact, err := uc.artifacts.GetArtifact(ctx, step.ContractName)
	if err != nil {
		return []error{err}
	}

	var issues []error
	issues = append(issues, checkArtifact(step, artifact)...)

	resolver := argumentResolver{params: params, address: placeholderAddress}
	args, err := resolver.resolve(step.Request.Args)
	if err != nil {
		return append(issues, err)
	}

	if _, err := uc.encoder.EncodeConstructor(artifact, args); err != nil {
		issues = append(issues, domain.ArgumentMismatchError{FutureID: step.FutureID, Reason: unwrapMismatch(err)})
	}

	libraries := make(map[string]common.Address)
	for name := range step.Request.Options.Libraries {
		libraries[name] = placeholder
	}
	if _, err := uc.encoder.Link(artifact, libraries); err != nil {
		issues = append(issues, err)
	}

	return issues
}

// checkArtifact verifies properties that do not depend on argument values
func checkArtifact(step *ExecutionStep, artifact *models.Artifact) []error {
	var issues []error

	if !artifact.IsDeployable() {
		issues = append(issues, fmt.Errorf("%s has no creation bytecode (abstract contract or interface)", artifact.ContractName))
	}

	required := artifact.Libraries()
	for _, name := range sortedNames(step.Request.Options.Libraries) {
		if !lo.Contains(required, name) {
			issues = append(issues, fmt.Errorf("library %s is not referenced by %s", name, artifact.ContractName))
		}
	}

	if v := step.Request.Options.Value; v != nil && v.Sign() > 0 {
		parsed, err := artifact.ParsedABI()
		if err != nil {
			return append(issues, err)
		}
		if !parsed.Constructor.IsPayable() {
			issues = append(issues, fmt.Errorf("value %s sent to non-payable constructor of %s", v, artifact.ContractName))
		}
	}

	return issues
}

func unwrapMismatch(err error) string {
	var mismatch domain.ArgumentMismatchError
	if errors.As(err, &mismatch) {
		return mismatch.Reason
	}
	return err.Error()
}

func sortedNames[V any](m map[string]V) []string {
	names := lo.Keys(m)
	sort.Strings(names)
	return names
}
