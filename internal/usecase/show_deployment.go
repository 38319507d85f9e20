package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/trebuchet-org/ignite/internal/domain"
	"github.com/trebuchet-org/ignite/internal/domain/models"
)

// ShowDeploymentParams contains parameters for showing a deployment
type ShowDeploymentParams struct {
	DeploymentID string
}

// ShowDeployment is the use case for showing a deployment journal
type ShowDeployment struct {
	store DeploymentStateStore
	sink  ProgressSink
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(store DeploymentStateStore, sink ProgressSink) *ShowDeployment {
	if sink == nil {
		sink = NopProgress{}
	}
	return &ShowDeployment{
		store: store,
		sink:  sink,
	}
}

// DeploymentDetails is a journal prepared for display
type DeploymentDetails struct {
	State   *models.DeploymentState
	Futures []*models.FutureState
	// ByModule groups future ids by module id
	ByModule map[string][]string
	Summary  map[models.FutureStatus]int
}

// Run executes the show deployment use case
func (uc *ShowDeployment) Run(ctx context.Context, params ShowDeploymentParams) (*DeploymentDetails, error) {
	if params.DeploymentID == "" {
		return nil, fmt.Errorf("deployment id is required")
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployment " + params.DeploymentID,
		Spinner: true,
	})

	state, err := uc.store.Load(ctx, params.DeploymentID)
	if err != nil {
		return nil, err
	}
	if state.IsEmpty() {
		return nil, fmt.Errorf("deployment %s: %w", params.DeploymentID, domain.ErrNotFound)
	}

	details := &DeploymentDetails{
		State:    state,
		Futures:  state.SortedFutures(),
		ByModule: make(map[string][]string),
		Summary:  state.Summary(),
	}
	for _, f := range details.Futures {
		details.ByModule[f.ModuleID] = append(details.ByModule[f.ModuleID], f.FutureID)
	}
	for _, ids := range details.ByModule {
		sort.Strings(ids)
	}

	return details, nil
}
