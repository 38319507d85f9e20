package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/trebuchet-org/ignite/internal/domain"
)

// WipeFuture removes futures from a deployment journal so that the next
// deploy sends them again
type WipeFuture struct {
	store    DeploymentStateStore
	selector FutureSelector
	log      *slog.Logger
}

// NewWipeFuture creates a new wipe use case
func NewWipeFuture(store DeploymentStateStore, selector FutureSelector, log *slog.Logger) *WipeFuture {
	return &WipeFuture{store: store, selector: selector, log: log}
}

// WipeFutureParams contains parameters for wiping
type WipeFutureParams struct {
	DeploymentID string
	FutureIDs    []string
	// Interactive asks the selector when no future id is given
	Interactive bool
}

// WipeFutureResult lists the removed futures
type WipeFutureResult struct {
	DeploymentID string   `json:"deploymentId"`
	Wiped        []string `json:"wiped"`
}

// Run removes the futures, refusing when a remaining future depends on one of them
func (uc *WipeFuture) Run(ctx context.Context, params WipeFutureParams) (*WipeFutureResult, error) {
	state, err := uc.store.Load(ctx, params.DeploymentID)
	if err != nil {
		return nil, err
	}
	if state.IsEmpty() {
		return nil, fmt.Errorf("deployment %s: %w", params.DeploymentID, domain.ErrNotFound)
	}

	futureIDs := lo.Uniq(params.FutureIDs)
	if len(futureIDs) == 0 {
		if !params.Interactive || uc.selector == nil {
			return nil, fmt.Errorf("no future id given")
		}
		selected, err := uc.selector.SelectFutures(ctx, state.SortedFutures(), "Select futures to wipe")
		if err != nil {
			return nil, err
		}
		for _, f := range selected {
			futureIDs = append(futureIDs, f.FutureID)
		}
		if len(futureIDs) == 0 {
			return &WipeFutureResult{DeploymentID: params.DeploymentID}, nil
		}
	}

	for _, id := range futureIDs {
		if state.Future(id) == nil {
			return nil, fmt.Errorf("future %s in deployment %s: %w", id, params.DeploymentID, domain.ErrNotFound)
		}
	}

	for _, id := range futureIDs {
		remaining := lo.Filter(state.Dependents(id), func(dep string, _ int) bool {
			return !lo.Contains(futureIDs, dep)
		})
		if len(remaining) > 0 {
			return nil, domain.WipeDependentsError{FutureID: id, Dependents: remaining}
		}
	}

	for _, id := range futureIDs {
		state.RemoveFuture(id)
	}

	if state.IsEmpty() {
		err = uc.store.Delete(ctx, params.DeploymentID)
	} else {
		err = uc.store.Save(ctx, state)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update deployment %s: %w", params.DeploymentID, err)
	}

	uc.log.Info("futures wiped", "deployment", params.DeploymentID, "futures", futureIDs)
	return &WipeFutureResult{DeploymentID: params.DeploymentID, Wiped: futureIDs}, nil
}
