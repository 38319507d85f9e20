package usecase

import (
	"context"
	"sort"

	"github.com/trebuchet-org/ignite/internal/domain/models"
)

// ListDeployments is the use case for listing deployment journals
type ListDeployments struct {
	store DeploymentStateStore
	sink  ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(store DeploymentStateStore, sink ProgressSink) *ListDeployments {
	if sink == nil {
		sink = NopProgress{}
	}
	return &ListDeployments{
		store: store,
		sink:  sink,
	}
}

// DeploymentSummary is one row of the deployment list
type DeploymentSummary struct {
	ID        string   `json:"id"`
	ChainID   uint64   `json:"chainId"`
	Network   string   `json:"network,omitempty"`
	Modules   []string `json:"modules"`
	Futures   int      `json:"futures"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Pending   int      `json:"pending"`
	LastRunID string   `json:"lastRunId,omitempty"`
}

// DeploymentListResult contains the listed deployments
type DeploymentListResult struct {
	Deployments []DeploymentSummary
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployments",
		Spinner: true,
	})

	ids, err := uc.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)

	result := &DeploymentListResult{Deployments: make([]DeploymentSummary, 0, len(ids))}
	for _, id := range ids {
		state, err := uc.store.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		summary := state.Summary()
		result.Deployments = append(result.Deployments, DeploymentSummary{
			ID:        id,
			ChainID:   state.ChainID,
			Network:   state.Network,
			Modules:   state.Modules,
			Futures:   len(state.Futures),
			Succeeded: summary[models.FutureStatusSuccess],
			Failed:    summary[models.FutureStatusFailed],
			Pending:   summary[models.FutureStatusPending],
			LastRunID: state.LastRunID,
		})
	}

	return result, nil
}
