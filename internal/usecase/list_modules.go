package usecase

import (
	"context"
	"fmt"
)

// ListModules describes every registered module
type ListModules struct {
	registry ModuleRegistry
}

// NewListModules creates a new list modules use case
func NewListModules(registry ModuleRegistry) *ListModules {
	return &ListModules{registry: registry}
}

// ModuleSummary is the description of one module
type ModuleSummary struct {
	ID         string   `json:"id"`
	Futures    []string `json:"futures"`
	Results    []string `json:"results"`
	Parameters []string `json:"parameters,omitempty"`
	Submodules []string `json:"submodules,omitempty"`
}

// Run evaluates every module and summarizes it
func (uc *ListModules) Run(ctx context.Context) ([]ModuleSummary, error) {
	modules := uc.registry.List()
	summaries := make([]ModuleSummary, 0, len(modules))

	for _, m := range modules {
		def, err := m.Evaluate()
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate module %s: %w", m.ID(), err)
		}

		summary := ModuleSummary{
			ID:      def.ID,
			Results: def.Results.Names(),
		}
		for _, req := range def.Requests {
			summary.Futures = append(summary.Futures, req.FutureID)
		}
		for _, p := range def.Parameters {
			summary.Parameters = append(summary.Parameters, p.String())
		}
		for _, sub := range def.Submodules {
			summary.Submodules = append(summary.Submodules, sub.ID)
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
