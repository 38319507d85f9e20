package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/ignite/internal/domain"
	"github.com/trebuchet-org/ignite/pkg/ignition"
)

// PlanModule evaluates a module and linearizes its futures
type PlanModule struct {
	registry ModuleRegistry
	log      *slog.Logger
}

// NewPlanModule creates a new plan use case
func NewPlanModule(registry ModuleRegistry, log *slog.Logger) *PlanModule {
	return &PlanModule{registry: registry, log: log}
}

// PlanModuleParams contains parameters for planning
type PlanModuleParams struct {
	ModuleID string
}

// ExecutionPlan represents the linearized execution plan of a module tree
type ExecutionPlan struct {
	ModuleID   string
	Definition *ignition.ModuleDefinition
	Steps      []*ExecutionStep
	// Batches groups future ids whose dependencies all live in earlier batches
	Batches [][]string
}

// ExecutionStep represents a single future in the execution plan
type ExecutionStep struct {
	FutureID     string
	ModuleID     string
	ContractName string
	Kind         ignition.RequestKind
	Request      ignition.ContractRequest
	Dependencies []string
	Batch        int
}

// Step returns the step for a future id
func (p *ExecutionPlan) Step(futureID string) *ExecutionStep {
	step, _ := lo.Find(p.Steps, func(s *ExecutionStep) bool { return s.FutureID == futureID })
	return step
}

// Run evaluates the module and creates its execution plan
func (uc *PlanModule) Run(ctx context.Context, params PlanModuleParams) (*ExecutionPlan, error) {
	module, err := uc.registry.Get(params.ModuleID)
	if err != nil {
		return nil, err
	}

	def, err := module.Evaluate()
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate module %s: %w", module.ID(), err)
	}

	plan, err := BuildExecutionPlan(def)
	if err != nil {
		return nil, fmt.Errorf("failed to create execution plan for %s: %w", module.ID(), err)
	}

	uc.log.Debug("execution plan created",
		"module", plan.ModuleID,
		"futures", len(plan.Steps),
		"batches", len(plan.Batches))

	return plan, nil
}

// BuildExecutionPlan creates a deterministic execution plan from an evaluated module
func BuildExecutionPlan(def *ignition.ModuleDefinition) (*ExecutionPlan, error) {
	graph := NewDependencyGraph(def.AllRequests())
	steps, err := graph.TopologicalSort()
	if err != nil {
		return nil, err
	}

	return &ExecutionPlan{
		ModuleID:   def.ID,
		Definition: def,
		Steps:      steps,
		Batches:    batchSteps(steps),
	}, nil
}

// DependencyGraph represents a directed acyclic graph of futures
type DependencyGraph struct {
	nodes map[string]ignition.ContractRequest
	edges map[string][]string // adjacency list: node -> list of dependents
}

// NewDependencyGraph creates a new dependency graph from contract requests
func NewDependencyGraph(requests []ignition.ContractRequest) *DependencyGraph {
	graph := &DependencyGraph{
		nodes: make(map[string]ignition.ContractRequest, len(requests)),
		edges: make(map[string][]string),
	}

	for _, req := range requests {
		graph.nodes[req.FutureID] = req
	}

	for _, req := range requests {
		for _, dep := range req.Dependencies() {
			// Missing dependencies are reported by TopologicalSort
			if _, exists := graph.nodes[dep]; !exists {
				continue
			}
			graph.edges[dep] = append(graph.edges[dep], req.FutureID)
		}
	}

	return graph
}

// TopologicalSort performs a topological sort on the dependency graph
// Returns the futures in execution order, or an error if there's a cycle
func (g *DependencyGraph) TopologicalSort() ([]*ExecutionStep, error) {
	inDegree := make(map[string]int)
	for id := range g.nodes {
		inDegree[id] = 0
	}

	for id, req := range g.nodes {
		for _, dep := range req.Dependencies() {
			if _, exists := g.nodes[dep]; !exists {
				return nil, fmt.Errorf("future '%s' depends on unknown future '%s'", id, dep)
			}
			inDegree[id]++
		}
	}

	// Initialize queue with futures that have no dependencies
	var queue []string
	for id, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	var result []*ExecutionStep
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		req := g.nodes[current]
		result = append(result, &ExecutionStep{
			FutureID:     req.FutureID,
			ModuleID:     req.ModuleID,
			ContractName: req.ContractName,
			Kind:         req.Kind,
			Request:      req,
			Dependencies: req.Dependencies(),
		})

		dependents := g.edges[current]
		sort.Strings(dependents)
		for _, dependent := range dependents {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
				// Keep queue sorted for deterministic output
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var cycle []string
		for id, degree := range inDegree {
			if degree > 0 {
				cycle = append(cycle, id)
			}
		}
		sort.Strings(cycle)
		return nil, fmt.Errorf("%w involving futures: %v", domain.ErrCircularDependency, cycle)
	}

	return result, nil
}

// batchSteps assigns each step to the first batch after all of its dependencies
func batchSteps(steps []*ExecutionStep) [][]string {
	batchOf := make(map[string]int, len(steps))
	var batches [][]string

	for _, step := range steps {
		batch := 0
		for _, dep := range step.Dependencies {
			if b, ok := batchOf[dep]; ok && b+1 > batch {
				batch = b + 1
			}
		}
		step.Batch = batch
		batchOf[step.FutureID] = batch

		for len(batches) <= batch {
			batches = append(batches, nil)
		}
		batches[batch] = append(batches[batch], step.FutureID)
	}

	for _, batch := range batches {
		sort.Strings(batch)
	}
	return batches
}
