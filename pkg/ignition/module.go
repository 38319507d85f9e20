package ignition

import (
	"errors"
	"fmt"
	"maps"
)

// DescriptorFunc declares the contracts of a module through the builder and
// returns the handles it wants to expose
type DescriptorFunc func(m Builder) Results

// Module is a named, pure declaration of contracts to deploy
type Module struct {
	id string
	fn DescriptorFunc
}

// BuildModule creates a module. The descriptor is not run until Evaluate.
func BuildModule(id string, fn DescriptorFunc) *Module {
	return &Module{id: id, fn: fn}
}

// ID returns the module id
func (m *Module) ID() string { return m.id }

// ModuleDefinition is the result of evaluating a module descriptor
type ModuleDefinition struct {
	ID         string
	Requests   []ContractRequest
	Results    Results
	Parameters []ModuleParameter
	Submodules []*ModuleDefinition
}

// Evaluate runs the descriptor against a fresh builder and returns the
// requests it registered. Evaluating twice yields identical definitions.
func (m *Module) Evaluate() (*ModuleDefinition, error) {
	return m.evaluate(&evaluation{
		modules:    make(map[string]*Module),
		done:       make(map[string]*ModuleDefinition),
		inProgress: make(map[string]bool),
	})
}

func (m *Module) evaluate(eval *evaluation) (*ModuleDefinition, error) {
	if m.id == "" {
		return nil, fmt.Errorf("module id must not be empty")
	}
	if m.fn == nil {
		return nil, fmt.Errorf("module %s has no descriptor function", m.id)
	}
	if owner, ok := eval.modules[m.id]; ok && owner != m {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateModule, m.id)
	}
	eval.modules[m.id] = m
	if def, ok := eval.done[m.id]; ok {
		return def, nil
	}
	if eval.inProgress[m.id] {
		return nil, fmt.Errorf("%w: %s", ErrCircularModuleUse, m.id)
	}
	eval.inProgress[m.id] = true
	defer delete(eval.inProgress, m.id)

	b := newModuleBuilder(m.id, eval)
	results := m.fn(b)
	b.sealed = true

	for _, name := range results.Names() {
		h := results[name]
		if h.IsZero() || !b.issued[h.futureID] {
			b.errs = append(b.errs, fmt.Errorf("module %s result %q: %w", m.id, name, ErrForeignHandle))
		}
	}

	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	def := &ModuleDefinition{
		ID:         m.id,
		Requests:   b.requests,
		Results:    maps.Clone(results),
		Parameters: b.params,
		Submodules: b.submodules,
	}
	if def.Results == nil {
		def.Results = Results{}
	}
	eval.done[m.id] = def
	return def, nil
}

// Walk visits the definition and its submodules depth-first, submodules
// first, each module exactly once
func (d *ModuleDefinition) Walk(visit func(*ModuleDefinition)) {
	seen := make(map[string]bool)
	var walk func(*ModuleDefinition)
	walk = func(def *ModuleDefinition) {
		if seen[def.ID] {
			return
		}
		seen[def.ID] = true
		for _, sub := range def.Submodules {
			walk(sub)
		}
		visit(def)
	}
	walk(d)
}

// AllRequests returns the requests of the module and every submodule
func (d *ModuleDefinition) AllRequests() []ContractRequest {
	var all []ContractRequest
	d.Walk(func(def *ModuleDefinition) {
		all = append(all, def.Requests...)
	})
	return all
}

// AllParameters returns the parameters declared by the module tree
func (d *ModuleDefinition) AllParameters() []ModuleParameter {
	var all []ModuleParameter
	d.Walk(func(def *ModuleDefinition) {
		all = append(all, def.Parameters...)
	})
	return all
}

func (d *ModuleDefinition) allHandles() []ContractHandle {
	var handles []ContractHandle
	for _, req := range d.AllRequests() {
		handles = append(handles, ContractHandle{
			futureID:     req.FutureID,
			moduleID:     req.ModuleID,
			contractName: req.ContractName,
		})
	}
	return handles
}
