package ignition

import (
	"fmt"
	"maps"
	"math/big"
	"slices"
)

// Builder is the capability handed to a descriptor. It only registers
// requests; nothing is sent to a chain while a descriptor runs.
type Builder interface {
	// Contract requests the deployment of a contract with ordered constructor args
	Contract(name string, args []any, opts ContractOptions) ContractHandle
	// Library requests the deployment of a library that other requests can link
	Library(name string, opts ContractOptions) ContractHandle
	// GetParameter declares a deploy-time parameter with a default value
	GetParameter(name string, defaultValue any) ModuleParameter
	// UseModule evaluates another module and exposes its results
	UseModule(m *Module) Results
}

// evaluation is shared by every builder taking part in one Evaluate call so
// that a submodule used from several places is only evaluated once. Module
// ids are unique across the tree: modules maps each id to the one module
// allowed to use it.
type evaluation struct {
	modules    map[string]*Module
	done       map[string]*ModuleDefinition
	inProgress map[string]bool
}

type moduleBuilder struct {
	moduleID string
	eval     *evaluation

	requests   []ContractRequest
	futureIDs  map[string]bool
	issued     map[string]bool
	params     []ModuleParameter
	paramNames map[string]bool
	submodules []*ModuleDefinition

	sealed bool
	errs   []error
}

func newModuleBuilder(moduleID string, eval *evaluation) *moduleBuilder {
	return &moduleBuilder{
		moduleID:   moduleID,
		eval:       eval,
		futureIDs:  make(map[string]bool),
		issued:     make(map[string]bool),
		paramNames: make(map[string]bool),
	}
}

func (b *moduleBuilder) Contract(name string, args []any, opts ContractOptions) ContractHandle {
	return b.register(KindContract, name, args, opts)
}

func (b *moduleBuilder) Library(name string, opts ContractOptions) ContractHandle {
	return b.register(KindLibrary, name, nil, opts)
}

func (b *moduleBuilder) GetParameter(name string, defaultValue any) ModuleParameter {
	b.checkSealed()
	param := ModuleParameter{ModuleID: b.moduleID, Name: name, DefaultValue: defaultValue}
	if !b.paramNames[name] {
		b.paramNames[name] = true
		b.params = append(b.params, param)
	}
	return param
}

func (b *moduleBuilder) UseModule(m *Module) Results {
	b.checkSealed()
	if m == nil {
		b.errs = append(b.errs, fmt.Errorf("module %s: UseModule called with nil module", b.moduleID))
		return Results{}
	}

	def, err := m.evaluate(b.eval)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("module %s: %w", b.moduleID, err))
		return Results{}
	}

	if !slices.ContainsFunc(b.submodules, func(d *ModuleDefinition) bool { return d.ID == def.ID }) {
		b.submodules = append(b.submodules, def)
	}

	for _, h := range def.allHandles() {
		b.issued[h.futureID] = true
	}
	return maps.Clone(def.Results)
}

func (b *moduleBuilder) register(kind RequestKind, name string, args []any, opts ContractOptions) ContractHandle {
	b.checkSealed()

	if name == "" {
		b.errs = append(b.errs, fmt.Errorf("module %s: %w: empty contract name", b.moduleID, ErrInvalidRequest))
		return ContractHandle{}
	}

	suffix := name
	if opts.ID != "" {
		suffix = opts.ID
	}
	futureID := fmt.Sprintf("%s#%s", b.moduleID, suffix)
	if b.futureIDs[futureID] {
		b.errs = append(b.errs, fmt.Errorf("%w: %s (set a distinct ID option)", ErrDuplicateFuture, futureID))
		return ContractHandle{}
	}

	req := ContractRequest{
		FutureID:     futureID,
		ModuleID:     b.moduleID,
		ContractName: name,
		Kind:         kind,
		Args:         cloneArgs(args),
		Options:      cloneOptions(opts),
	}

	for _, dep := range req.Dependencies() {
		if !b.issued[dep] {
			b.errs = append(b.errs, fmt.Errorf("%s: %w: %s", futureID, ErrForeignHandle, dep))
		}
	}

	b.futureIDs[futureID] = true
	b.requests = append(b.requests, req)

	b.issued[futureID] = true
	return ContractHandle{futureID: futureID, moduleID: b.moduleID, contractName: name}
}

func (b *moduleBuilder) checkSealed() {
	if b.sealed {
		panic(fmt.Errorf("module %s: %w", b.moduleID, ErrBuilderSealed))
	}
}

func cloneArgs(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		if nested, ok := arg.([]any); ok {
			out[i] = cloneArgs(nested)
			continue
		}
		out[i] = arg
	}
	return out
}

func cloneOptions(opts ContractOptions) ContractOptions {
	out := opts
	if opts.Value != nil {
		out.Value = new(big.Int).Set(opts.Value)
	}
	if opts.Libraries != nil {
		out.Libraries = maps.Clone(opts.Libraries)
	}
	if opts.After != nil {
		out.After = slices.Clone(opts.After)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
