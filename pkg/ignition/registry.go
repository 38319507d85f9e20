package ignition

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry holds the modules known to a deployment run
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// Register adds modules to the registry. Module ids are unique. The batch is
// validated as a whole so a failed call registers nothing.
func (r *Registry) Register(modules ...*Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make(map[string]bool, len(modules))
	for _, m := range modules {
		if m == nil || m.id == "" {
			return fmt.Errorf("cannot register a module without id")
		}
		if _, exists := r.modules[m.id]; exists || batch[m.id] {
			return fmt.Errorf("%w: %s", ErrDuplicateModule, m.id)
		}
		batch[m.id] = true
	}
	for _, m := range modules {
		r.modules[m.id] = m
	}
	return nil
}

// Get returns the module with the given id. Lookup is case-insensitive when
// no exact match exists.
func (r *Registry) Get(id string) (*Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if m, ok := r.modules[id]; ok {
		return m, nil
	}
	for _, key := range sortedKeys(r.modules) {
		if strings.EqualFold(key, id) {
			return r.modules[key], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, id)
}

// List returns all modules sorted by id
func (r *Registry) List() []*Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modules := make([]*Module, 0, len(r.modules))
	for _, m := range r.modules {
		modules = append(modules, m)
	}
	slices.SortFunc(modules, func(a, b *Module) int {
		return strings.Compare(a.id, b.id)
	})
	return modules
}
