package ignition

import (
	"fmt"
	"math/big"
)

// RequestKind distinguishes plain contracts from linkable libraries
type RequestKind string

const (
	KindContract RequestKind = "contract"
	KindLibrary  RequestKind = "library"
)

// ContractHandle is an opaque reference to a contract that will be deployed.
// Handles are issued by a Builder and can be passed as constructor arguments,
// library links or ordering dependencies of other requests.
type ContractHandle struct {
	futureID     string
	moduleID     string
	contractName string
}

// FutureID returns the unique id of the request, e.g. "SnekModule#SnakeEggNFT"
func (h ContractHandle) FutureID() string { return h.futureID }

// ModuleID returns the id of the module that issued the handle
func (h ContractHandle) ModuleID() string { return h.moduleID }

// ContractName returns the artifact name of the contract
func (h ContractHandle) ContractName() string { return h.contractName }

// IsZero reports whether the handle was never issued by a builder
func (h ContractHandle) IsZero() bool { return h.futureID == "" }

func (h ContractHandle) String() string { return h.futureID }

// ModuleParameter is a placeholder for a value supplied at deploy time
type ModuleParameter struct {
	ModuleID     string `json:"moduleId"`
	Name         string `json:"name"`
	DefaultValue any    `json:"defaultValue,omitempty"`
}

func (p ModuleParameter) String() string {
	return fmt.Sprintf("%s.%s", p.ModuleID, p.Name)
}

// ContractOptions configures a single request. The zero value is valid.
type ContractOptions struct {
	// ID replaces the contract name in the future id
	ID string
	// Value is the amount of wei sent along with the deployment
	Value *big.Int
	// Salt is recorded with the request for deterministic deployers
	Salt string
	// From selects the sending account, defaults to the network sender
	From string
	// Libraries maps library names to the handles that satisfy their link references
	Libraries map[string]ContractHandle
	// After lists requests that must complete before this one
	After []ContractHandle
}

// ContractRequest is one instantiation request registered with a builder
type ContractRequest struct {
	FutureID     string
	ModuleID     string
	ContractName string
	Kind         RequestKind
	Args         []any
	Options      ContractOptions
}

// Dependencies returns the future ids this request depends on, in declaration order
func (r ContractRequest) Dependencies() []string {
	seen := make(map[string]bool)
	var deps []string
	add := func(h ContractHandle) {
		if h.IsZero() || seen[h.futureID] {
			return
		}
		seen[h.futureID] = true
		deps = append(deps, h.futureID)
	}

	var walk func(v any)
	walk = func(v any) {
		switch val := v.(type) {
		case ContractHandle:
			add(val)
		case []any:
			for _, item := range val {
				walk(item)
			}
		}
	}
	for _, arg := range r.Args {
		walk(arg)
	}

	for _, name := range sortedKeys(r.Options.Libraries) {
		add(r.Options.Libraries[name])
	}
	for _, h := range r.Options.After {
		add(h)
	}
	return deps
}

// Results maps logical names chosen by the descriptor author to handles
type Results map[string]ContractHandle

// Names returns the logical names in sorted order
func (r Results) Names() []string {
	return sortedKeys(r)
}
