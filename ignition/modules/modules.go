// Package modules contains the deployment modules of the project. Each
// module is a pure descriptor evaluated by the ignite engine.
package modules

import "github.com/trebuchet-org/ignite/pkg/ignition"

// All returns every module of the project
func All() []*ignition.Module {
	return []*ignition.Module{
		CompoundModule,
		SnekModule,
	}
}

// Register adds all project modules to the registry
func Register(reg *ignition.Registry) error {
	return reg.Register(All()...)
}
