package ignition

import "errors"

var (
	// ErrDuplicateModule is returned when two modules share an id within a registry
	ErrDuplicateModule = errors.New("duplicate module id")

	// ErrModuleNotFound is returned when a registry has no module with the given id
	ErrModuleNotFound = errors.New("module not found")

	// ErrDuplicateFuture is returned when a module registers the same future id twice
	ErrDuplicateFuture = errors.New("duplicate future id")

	// ErrForeignHandle is returned when a handle was not issued by the module's builder
	ErrForeignHandle = errors.New("handle not issued by this module")

	// ErrBuilderSealed is raised when a builder is used after its descriptor returned
	ErrBuilderSealed = errors.New("builder used outside of module evaluation")

	// ErrInvalidRequest is returned for requests without a contract name
	ErrInvalidRequest = errors.New("invalid contract request")

	// ErrCircularModuleUse is returned when a module (transitively) uses itself
	ErrCircularModuleUse = errors.New("circular module use")
)
