package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/trebuchet-org/ignite/pkg/ignition"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicateModule is returned when two modules share an id in one run
	ErrDuplicateModule = ignition.ErrDuplicateModule

	// ErrModuleNotFound is returned when no module matches the requested id
	ErrModuleNotFound = ignition.ErrModuleNotFound

	// ErrArtifactNotFound is returned when no compiled artifact matches a contract name
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrCircularDependency is returned when futures depend on each other
	ErrCircularDependency = errors.New("circular dependency")

	// ErrUnlinkedLibrary is returned when bytecode references a library without an address
	ErrUnlinkedLibrary = errors.New("unlinked library")

	// ErrMissingParameter is returned when a parameter has neither a value nor a default
	ErrMissingParameter = errors.New("missing module parameter")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNetworkMismatch is returned when the RPC chain id differs from the configured one
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrNoNetwork is returned when a command needs a network and none was selected
	ErrNoNetwork = errors.New("no network selected")

	// ErrTransactionFailed is returned when a deployment transaction reverted
	ErrTransactionFailed = errors.New("transaction failed")
)

// ArgumentMismatchError reports constructor arguments that do not fit the ABI
type ArgumentMismatchError struct {
	FutureID string
	Reason   string
}

func (e ArgumentMismatchError) Error() string {
	return fmt.Sprintf("%s: constructor argument mismatch: %s", e.FutureID, e.Reason)
}

// ReconciliationError is returned when a future recorded as deployed no
// longer matches its declaration
type ReconciliationError struct {
	FutureID string
	Previous string
	Current  string
}

func (e ReconciliationError) Error() string {
	return fmt.Sprintf("%s was deployed with a different configuration (recorded %s, declared %s); wipe the future or use --reset",
		e.FutureID, short(e.Previous), short(e.Current))
}

// AmbiguousArtifactError is returned when a contract name matches several artifacts
type AmbiguousArtifactError struct {
	Name    string
	Matches []string
}

func (e AmbiguousArtifactError) Error() string {
	matches := make([]string, len(e.Matches))
	copy(matches, e.Matches)
	sort.Strings(matches)

	var suggestions []string
	for _, m := range matches {
		suggestions = append(suggestions, fmt.Sprintf("  - %s", m))
	}

	return fmt.Sprintf("multiple artifacts found for %s - use the fully qualified name (source.sol:Name):\n%s",
		e.Name, strings.Join(suggestions, "\n"))
}

// WipeDependentsError is returned when wiping a future would orphan futures that depend on it
type WipeDependentsError struct {
	FutureID   string
	Dependents []string
}

func (e WipeDependentsError) Error() string {
	return fmt.Sprintf("cannot wipe %s: recorded futures depend on it: %s",
		e.FutureID, strings.Join(e.Dependents, ", "))
}

func short(fingerprint string) string {
	if len(fingerprint) > 10 {
		return fingerprint[:10]
	}
	return fingerprint
}
