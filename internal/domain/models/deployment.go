package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// FutureStatus represents the execution status of a future
type FutureStatus string

const (
	FutureStatusPending FutureStatus = "PENDING"
	FutureStatusSuccess FutureStatus = "SUCCESS"
	FutureStatusFailed  FutureStatus = "FAILED"
)

// FutureState is the journal record of one contract request
type FutureState struct {
	FutureID     string       `json:"futureId"`
	ModuleID     string       `json:"moduleId"`
	ContractName string       `json:"contractName"`
	Kind         string       `json:"kind"`
	Status       FutureStatus `json:"status"`
	Fingerprint  string       `json:"fingerprint"`
	Dependencies []string     `json:"dependencies,omitempty"`

	// Execution results
	Address     string `json:"address,omitempty"`
	TxHash      string `json:"txHash,omitempty"`
	From        string `json:"from,omitempty"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
	GasUsed     uint64 `json:"gasUsed,omitempty"`
	Error       string `json:"error,omitempty"`

	RunID     string    `json:"runId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DeploymentState is the journal of a deployment id, e.g. "chain-31337"
type DeploymentState struct {
	ID        string                  `json:"id"`
	ChainID   uint64                  `json:"chainId"`
	Network   string                  `json:"network,omitempty"`
	Modules   []string                `json:"modules"`
	Futures   map[string]*FutureState `json:"futures"`
	LastRunID string                  `json:"lastRunId,omitempty"`
	DryRun    bool                    `json:"dryRun,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// NewDeploymentState creates an empty journal
func NewDeploymentState(id string, chainID uint64) *DeploymentState {
	now := time.Now()
	return &DeploymentState{
		ID:        id,
		ChainID:   chainID,
		Modules:   []string{},
		Futures:   make(map[string]*FutureState),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DefaultDeploymentID returns the deployment id used when none is given
func DefaultDeploymentID(chainID uint64) string {
	return fmt.Sprintf("chain-%d", chainID)
}

// IsEmpty reports whether nothing was recorded yet
func (s *DeploymentState) IsEmpty() bool {
	return len(s.Futures) == 0
}

// AddModule records a module id once
func (s *DeploymentState) AddModule(moduleID string) {
	if !slices.Contains(s.Modules, moduleID) {
		s.Modules = append(s.Modules, moduleID)
		slices.Sort(s.Modules)
	}
}

// Future returns the record of a future, nil when absent
func (s *DeploymentState) Future(futureID string) *FutureState {
	return s.Futures[futureID]
}

// SortedFutures returns the recorded futures ordered by id
func (s *DeploymentState) SortedFutures() []*FutureState {
	futures := make([]*FutureState, 0, len(s.Futures))
	for _, f := range s.Futures {
		futures = append(futures, f)
	}
	slices.SortFunc(futures, func(a, b *FutureState) int {
		return strings.Compare(a.FutureID, b.FutureID)
	})
	return futures
}

// DeployedAddresses maps successful futures to their addresses
func (s *DeploymentState) DeployedAddresses() map[string]string {
	addresses := make(map[string]string)
	for id, f := range s.Futures {
		if f.Status == FutureStatusSuccess && f.Address != "" {
			addresses[id] = f.Address
		}
	}
	return addresses
}

// Dependents returns the recorded futures that depend on futureID
func (s *DeploymentState) Dependents(futureID string) []string {
	var dependents []string
	for id, f := range s.Futures {
		if slices.Contains(f.Dependencies, futureID) {
			dependents = append(dependents, id)
		}
	}
	slices.Sort(dependents)
	return dependents
}

// RemoveFuture drops a future from the journal and prunes modules that
// no longer have any recorded future
func (s *DeploymentState) RemoveFuture(futureID string) {
	delete(s.Futures, futureID)

	remaining := make(map[string]bool)
	for _, f := range s.Futures {
		remaining[f.ModuleID] = true
	}
	s.Modules = slices.DeleteFunc(s.Modules, func(m string) bool { return !remaining[m] })
}

// Summary counts futures by status
func (s *DeploymentState) Summary() map[FutureStatus]int {
	summary := make(map[FutureStatus]int)
	for _, f := range s.Futures {
		summary[f.Status]++
	}
	return summary
}
