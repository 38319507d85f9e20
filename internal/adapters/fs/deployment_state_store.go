package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/trebuchet-org/ignite/internal/domain/config"
	"github.com/trebuchet-org/ignite/internal/domain/models"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

const (
	// StateFileName is the journal of a deployment
	StateFileName = "state.json"
	// DeployedAddressesFileName maps future ids to addresses
	DeployedAddressesFileName = "deployed_addresses.json"
)

// DeploymentStateStoreAdapter implements DeploymentStateStore using the file system.
// Every deployment lives in <deployments>/<id>/.
type DeploymentStateStoreAdapter struct {
	root string
	mu   sync.Mutex
}

// NewDeploymentStateStoreAdapter creates a new DeploymentStateStoreAdapter
func NewDeploymentStateStoreAdapter(cfg *config.RuntimeConfig) *DeploymentStateStoreAdapter {
	return &DeploymentStateStoreAdapter{root: cfg.DeploymentsDir}
}

func (s *DeploymentStateStoreAdapter) dir(deploymentID string) string {
	return filepath.Join(s.root, deploymentID)
}

// Load reads a deployment journal. Returns an empty state if it does not exist.
func (s *DeploymentStateStoreAdapter) Load(_ context.Context, deploymentID string) (*models.DeploymentState, error) {
	if err := validateID(deploymentID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir(deploymentID), StateFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewDeploymentState(deploymentID, 0), nil
		}
		return nil, fmt.Errorf("failed to read deployment state: %w", err)
	}

	var state models.DeploymentState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse deployment state %s: %w", deploymentID, err)
	}

	if state.Futures == nil {
		state.Futures = make(map[string]*models.FutureState)
	}
	if state.Modules == nil {
		state.Modules = []string{}
	}
	state.ID = deploymentID

	return &state, nil
}

// Save writes the journal and the deployed addresses, creating the directory if needed.
func (s *DeploymentStateStoreAdapter) Save(_ context.Context, state *models.DeploymentState) error {
	if err := validateID(state.ID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.dir(state.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create deployment directory: %w", err)
	}

	if err := writeJSON(filepath.Join(dir, StateFileName), state); err != nil {
		return fmt.Errorf("failed to write deployment state: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, DeployedAddressesFileName), state.DeployedAddresses()); err != nil {
		return fmt.Errorf("failed to write deployed addresses: %w", err)
	}

	return nil
}

// Delete removes the deployment directory.
func (s *DeploymentStateStoreAdapter) Delete(_ context.Context, deploymentID string) error {
	if err := validateID(deploymentID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(s.dir(deploymentID)); err != nil {
		return fmt.Errorf("failed to delete deployment %s: %w", deploymentID, err)
	}
	return nil
}

// List returns the ids of the deployments that have a journal.
func (s *DeploymentStateStoreAdapter) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read deployments directory: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.root, entry.Name(), StateFileName)); err == nil {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// writeJSON replaces path through a temporary file so readers never see a partial write
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func validateID(deploymentID string) error {
	if deploymentID == "" || deploymentID == "." || deploymentID == ".." ||
		filepath.Base(deploymentID) != deploymentID {
		return fmt.Errorf("invalid deployment id %q", deploymentID)
	}
	return nil
}

// Ensure DeploymentStateStoreAdapter implements DeploymentStateStore
var _ usecase.DeploymentStateStore = (*DeploymentStateStoreAdapter)(nil)
