package config

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/ignite/internal/domain/config"
	"github.com/trebuchet-org/ignite/internal/domain/models"
)

// NetworkResolver resolves network names from ignite.toml to configurations
type NetworkResolver struct {
	networks map[string]config.NetworkConfig
	timeout  time.Duration
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(cfg *config.IgniteConfig) *NetworkResolver {
	return &NetworkResolver{
		networks: cfg.Networks,
		timeout:  10 * time.Second,
	}
}

// Names returns the configured network names in sorted order
func (r *NetworkResolver) Names() []string {
	names := make([]string, 0, len(r.networks))
	for name := range r.networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve resolves a network name to its configuration. The chain id is
// fetched from the RPC endpoint when ignite.toml does not pin it.
func (r *NetworkResolver) Resolve(ctx context.Context, name string) (*config.Network, error) {
	network, exists := r.networks[name]
	if !exists {
		return nil, fmt.Errorf("network '%s' not found in %s [networks]", name, IgniteFileName)
	}
	if network.URL == "" {
		return nil, fmt.Errorf("network '%s' has no url", name)
	}

	chainID := network.ChainID
	if chainID == 0 {
		fetched, err := r.fetchChainID(ctx, network.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", name, err)
		}
		chainID = fetched
	}

	return &config.Network{
		Name:          name,
		ChainID:       chainID,
		RPCURL:        network.URL,
		From:          network.From,
		Confirmations: network.Confirmations,
	}, nil
}

// ResolveRuntime resolves the network selected in cfg and fills in the
// default deployment id. It is a no-op when no network is selected or the
// network was already resolved.
func (r *NetworkResolver) ResolveRuntime(ctx context.Context, cfg *config.RuntimeConfig) error {
	if cfg.Network != nil || cfg.NetworkName == "" {
		return nil
	}

	network, err := r.Resolve(ctx, cfg.NetworkName)
	if err != nil {
		return fmt.Errorf("failed to resolve network %s: %w", cfg.NetworkName, err)
	}
	cfg.Network = network

	if cfg.DeploymentID == "" {
		cfg.DeploymentID = models.DefaultDeploymentID(network.ChainID)
	}
	return nil
}

// fetchChainID asks the RPC endpoint for its chain id
func (r *NetworkResolver) fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	var chainID hexutil.Uint64
	if err := client.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
		return 0, fmt.Errorf("eth_chainId failed: %w", err)
	}
	return uint64(chainID), nil
}
