package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/ignite/internal/domain"
	"github.com/trebuchet-org/ignite/internal/domain/config"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// DefaultDryRunSender is the first account of a local Hardhat node
var DefaultDryRunSender = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

// DryRunDeployer predicts deployment addresses without sending anything.
// Nonces start at zero for each sender.
type DryRunDeployer struct {
	log *slog.Logger

	mu      sync.Mutex
	network *config.Network
	nonces  map[common.Address]uint64
}

// NewDryRunDeployer creates a new dry-run deployer
func NewDryRunDeployer(log *slog.Logger) *DryRunDeployer {
	return &DryRunDeployer{log: log, nonces: make(map[common.Address]uint64)}
}

// Connect records the network, no connection is made
func (d *DryRunDeployer) Connect(ctx context.Context, network *config.Network) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.network = network
	return nil
}

// Deploy returns the address a creation from the sender would get
func (d *DryRunDeployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeployReceipt, error) {
	from := DefaultDryRunSender
	if req.From != "" {
		if !common.IsHexAddress(req.From) {
			return nil, fmt.Errorf("%w: sender %q", domain.ErrInvalidAddress, req.From)
		}
		from = common.HexToAddress(req.From)
	}

	d.mu.Lock()
	nonce := d.nonces[from]
	d.nonces[from] = nonce + 1
	d.mu.Unlock()

	address := crypto.CreateAddress(from, nonce)
	d.log.Debug("simulated deployment", "future", req.FutureID, "address", address.Hex(), "nonce", nonce)

	return &usecase.DeployReceipt{
		Address: address,
		TxHash:  crypto.Keccak256Hash(from.Bytes(), new(big.Int).SetUint64(nonce).Bytes(), req.Data),
		From:    from,
	}, nil
}

// Ensure DryRunDeployer implements ContractDeployer
var _ usecase.ContractDeployer = (*DryRunDeployer)(nil)
