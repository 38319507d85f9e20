package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/ignite/internal/domain"
	"github.com/trebuchet-org/ignite/internal/domain/config"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// RPCDeployer sends contract creations through eth_sendTransaction, relying
// on accounts unlocked by the node
type RPCDeployer struct {
	rpcClient    *rpc.Client
	client       *ethclient.Client
	network      *config.Network
	pollInterval time.Duration
	log          *slog.Logger

	mu       sync.Mutex
	accounts []common.Address
}

// NewRPCDeployer creates a new RPC deployer
func NewRPCDeployer(log *slog.Logger) *RPCDeployer {
	return &RPCDeployer{
		pollInterval: time.Second,
		log:          log,
	}
}

// Connect dials the network and verifies its chain id
func (d *RPCDeployer) Connect(ctx context.Context, network *config.Network) error {
	rpcClient, err := rpc.DialContext(ctx, network.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RPC: %w", err)
	}
	client := ethclient.NewClient(rpcClient)

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to get chain ID: %w", err)
	}
	if network.ChainID != 0 && chainID.Uint64() != network.ChainID {
		client.Close()
		return fmt.Errorf("%w: %s is configured as chain %d but the RPC reports %d",
			domain.ErrNetworkMismatch, network.Name, network.ChainID, chainID.Uint64())
	}

	d.rpcClient = rpcClient
	d.client = client
	d.network = network
	d.log.Debug("connected", "network", network.Name, "chainId", chainID.Uint64())
	return nil
}

// Close releases the RPC connection
func (d *RPCDeployer) Close() {
	if d.client != nil {
		d.client.Close()
	}
}

// Deploy sends a contract creation and waits for its receipt
func (d *RPCDeployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeployReceipt, error) {
	if d.client == nil {
		return nil, fmt.Errorf("not connected to blockchain")
	}

	from, err := d.sender(ctx, req.From)
	if err != nil {
		return nil, err
	}

	tx := map[string]any{
		"from": from,
		"data": hexutil.Bytes(req.Data),
	}
	if req.Value != nil && req.Value.Sign() > 0 {
		tx["value"] = (*hexutil.Big)(req.Value)
	}

	var txHash common.Hash
	if err := d.rpcClient.CallContext(ctx, &txHash, "eth_sendTransaction", tx); err != nil {
		return nil, fmt.Errorf("eth_sendTransaction failed for %s: %w", req.FutureID, err)
	}
	d.log.Debug("transaction sent", "future", req.FutureID, "tx", txHash.Hex())

	receipt, err := d.waitForReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s reverted in tx %s", domain.ErrTransactionFailed, req.FutureID, txHash.Hex())
	}
	if receipt.ContractAddress == (common.Address{}) {
		return nil, fmt.Errorf("%w: tx %s created no contract", domain.ErrTransactionFailed, txHash.Hex())
	}

	var blockNumber uint64
	if receipt.BlockNumber != nil {
		blockNumber = receipt.BlockNumber.Uint64()
	}
	if err := d.waitForConfirmations(ctx, blockNumber); err != nil {
		return nil, err
	}

	return &usecase.DeployReceipt{
		Address:     receipt.ContractAddress,
		TxHash:      txHash,
		From:        from,
		BlockNumber: blockNumber,
		GasUsed:     receipt.GasUsed,
	}, nil
}

// sender returns the explicit sender or the node's first account
func (d *RPCDeployer) sender(ctx context.Context, from string) (common.Address, error) {
	if from != "" {
		if !common.IsHexAddress(from) {
			return common.Address{}, fmt.Errorf("%w: sender %q", domain.ErrInvalidAddress, from)
		}
		return common.HexToAddress(from), nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.accounts == nil {
		var accounts []common.Address
		if err := d.rpcClient.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
			return common.Address{}, fmt.Errorf("eth_accounts failed: %w", err)
		}
		d.accounts = accounts
	}
	if len(d.accounts) == 0 {
		return common.Address{}, fmt.Errorf("no sender configured and the node exposes no accounts; set from for network %s", d.network.Name)
	}
	return d.accounts[0], nil
}

func (d *RPCDeployer) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := d.client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("failed to fetch receipt of %s: %w", txHash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

func (d *RPCDeployer) waitForConfirmations(ctx context.Context, blockNumber uint64) error {
	if d.network.Confirmations <= 1 {
		return nil
	}
	target := blockNumber + d.network.Confirmations - 1

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		head, err := d.client.BlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch block number: %w", err)
		}
		if head >= target {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Ensure RPCDeployer implements ContractDeployer
var _ usecase.ContractDeployer = (*RPCDeployer)(nil)
