package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AlexZinkM/devnet-accounts/internal/config"
)

// AccountInfo is the on-chain state of an address
type AccountInfo struct {
	Balance uint64 // smallest unit
	Nonce   uint64
}

// TransactionInfo is a transaction the chain has included
type TransactionInfo struct {
	Hash        string
	BlockHeight uint64
	Failed      bool
}

// Block is the header of the most recent block
type Block struct {
	Height uint64
	Slot   uint64
	Time   time.Time
}

// Chain is the read side of a network.
// Account and Transaction return nil, nil when the chain does not know the address or hash.
type Chain interface {
	Account(ctx context.Context, address string) (*AccountInfo, error)
	Transaction(ctx context.Context, hash string) (*TransactionInfo, error)
	LatestBlock(ctx context.Context) (*Block, error)
}

// Faucet requests funding for a fresh address
type Faucet interface {
	Request(ctx context.Context, address string) (string, error)
}

// Transferer moves funds from a key the caller holds to another address.
// Only backends that can sign and submit plain transfers implement it.
type Transferer interface {
	Transfer(ctx context.Context, fromPrivate, to string, amount uint64) (string, error)
}

// NewChain returns the client for the backend of network
func NewChain(network config.Network, logger *slog.Logger) (Chain, error) {
	switch network.Backend {
	case config.BackendGraphQL:
		return NewGraphQLClient(network.Endpoint, logger), nil
	case config.BackendSolana:
		return NewSolanaClient(network.Endpoint, logger), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", network.Backend)
	}
}

// NewFaucet returns the funding client of network.
// Solana profiles without a faucet URL use requestAirdrop on the RPC endpoint.
func NewFaucet(network config.Network, logger *slog.Logger) (Faucet, error) {
	if network.Faucet.URL != "" {
		return NewHTTPFaucet(network.Faucet.URL, network.FaucetNetwork(), logger), nil
	}
	if network.Backend == config.BackendSolana {
		return NewSolanaClient(network.Endpoint, logger).Airdrop(network.Faucet.Amount), nil
	}
	return nil, fmt.Errorf("network %s has no faucet", network.Name)
}
