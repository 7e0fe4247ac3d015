package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

// SolanaClient is a client for working with Solana RPC
type SolanaClient struct {
	rpcClient *rpc.Client
	rpcURL    string
	logger    *slog.Logger
}

// NewSolanaClient creates a new Solana client for the given RPC endpoint.
func NewSolanaClient(rpcURL string, logger *slog.Logger) *SolanaClient {
	return &SolanaClient{
		rpcClient: rpc.New(rpcURL),
		rpcURL:    rpcURL,
		logger:    logger.With("component", "solana"),
	}
}

// Account gets the lamport balance of address. Solana accounts carry no nonce, it is reported as 0.
func (c *SolanaClient) Account(ctx context.Context, address string) (*AccountInfo, error) {
	owner, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("invalid Solana address: %w", err)
	}

	info, err := c.rpcClient.GetAccountInfoWithOpts(ctx, owner, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		if isAccountNotFoundError(err) {
			return nil, nil
		}
		return nil, &model.NetworkError{Op: "account", Err: err}
	}
	if info == nil || info.Value == nil {
		return nil, nil
	}

	return &AccountInfo{Balance: info.Value.Lamports}, nil
}

// Transaction reports a signature once the cluster has confirmed it
func (c *SolanaClient) Transaction(ctx context.Context, hash string) (*TransactionInfo, error) {
	sig, err := solana.SignatureFromBase58(hash)
	if err != nil {
		return nil, fmt.Errorf("invalid signature: %w", err)
	}

	statuses, err := c.rpcClient.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, &model.NetworkError{Op: "transaction", Err: err}
	}
	if statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
		return nil, nil
	}

	status := statuses.Value[0]
	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
	default:
		return nil, nil
	}

	return &TransactionInfo{
		Hash:        hash,
		BlockHeight: status.Slot,
		Failed:      status.Err != nil,
	}, nil
}

// LatestBlock returns the latest finalized slot and its block time
func (c *SolanaClient) LatestBlock(ctx context.Context) (*Block, error) {
	slot, err := c.rpcClient.GetSlot(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, &model.NetworkError{Op: "latest block", Err: err}
	}

	blockTime, err := c.rpcClient.GetBlockTime(ctx, slot)
	if err != nil {
		return nil, &model.NetworkError{Op: "latest block", Err: err}
	}
	if blockTime == nil {
		return nil, &model.NetworkError{Op: "latest block", Err: errors.New("slot has no block time")}
	}

	return &Block{
		Height: slot,
		Slot:   slot,
		Time:   blockTime.Time(),
	}, nil
}

// Airdrop returns a Faucet that requests lamports of SOL through requestAirdrop
func (c *SolanaClient) Airdrop(lamports uint64) *Airdrop {
	if lamports == 0 {
		lamports = 1_000_000_000 // 1 SOL
	}
	return &Airdrop{client: c, lamports: lamports}
}

// Airdrop funds addresses from the cluster faucet
type Airdrop struct {
	client   *SolanaClient
	lamports uint64
}

// Request asks the cluster for an airdrop and returns its signature
func (a *Airdrop) Request(ctx context.Context, address string) (string, error) {
	to, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return "", fmt.Errorf("invalid Solana address: %w", err)
	}

	sig, err := a.client.rpcClient.RequestAirdrop(ctx, to, a.lamports, rpc.CommitmentConfirmed)
	if err != nil {
		if isRateLimitError(err) {
			a.client.logger.Warn("airdrop rate limited", "address", address)
			return "", ErrRateLimited
		}
		return "", &model.NetworkError{Op: "airdrop", Err: err}
	}

	a.client.logger.Debug("airdrop requested", "address", address, "signature", sig.String())
	return sig.String(), nil
}

// Transfer sends lamports from the base58 private key fromPrivate to address to and returns the signature
func (c *SolanaClient) Transfer(ctx context.Context, fromPrivate, to string, lamports uint64) (string, error) {
	toPubkey, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return "", fmt.Errorf("invalid to address: %w", err)
	}
	wallet, err := solana.PrivateKeyFromBase58(fromPrivate)
	if err != nil {
		return "", fmt.Errorf("invalid private key: %w", err)
	}
	defer clear(wallet)
	from := wallet.PublicKey()

	// Get latest blockhash
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", &model.NetworkError{Op: "latest blockhash", Err: err}
	}

	transferInstruction := system.NewTransferInstruction(lamports, from, toPubkey).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transferInstruction},
		recent.Value.Blockhash,
		solana.TransactionPayer(from),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if from.Equals(key) {
			return &wallet
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := c.rpcClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		return "", &model.NetworkError{Op: "send transfer", Err: err}
	}

	c.logger.Info("transfer sent", "from", from.String(), "to", to, "lamports", lamports, "signature", sig.String())
	return sig.String(), nil
}

// isAccountNotFoundError checks if error indicates that the account doesn't exist
func isAccountNotFoundError(err error) bool {
	if errors.Is(err, rpc.ErrNotFound) {
		return true
	}
	return strings.Contains(err.Error(), "could not find account")
}

// isRateLimitError checks if the faucet refused because of its request limit
func isRateLimitError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "airdrop limit")
}
