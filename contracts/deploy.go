package contracts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/AlexZinkM/devnet-accounts/accounts"
	"github.com/AlexZinkM/devnet-accounts/internal/client"
	"github.com/AlexZinkM/devnet-accounts/internal/config"
	"github.com/AlexZinkM/devnet-accounts/internal/model"
	"github.com/AlexZinkM/devnet-accounts/internal/store"
)

// Toolchain compiles contracts and submits deploy transactions. Implemented by client.ProverClient.
type Toolchain interface {
	Compile(ctx context.Context, className string, artifact []byte) (model.VerificationKey, error)
	Send(ctx context.Context, tx *model.DeployTransaction) (string, error)
}

// Confirmer waits for a transaction to land. Implemented by accounts.Service.
type Confirmer interface {
	WaitForTransaction(ctx context.Context, hash string, onProgress accounts.ProgressFunc) (*client.TransactionInfo, error)
}

// InsufficientFeeError is a deployment the network refused because the fee was too low
type InsufficientFeeError struct {
	Fee uint64
	Err error
}

func (e *InsufficientFeeError) Error() string {
	return fmt.Sprintf("%v (fee %d). Raise feePerTx for this network or fund the fee payer, then deploy again", e.Err, e.Fee)
}

func (e *InsufficientFeeError) Unwrap() error {
	return e.Err
}

// Request describes one deployment
type Request struct {
	ClassName string
	Name      string // record name, defaults to ClassName
	FeePayer  *model.Account
	Wait      bool
	// OnProgress receives confirmation progress when Wait is set
	OnProgress accounts.ProgressFunc
}

// Result is a persisted deployment
type Result struct {
	Contract    *model.Contract
	Path        string
	Hash        string
	CompileTime time.Duration
}

// Deployer compiles, signs, sends and persists contract deployments
type Deployer struct {
	cfg       config.Config
	store     *store.Store
	toolchain Toolchain
	confirmer Confirmer
	logger    *slog.Logger
	now       func() time.Time
}

// NewDeployer creates a Deployer. confirmer may be nil when no request sets Wait.
func NewDeployer(cfg config.Config, st *store.Store, toolchain Toolchain, confirmer Confirmer, logger *slog.Logger) *Deployer {
	return &Deployer{
		cfg:       cfg,
		store:     st,
		toolchain: toolchain,
		confirmer: confirmer,
		logger:    logger.With("component", "deploy", "network", cfg.Profile.Name),
		now:       time.Now,
	}
}

func (d *Deployer) validate(req *Request) error {
	if req.Name == "" {
		req.Name = req.ClassName
	}

	var messages []string
	if req.ClassName == "" {
		messages = append(messages, "className is required")
	}
	if !store.ValidName(req.Name) {
		messages = append(messages, fmt.Sprintf("name %q must be letters, digits and single dashes", req.Name))
	}
	if !store.ValidName(d.cfg.Group) {
		messages = append(messages, fmt.Sprintf("groupName %q must be letters, digits and single dashes", d.cfg.Group))
	}
	if req.FeePayer == nil {
		messages = append(messages, "a fee payer account is required")
	}
	if len(messages) > 0 {
		return &model.ValidationError{Scope: "deploy", Messages: messages, DocsURL: d.cfg.DocsURL}
	}
	return nil
}

// Deploy runs one deployment. The Contract record is written only after the toolchain
// accepted the transaction; a failed attempt leaves nothing on disk.
func (d *Deployer) Deploy(ctx context.Context, req Request) (*Result, error) {
	if err := d.validate(&req); err != nil {
		return nil, err
	}

	artifact, err := LoadArtifact(d.cfg.BuildDir, req.ClassName)
	if err != nil {
		return nil, err
	}

	// the record identity is fixed before anything is sent
	now := d.now()
	if d.store.Exists(model.KindContracts, req.Name, d.cfg.Group, now.Unix()) {
		return nil, &model.CollisionError{Path: d.store.Path(model.KindContracts, req.Name, d.cfg.Group, now.Unix())}
	}

	start := time.Now()
	vk, err := d.toolchain.Compile(ctx, artifact.ClassName, artifact.Raw())
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", artifact.ClassName, err)
	}
	compileTime := time.Since(start)
	d.logger.Info("contract compiled", "class", artifact.ClassName, "duration", compileTime.Round(time.Millisecond))

	payerKey, err := solana.PrivateKeyFromBase58(req.FeePayer.Data.Address.Private)
	if err != nil {
		return nil, fmt.Errorf("fee payer %s has an unusable private key: %w", req.FeePayer.Data.Name, err)
	}
	defer clear(payerKey)

	// fresh destination for every attempt, so a retry never reuses a half-deployed address
	destination := solana.NewWallet()
	defer clear(destination.PrivateKey)

	tx := d.buildTransaction(req.FeePayer.Data.Address.Public, destination.PublicKey().String(), vk)
	if err := signTransaction(tx, payerKey, destination.PrivateKey); err != nil {
		return nil, err
	}

	// a concurrent run may have taken the identity while compiling
	if d.store.Exists(model.KindContracts, req.Name, d.cfg.Group, now.Unix()) {
		return nil, &model.CollisionError{Path: d.store.Path(model.KindContracts, req.Name, d.cfg.Group, now.Unix())}
	}

	hash, err := d.toolchain.Send(ctx, tx)
	if err != nil {
		d.logger.Error("deploy failed", "class", artifact.ClassName, "tx_id", tx.ID, "error", err)
		if isInsufficientFee(err) {
			return nil, &InsufficientFeeError{Fee: tx.Fee, Err: err}
		}
		return nil, fmt.Errorf("failed to send deploy transaction: %w", err)
	}

	contract := d.contractRecord(req, artifact, vk, destination, hash, now)
	path, err := d.store.Write(contract)
	if err != nil {
		return nil, err
	}
	d.logger.Info("contract deployed", "class", artifact.ClassName, "address", contract.Data.Address.Public, "transaction", hash)

	result := &Result{Contract: contract, Path: path, Hash: hash, CompileTime: compileTime}
	if !req.Wait {
		return result, nil
	}
	if d.confirmer == nil {
		return result, errors.New("no confirmer configured to wait for the deployment")
	}
	if _, err := d.confirmer.WaitForTransaction(ctx, hash, req.OnProgress); err != nil {
		return result, fmt.Errorf("deployment %s sent but not confirmed: %w", hash, err)
	}
	return result, nil
}

func (d *Deployer) buildTransaction(feePayer, destination string, vk model.VerificationKey) *model.DeployTransaction {
	return &model.DeployTransaction{
		ID:       uuid.NewString(),
		Network:  d.cfg.Profile.Name,
		FeePayer: feePayer,
		Fee:      d.cfg.Profile.FeePerTx,
		Operations: []model.Operation{
			{Kind: model.OperationFundNewAccount, Account: destination},
			{Kind: model.OperationDeploy, Account: destination, VerificationKey: &vk},
			{Kind: model.OperationInit, Account: destination},
		},
	}
}

// signTransaction signs the unsigned payload with the fee payer and the destination key, in that order
func signTransaction(tx *model.DeployTransaction, keys ...solana.PrivateKey) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	payload, err := tx.SigningPayload()
	if err != nil {
		return fmt.Errorf("failed to build signing payload: %w", err)
	}

	tx.Signatures = tx.Signatures[:0]
	for _, key := range keys {
		sig, err := key.Sign(payload)
		if err != nil {
			return fmt.Errorf("failed to sign transaction: %w", err)
		}
		tx.Signatures = append(tx.Signatures, model.Signature{
			PublicKey: key.PublicKey().String(),
			Signature: sig.String(),
		})
	}
	return nil
}

func (d *Deployer) contractRecord(req Request, artifact *Artifact, vk model.VerificationKey, destination *solana.Wallet, hash string, now time.Time) *model.Contract {
	unix := now.Unix()
	network := d.cfg.Profile
	payer := req.FeePayer.Data
	address := destination.PublicKey().String()

	return &model.Contract{
		Meta: model.Meta{
			FileName: store.FileName(req.Name, d.cfg.Group, unix),
			Version:  model.FileVersion,
		},
		Data: model.ContractData{
			Name:      req.Name,
			Type:      model.ContractType,
			GroupName: d.cfg.Group,
			Network:   network.Name,
			Time:      model.Time{Unix: unix, Format: now.UTC().Format(time.RFC3339)},
			FeePayer: model.FeePayer{
				Name:     payer.Name,
				Public:   payer.Address.Public,
				Explorer: network.WalletURL(payer.Address.Public),
			},
			Address: model.Address{
				Public:  address,
				Private: destination.PrivateKey.String(),
			},
			Explorer:        map[string]string{network.Name: network.WalletURL(address)},
			VerificationKey: vk,
			SmartContract: model.SmartContract{
				ClassName: artifact.ClassName,
				Methods:   artifact.Methods,
				Content:   artifact.Source,
			},
			Transaction: model.TransactionRef{
				Hash:     hash,
				Explorer: network.TransactionURL(hash),
			},
		},
	}
}

func isInsufficientFee(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "insufficient fee") ||
		strings.Contains(msg, "insufficient_fee") ||
		strings.Contains(msg, "fee too low") ||
		strings.Contains(msg, "insufficient funds for fee")
}
