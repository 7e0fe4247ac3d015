package accounts

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/skip2/go-qrcode"

	"github.com/AlexZinkM/devnet-accounts/internal/model"
	"github.com/AlexZinkM/devnet-accounts/internal/store"
)

// Created is a freshly persisted account
type Created struct {
	Account *model.Account
	Path    string
	Faucet  model.FaucetAttempt
}

// ValidateNames checks a batch of account names and the group before anything touches disk or network
func (s *Service) ValidateNames(names []string) error {
	var messages []string
	if !store.ValidName(s.cfg.Group) {
		messages = append(messages, fmt.Sprintf("groupName %q must be letters, digits and single dashes", s.cfg.Group))
	}
	if len(names) == 0 {
		messages = append(messages, "at least one name is required")
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !store.ValidName(name) {
			messages = append(messages, fmt.Sprintf("name %q must be letters, digits and single dashes", name))
		}
		if seen[name] {
			messages = append(messages, fmt.Sprintf("name %q is listed twice", name))
		}
		seen[name] = true
	}

	if len(messages) > 0 {
		return &model.ValidationError{Scope: "accounts", Messages: messages, DocsURL: s.cfg.DocsURL}
	}
	return nil
}

// CreateBatch creates one account per name, strictly one after another.
// It stops at the first failure and returns what was created so far.
func (s *Service) CreateBatch(ctx context.Context, names []string) ([]*Created, error) {
	if err := s.ValidateNames(names); err != nil {
		return nil, err
	}

	created := make([]*Created, 0, len(names))
	for _, name := range names {
		c, err := s.Create(ctx, name)
		if err != nil {
			return created, err
		}
		created = append(created, c)
	}
	return created, nil
}

// Create generates a new keypair, requests faucet funding and persists the encrypted account.
// An existing file at the account's identity is a *model.CollisionError and nothing is written.
func (s *Service) Create(ctx context.Context, name string) (*Created, error) {
	if err := s.ValidateNames([]string{name}); err != nil {
		return nil, err
	}

	now := s.now()
	unix := now.Unix()

	// checked before the faucet call so a collision does not spend a funding request
	if s.store.Exists(model.KindAccounts, name, s.cfg.Group, unix) {
		return nil, &model.CollisionError{Path: s.store.Path(model.KindAccounts, name, s.cfg.Group, unix)}
	}

	// Generate new keypair
	wallet := solana.NewWallet()
	address := wallet.PublicKey().String()
	privateKey := wallet.PrivateKey.String()
	clear(wallet.PrivateKey)

	qrCode, err := generateQRCode(address)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	attempt, err := s.requestFunding(ctx, address)
	if err != nil {
		return nil, err
	}

	network := s.cfg.Profile
	account := &model.Account{
		Meta: model.Meta{
			FileName: store.FileName(name, s.cfg.Group, unix),
			Version:  model.FileVersion,
		},
		Data: model.AccountData{
			Name:      name,
			Type:      model.AccountType,
			GroupName: s.cfg.Group,
			Network:   network.Name,
			Time:      model.Time{Unix: unix, Format: now.UTC().Format(time.RFC3339)},
			Address: model.Address{
				Public:  address,
				Private: privateKey,
			},
			Explorer: map[string]string{network.Name: network.WalletURL(address)},
			Faucets:  []model.FaucetAttempt{attempt},
		},
		QR: qrCode,
	}

	path, err := s.store.Write(account)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account created", "name", name, "address", address, "faucet", attempt.Transaction)
	return &Created{Account: account, Path: path, Faucet: attempt}, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	// Get PNG image
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
