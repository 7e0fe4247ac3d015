package accounts

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/devnet-accounts/internal/client"
	"github.com/AlexZinkM/devnet-accounts/internal/common"
	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

// Funded is a transfer from one of the group's accounts
type Funded struct {
	From        *model.Account
	To          string
	Amount      uint64
	Transaction string
}

// Fund sends amount from the richest funded account called from to address.
// It is the way to top up an account whose faucet request was rate limited.
func (s *Service) Fund(ctx context.Context, from, to string, amount uint64) (*Funded, error) {
	if err := s.ValidateNames([]string{from}); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, &model.ValidationError{Scope: "fund", Messages: []string{"amount must be positive"}, DocsURL: s.cfg.DocsURL}
	}

	transferer, ok := s.chain.(client.Transferer)
	if !ok {
		return nil, fmt.Errorf("network %s does not support transfers", s.cfg.Profile.Name)
	}

	c, err := s.Classify(ctx, from)
	if err != nil {
		return nil, err
	}
	if len(c.Ready) == 0 {
		return nil, fmt.Errorf("no funded account called %s in group %s", from, s.cfg.Group)
	}
	source := c.Ready[0]

	fee := s.cfg.Profile.FeePerTx
	decimals := s.cfg.Profile.Decimals
	if source.Status.Balance < amount+fee {
		var max uint64
		if source.Status.Balance > fee {
			max = source.Status.Balance - fee
		}
		return nil, fmt.Errorf("insufficient balance. Transaction fee: %s. Max you can send: %s",
			common.FormatUnits(fee, decimals), common.FormatUnits(max, decimals))
	}

	hash, err := transferer.Transfer(ctx, source.Account.Data.Address.Private, to, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to send transfer: %w", err)
	}

	s.logger.Info("account funded", "from", source.Account.Data.Address.Public, "to", to, "amount", common.FormatUnits(amount, decimals), "transaction", hash)
	return &Funded{From: source.Account, To: to, Amount: amount, Transaction: hash}, nil
}
