package accounts

import (
	"context"

	"github.com/AlexZinkM/devnet-accounts/internal/client"
	"github.com/AlexZinkM/devnet-accounts/internal/model"
	"github.com/AlexZinkM/devnet-accounts/internal/poll"
)

// ProgressFunc receives poller progress for display
type ProgressFunc func(poll.Progress)

func (s *Service) pollOptions(onProgress ProgressFunc) poll.Options {
	return poll.Options{
		RequestInterval: s.cfg.RequestInterval,
		RenderInterval:  s.cfg.RenderInterval,
		MaxWait:         s.cfg.ConfirmTimeout,
		SlotDuration:    s.cfg.Profile.SlotDuration,
		Baseline:        s.chain.LatestBlock,
		OnProgress:      onProgress,
		Logger:          s.logger,
		Now:             s.now,
	}
}

// WaitForTransaction blocks until the chain has included hash
func (s *Service) WaitForTransaction(ctx context.Context, hash string, onProgress ProgressFunc) (*client.TransactionInfo, error) {
	p := poll.New[*client.TransactionInfo](s.pollOptions(onProgress))
	return p.Wait(ctx, func(ctx context.Context) (*client.TransactionInfo, bool, error) {
		tx, err := s.chain.Transaction(ctx, hash)
		return tx, tx != nil, err
	})
}

// WaitUntilUseable blocks until address holds enough balance for at least one transaction.
// Used for manual funding, where there is no transaction hash to look up.
func (s *Service) WaitUntilUseable(ctx context.Context, address string, onProgress ProgressFunc) (model.AccountStatus, error) {
	p := poll.New[model.AccountStatus](s.pollOptions(onProgress))
	return p.Wait(ctx, func(ctx context.Context) (model.AccountStatus, bool, error) {
		status := s.FetchStatus(ctx, address)
		return status, status.Useable, nil
	})
}

// Confirm waits for the funding of a pending or new selection and refreshes its balance.
// A known selection returns immediately.
func (s *Service) Confirm(ctx context.Context, sel *Selection, onProgress ProgressFunc) error {
	if !sel.Status.NeedsConfirmation() {
		return nil
	}

	address := sel.Account.Data.Address.Public
	if sel.Transaction == "" || sel.Transaction == model.ManualTransaction {
		status, err := s.WaitUntilUseable(ctx, address, onProgress)
		if err != nil {
			return err
		}
		sel.Balance = status
		return nil
	}

	if _, err := s.WaitForTransaction(ctx, sel.Transaction, onProgress); err != nil {
		return err
	}
	sel.Balance = s.FetchStatus(ctx, address)
	s.logger.Info("funding confirmed", "address", address, "transaction", sel.Transaction)
	return nil
}
