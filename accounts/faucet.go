package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexZinkM/devnet-accounts/internal/client"
	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

// requestFunding asks the faucet for address.
// A rate limited faucet is not fatal: the attempt is recorded as manual and the
// account stays pending for the cool-down. Any other failure aborts creation.
func (s *Service) requestFunding(ctx context.Context, address string) (model.FaucetAttempt, error) {
	attempt := model.FaucetAttempt{
		Network:   s.cfg.Profile.FaucetNetwork(),
		Timestamp: s.now().Unix(),
	}

	hash, err := s.faucet.Request(ctx, address)
	switch {
	case errors.Is(err, client.ErrRateLimited):
		s.logger.Warn("faucet rate limited, fund the address manually", "address", address)
		attempt.Transaction = model.ManualTransaction
	case err != nil:
		return model.FaucetAttempt{}, fmt.Errorf("faucet request for %s failed: %w", address, err)
	default:
		attempt.Transaction = hash
	}

	return attempt, nil
}

// recentFaucet returns the attempt on the current faucet network younger than the cool-down
func (s *Service) recentFaucet(account *model.Account) (model.FaucetAttempt, bool) {
	network := s.cfg.Profile.FaucetNetwork()
	now := s.now()
	for _, f := range account.Data.Faucets {
		if f.Network == network && f.Age(now) < s.cfg.FaucetCooldown {
			return f, true
		}
	}
	return model.FaucetAttempt{}, false
}
