package accounts

import (
	"context"

	"github.com/AlexZinkM/devnet-accounts/internal/common"
	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

// FetchStatus queries the live balance and nonce of address.
// It never fails: an unknown address is StatusNotFound and a failed query is StatusNetworkError.
func (s *Service) FetchStatus(ctx context.Context, address string) model.AccountStatus {
	info, err := s.chain.Account(ctx, address)
	if err != nil {
		s.logger.Debug("status query failed", "address", address, "error", err)
		return model.AccountStatus{Code: model.StatusNetworkError}
	}
	if info == nil {
		return model.AccountStatus{Code: model.StatusNotFound}
	}
	return s.statusOf(info.Balance, info.Nonce)
}

func (s *Service) statusOf(balance, nonce uint64) model.AccountStatus {
	network := s.cfg.Profile
	left := common.TransactionsLeft(balance, network.FeePerTx)
	return model.AccountStatus{
		Code:             model.StatusOK,
		Balance:          balance,
		BalanceDisplay:   common.FormatUnits(balance, network.Decimals),
		Nonce:            nonce,
		TransactionsLeft: left,
		Useable:          balance > 0 && left > 0,
	}
}
