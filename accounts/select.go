package accounts

import (
	"context"
	"sort"

	"github.com/AlexZinkM/devnet-accounts/internal/model"
	"github.com/AlexZinkM/devnet-accounts/internal/store"
)

// SelectionStatus tells how the chosen account was found
type SelectionStatus string

const (
	// SelectedKnown is a funded account ready to pay fees
	SelectedKnown SelectionStatus = "known"
	// SelectedPending is an account whose faucet request is still within the cool-down
	SelectedPending SelectionStatus = "pending"
	// SelectedNew is an account created by this selection
	SelectedNew SelectionStatus = "new"
)

// NeedsConfirmation reports whether the caller has to wait for funding
func (s SelectionStatus) NeedsConfirmation() bool {
	return s == SelectedPending || s == SelectedNew
}

// Candidate is a stored account with its live status
type Candidate struct {
	Path    string
	Account *model.Account
	Status  model.AccountStatus
	Faucet  model.FaucetAttempt // set for pending candidates
}

// Classification partitions the accounts of one name
type Classification struct {
	Ready   []Candidate // sorted by transactions left, richest first
	Pending []Candidate
	Empty   []Candidate
}

// Counts summarizes the partition
func (c Classification) Counts() model.SelectionCounts {
	return model.SelectionCounts{
		Funded:  len(c.Ready),
		Pending: len(c.Pending),
		Empty:   len(c.Empty),
	}
}

// Selection is the account to use
type Selection struct {
	Status      SelectionStatus
	Path        string
	Account     *model.Account
	Balance     model.AccountStatus
	Transaction string // faucet transaction for pending and new, may be "manual"
	Counts      model.SelectionCounts
}

// Classify fetches the live status of the accounts called name, oldest first, one at a time.
func (s *Service) Classify(ctx context.Context, name string) (Classification, error) {
	stored, err := s.store.Accounts(s.cfg.Group, s.cfg.Profile.Name)
	if err != nil {
		return Classification{}, err
	}

	var c Classification
	for _, sa := range stored {
		if sa.Account.Data.Name != name {
			continue
		}
		c = s.classifyOne(ctx, c, sa)
	}

	sort.SliceStable(c.Ready, func(i, j int) bool {
		return c.Ready[i].Status.TransactionsLeft > c.Ready[j].Status.TransactionsLeft
	})
	return c, nil
}

func (s *Service) classifyOne(ctx context.Context, c Classification, sa *store.StoredAccount) Classification {
	candidate := Candidate{
		Path:    sa.Path,
		Account: sa.Account,
		Status:  s.FetchStatus(ctx, sa.Account.Data.Address.Public),
	}

	if candidate.Status.Useable {
		c.Ready = append(c.Ready, candidate)
		return c
	}
	if attempt, ok := s.recentFaucet(sa.Account); ok {
		candidate.Faucet = attempt
		c.Pending = append(c.Pending, candidate)
		return c
	}
	c.Empty = append(c.Empty, candidate)
	return c
}

// Select picks the account called name to pay fees with:
// the richest funded one, else the first still waiting for its faucet, else a new one.
func (s *Service) Select(ctx context.Context, name string) (*Selection, error) {
	if err := s.ValidateNames([]string{name}); err != nil {
		return nil, err
	}

	c, err := s.Classify(ctx, name)
	if err != nil {
		return nil, err
	}
	counts := c.Counts()

	s.logger.Debug("accounts classified", "name", name, "funded", counts.Funded, "pending", counts.Pending, "empty", counts.Empty)

	switch {
	case len(c.Ready) > 0:
		chosen := c.Ready[0]
		return &Selection{
			Status:  SelectedKnown,
			Path:    chosen.Path,
			Account: chosen.Account,
			Balance: chosen.Status,
			Counts:  counts,
		}, nil

	case len(c.Pending) > 0:
		chosen := c.Pending[0]
		return &Selection{
			Status:      SelectedPending,
			Path:        chosen.Path,
			Account:     chosen.Account,
			Balance:     chosen.Status,
			Transaction: chosen.Faucet.Transaction,
			Counts:      counts,
		}, nil
	}

	created, err := s.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &Selection{
		Status:      SelectedNew,
		Path:        created.Path,
		Account:     created.Account,
		Balance:     model.AccountStatus{Code: model.StatusNotFound},
		Transaction: created.Faucet.Transaction,
		Counts:      counts,
	}, nil
}
