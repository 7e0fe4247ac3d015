// Package accounts creates, funds, inspects and selects fee payer accounts.
package accounts

import (
	"log/slog"
	"time"

	"github.com/AlexZinkM/devnet-accounts/internal/client"
	"github.com/AlexZinkM/devnet-accounts/internal/config"
	"github.com/AlexZinkM/devnet-accounts/internal/store"
)

// Service owns the accounts of one group on one network
type Service struct {
	cfg    config.Config
	store  *store.Store
	chain  client.Chain
	faucet client.Faucet
	logger *slog.Logger
	now    func() time.Time
}

// Option customizes a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service. cfg must be resolved by config.Load.
func NewService(cfg config.Config, st *store.Store, chain client.Chain, faucet client.Faucet, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		store:  st,
		chain:  chain,
		faucet: faucet,
		logger: logger.With("component", "accounts", "network", cfg.Profile.Name, "group", cfg.Group),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Network returns the profile the service works on
func (s *Service) Network() config.Network {
	return s.cfg.Profile
}

// ForGroup returns a Service sharing s's store and clients that works on group instead
func (s *Service) ForGroup(group string) *Service {
	if group == "" || group == s.cfg.Group {
		return s
	}
	clone := *s
	clone.cfg = s.cfg.WithGroup(group)
	clone.logger = s.logger.With("group", group)
	return &clone
}

// Group returns the group the service works on
func (s *Service) Group() string {
	return s.cfg.Group
}
