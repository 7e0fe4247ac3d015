package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AlexZinkM/devnet-accounts/accounts"
	"github.com/AlexZinkM/devnet-accounts/internal/client"
	"github.com/AlexZinkM/devnet-accounts/internal/config"
	"github.com/AlexZinkM/devnet-accounts/internal/crypto"
	"github.com/AlexZinkM/devnet-accounts/internal/poll"
	"github.com/AlexZinkM/devnet-accounts/internal/render"
	"github.com/AlexZinkM/devnet-accounts/internal/secret"
	"github.com/AlexZinkM/devnet-accounts/internal/store"
)

// flags override the env-derived config for a single run
type flags struct {
	network string
	group   string
	root    string
	verbose bool
}

// app is what every subcommand works with, built lazily once config is known
type app struct {
	cfg    config.Config
	logger *slog.Logger
	vault  *crypto.Vault
	store  *store.Store
}

func newLogger(level slog.Level) *slog.Logger {
	handler := clog.NewWithOptions(os.Stderr, clog.Options{
		Level:           clog.Level(level),
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	return slog.New(handler)
}

func loadConfig(f *flags) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if f.root != "" {
		cfg.Root = f.root
	}
	if f.network != "" {
		if cfg, err = cfg.WithNetwork(f.network); err != nil {
			return config.Config{}, err
		}
	}
	if f.group != "" {
		cfg = cfg.WithGroup(f.group)
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newApp loads config, unlocks the secret and prepares the credentials folder
func newApp(f *flags) (*app, error) {
	cfg, err := loadConfig(f)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.SlogLevel())

	provisioner := secret.NewProvisioner(cfg.SecretFile, cfg.CredentialsDir(), logger)
	passphrase, err := provisioner.Secret()
	if err != nil {
		return nil, err
	}
	vault, err := crypto.NewVault(passphrase)
	if err != nil {
		return nil, err
	}

	st := store.New(cfg.CredentialsDir(), vault, logger)
	if err := st.EnsureLayout(); err != nil {
		vault.Destroy()
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, vault: vault, store: st}, nil
}

func (a *app) close() {
	a.vault.Destroy()
}

func (a *app) accounts() (*accounts.Service, error) {
	chain, err := client.NewChain(a.cfg.Profile, a.logger)
	if err != nil {
		return nil, err
	}
	faucet, err := client.NewFaucet(a.cfg.Profile, a.logger)
	if err != nil {
		return nil, err
	}
	return accounts.NewService(a.cfg, a.store, chain, faucet, a.logger), nil
}

// progressPrinter redraws one status line on stderr while a poller waits. Off a terminal it prints nothing.
func progressPrinter(cmd *cobra.Command, label string) accounts.ProgressFunc {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	out := cmd.ErrOrStderr()
	return func(p poll.Progress) {
		fmt.Fprintf(out, "\r\033[K%s", render.Progress(label, p))
		if p.State == poll.Found || p.State == poll.Aborted || p.State == poll.TimedOut {
			fmt.Fprintln(out)
		}
	}
}
