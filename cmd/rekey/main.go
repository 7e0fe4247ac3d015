// Command rekey re-encrypts every credential file from the current secret to a new one.
// Headers and file names are kept; bodies that the current secret cannot open are left alone.
//
// Usage: go run ./cmd/rekey --to path/to/new-secret.json
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/AlexZinkM/devnet-accounts/internal/config"
	"github.com/AlexZinkM/devnet-accounts/internal/crypto"
	"github.com/AlexZinkM/devnet-accounts/internal/secret"
	"github.com/AlexZinkM/devnet-accounts/internal/store"
)

func main() {
	if err := newRekeyCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRekeyCmd() *cobra.Command {
	var (
		root string
		to   string
	)
	cmd := &cobra.Command{
		Use:           "rekey --to NEW_SECRET_FILE",
		Short:         "Re-encrypt all credential files under a new secret",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if root != "" {
				cfg.Root = root
			}
			logger := slog.New(clog.NewWithOptions(os.Stderr, clog.Options{Level: clog.Level(cfg.SlogLevel())}))

			report, err := rekey(cfg, to, logger)
			if report != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "rekeyed %d files, skipped %d\n", len(report.Rekeyed), len(report.Skipped))
				for _, path := range report.Skipped {
					fmt.Fprintf(cmd.OutOrStdout(), "  skipped %s\n", path)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "set SECRET_FILE=%s for the next runs\n", to)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "folder holding credentials/ (overrides CREDENTIALS_ROOT)")
	cmd.Flags().StringVar(&to, "to", "", "new secret file, created with a random secret when missing")
	cmd.MarkFlagRequired("to")
	return cmd
}

func rekey(cfg config.Config, to string, logger *slog.Logger) (*store.RekeyReport, error) {
	current := secret.NewProvisioner(cfg.SecretFile, cfg.CredentialsDir(), logger)
	if _, path, err := current.Find(); err != nil {
		return nil, fmt.Errorf("current secret: %w", err)
	} else if abs(path) == abs(to) {
		return nil, errors.New("the new secret file is the current one")
	}

	oldSecret, err := current.Secret()
	if err != nil {
		return nil, err
	}
	oldVault, err := crypto.NewVault(oldSecret)
	if err != nil {
		return nil, err
	}
	defer oldVault.Destroy()

	next := secret.NewProvisioner(to, filepath.Dir(to), logger)
	if _, err := secret.Read(to); errors.Is(err, os.ErrNotExist) {
		f, err := next.CreateAt(to)
		if err != nil {
			return nil, err
		}
		logger.Info("new secret file created", "path", to, "id", f.ID)
	}
	newSecret, err := next.Secret()
	if err != nil {
		return nil, err
	}
	if newSecret == oldSecret {
		return nil, errors.New("the new secret equals the current one")
	}
	newVault, err := crypto.NewVault(newSecret)
	if err != nil {
		return nil, err
	}
	defer newVault.Destroy()

	return store.New(cfg.CredentialsDir(), oldVault, logger).Rekey(newVault)
}

func abs(path string) string {
	if p, err := filepath.Abs(path); err == nil {
		return p
	}
	return path
}
