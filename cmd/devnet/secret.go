package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/devnet-accounts/internal/secret"
)

func newSecretCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage the secret that encrypts credential files",
	}
	cmd.AddCommand(newSecretInitCmd(f))
	return cmd
}

func newSecretInitCmd(f *flags) *cobra.Command {
	var passphrase bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the secret file, random by default or verifier-only with --passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.SlogLevel())
			provisioner := secret.NewProvisioner(cfg.SecretFile, cfg.CredentialsDir(), logger)

			var file *secret.File
			if passphrase {
				pw, err := readNewPassphrase()
				if err != nil {
					return err
				}
				defer clear(pw)
				file, err = provisioner.CreatePassphrase(pw)
				if err != nil {
					return err
				}
			} else {
				file, err = provisioner.Create()
				if err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "secret %s written to %s\n", file.ID, provisioner.LocalPath())
			return nil
		},
	}
	cmd.Flags().BoolVar(&passphrase, "passphrase", false, "prompt for a passphrase and store only its verifier")
	return cmd
}

func readNewPassphrase() ([]byte, error) {
	first, err := secret.TerminalPrompt("New passphrase: ")
	if err != nil {
		return nil, err
	}
	second, err := secret.TerminalPrompt("Repeat passphrase: ")
	if err != nil {
		clear(first)
		return nil, err
	}
	defer clear(second)

	if !bytes.Equal(first, second) {
		clear(first)
		return nil, errors.New("passphrases do not match")
	}
	return first, nil
}
