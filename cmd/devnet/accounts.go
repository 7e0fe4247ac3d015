package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/devnet-accounts/accounts"
	"github.com/AlexZinkM/devnet-accounts/internal/common"
	"github.com/AlexZinkM/devnet-accounts/internal/model"
	"github.com/AlexZinkM/devnet-accounts/internal/render"
)

func newAccountsCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Create, list, inspect and select fee payer accounts",
	}
	cmd.AddCommand(
		newAccountsCreateCmd(f),
		newAccountsListCmd(f),
		newAccountsStatusCmd(f),
		newAccountsSelectCmd(f),
		newAccountsFundCmd(f),
	)
	return cmd
}

func newAccountsCreateCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME...",
		Short: "Generate and fund one account per name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(f)
			if err != nil {
				return err
			}
			defer a.close()

			service, err := a.accounts()
			if err != nil {
				return err
			}

			created, err := service.CreateBatch(cmd.Context(), args)
			for _, c := range created {
				tx := c.Faucet.Transaction
				if c.Faucet.Manual() {
					tx = "rate limited, fund manually"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", c.Account.Data.Name, c.Account.Data.Address.Public, tx)
			}
			return err
		},
	}
}

func newAccountsListCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every readable account file by group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(f)
			if err != nil {
				return err
			}
			defer a.close()

			all, err := a.store.GetAll(model.KindAccounts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Entries("Accounts", all))
			return nil
		},
	}
}

func newAccountsStatusCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "status ADDRESS...",
		Short: "Show live balance and transactions left",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(f)
			if err != nil {
				return err
			}
			defer a.close()

			service, err := a.accounts()
			if err != nil {
				return err
			}
			for _, address := range args {
				fmt.Fprintln(cmd.OutOrStdout(), render.Status(address, service.FetchStatus(cmd.Context(), address)))
			}
			return nil
		},
	}
}

func newAccountsSelectCmd(f *flags) *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "select NAME",
		Short: "Pick a fee payer called NAME, creating one when none is usable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(f)
			if err != nil {
				return err
			}
			defer a.close()

			service, err := a.accounts()
			if err != nil {
				return err
			}

			sel, err := selectAccount(cmd, service, args[0], wait)
			if sel != nil {
				fmt.Fprintln(cmd.OutOrStdout(), render.Selection(sel, service.Network()))
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "wait until a pending or new account is funded")
	return cmd
}

// selectAccount runs a selection and, when asked, waits for its funding
func selectAccount(cmd *cobra.Command, service *accounts.Service, name string, wait bool) (*accounts.Selection, error) {
	sel, err := service.Select(cmd.Context(), name)
	if err != nil {
		return nil, err
	}
	if !wait || !sel.Status.NeedsConfirmation() {
		return sel, nil
	}
	if err := service.Confirm(cmd.Context(), sel, progressPrinter(cmd, "waiting for funding")); err != nil {
		return sel, err
	}
	return sel, nil
}

func newAccountsFundCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "fund FROM ADDRESS AMOUNT",
		Short: "Send AMOUNT from the richest funded account called FROM to ADDRESS",
		Long:  "Tops up an address by hand, for example an account whose faucet request was rate limited. AMOUNT is in whole units (e.g. 0.5).",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(f)
			if err != nil {
				return err
			}
			defer a.close()

			service, err := a.accounts()
			if err != nil {
				return err
			}

			amount, err := common.ParseUnits(args[2], service.Network().Decimals)
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}

			funded, err := service.Fund(cmd.Context(), args[0], args[1], amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %s from %s\n  transaction: %s\n",
				args[2], funded.From.Data.Address.Public, service.Network().TransactionURL(funded.Transaction))
			return nil
		},
	}
}
