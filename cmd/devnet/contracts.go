package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/devnet-accounts/accounts"
	"github.com/AlexZinkM/devnet-accounts/contracts"
	"github.com/AlexZinkM/devnet-accounts/internal/client"
	"github.com/AlexZinkM/devnet-accounts/internal/render"
)

func newContractsCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contracts",
		Aliases: []string{"contract"},
		Short:   "Deploy and list smart contracts",
	}
	cmd.AddCommand(newContractsListCmd(f), newDeployCmd(f))
	return cmd
}

func newContractsListCmd(f *flags) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deployed contracts of the group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(f)
			if err != nil {
				return err
			}
			defer a.close()

			group := a.cfg.Group
			if all {
				group = ""
			}
			listed, err := contracts.List(a.store, group)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Contracts(listed))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every group")
	return cmd
}

func newDeployCmd(f *flags) *cobra.Command {
	var (
		name  string
		payer string
		wait  bool
	)
	cmd := &cobra.Command{
		Use:   "deploy CLASS",
		Short: "Compile CLASS from the build folder and deploy it with a selected fee payer",
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

			// the fee payer has to be funded before the deploy is sent
			sel, err := selectAccount(cmd, service, payer, true)
			if sel != nil {
				fmt.Fprintln(cmd.OutOrStdout(), render.Selection(sel, service.Network()))
			}
			if err != nil {
				return err
			}
			if !sel.Balance.Useable {
				return errors.New("fee payer " + payer + " is not funded")
			}

			deployer := contracts.NewDeployer(a.cfg, a.store, client.NewProverClient(a.cfg.ProverURL, a.logger), service, a.logger)
			result, err := deployer.Deploy(cmd.Context(), contracts.Request{
				ClassName:  args[0],
				Name:       name,
				FeePayer:   sel.Account,
				Wait:       wait,
				OnProgress: progressPrinter(cmd, "waiting for deployment"),
			})
			if result != nil {
				network := service.Network()
				fmt.Fprintf(cmd.OutOrStdout(), "%s deployed at %s\n  file: %s\n  transaction: %s\n",
					result.Contract.Data.SmartContract.ClassName,
					network.WalletURL(result.Contract.Data.Address.Public),
					result.Path,
					network.TransactionURL(result.Hash))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "record name (defaults to CLASS)")
	cmd.Flags().StringVar(&payer, "payer", "deployer", "fee payer account name")
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "wait until the deployment is included")
	return cmd
}

var _ contracts.Confirmer = (*accounts.Service)(nil)
