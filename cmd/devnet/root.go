package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "devnet",
		Short:         "Encrypted fee payer accounts and contract deployments for development networks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&f.network, "network", "n", "", "network profile (overrides NETWORK)")
	root.PersistentFlags().StringVarP(&f.group, "group", "g", "", "group name (overrides GROUP)")
	root.PersistentFlags().StringVar(&f.root, "root", "", "folder holding credentials/ (overrides CREDENTIALS_ROOT)")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newAccountsCmd(f),
		newContractsCmd(f),
		newServeCmd(f),
		newSecretCmd(f),
	)
	return root
}
