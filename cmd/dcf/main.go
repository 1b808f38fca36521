package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dcf",
		Short:         "Value companies with a discounted cash flow model",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close(cmd.Context())
		},
	}
	a.bindGlobal(rootCmd)

	rootCmd.AddCommand(
		newValueCmd(a),
		newCompareCmd(a),
		newSummaryCmd(a),
		newAliasesCmd(a),
	)

	return rootCmd
}
