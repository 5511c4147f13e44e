package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	root := &cobra.Command{
		Use:          "server",
		Short:        "Calorie ledger service",
		Long:         "server runs the calorie ledger HTTP API and offers a few maintenance commands.",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.AddCommand(serve, newTDEECmd(), newMigrateCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
