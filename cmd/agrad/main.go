// Package main provides the agrad CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "v0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agrad",
		Short: "Reverse-mode automatic differentiation for statistical models",
		Long: `agrad computes exact gradients of log densities by reverse-mode
automatic differentiation. The check command verifies the operator set
against finite differences.`,
		SilenceUsage: true,
	}
	root.AddCommand(newVersionCmd(), newCheckCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "agrad %s\n", version)
		},
	}
}
