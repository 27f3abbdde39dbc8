package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "inventory",
		Short:         "Inventory ledger: products, stock and sales",
		Long:          "Tracks products and their stock and records sales. Runs the HTTP API (serve) or operates on the store directly.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0,
		"per-command timeout (defaults to REQUEST_TIMEOUT_SEC)")

	// Server
	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newWatchCmd())

	// Data
	root.AddCommand(newProductCmd(opts))
	root.AddCommand(newSaleCmd(opts))

	return root
}
