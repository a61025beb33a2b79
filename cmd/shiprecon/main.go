package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/username/shiprecon/src/logger"
)

var (
	// Global flags
	outputFormat string
	logLevel     string
	timeout      time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shiprecon",
	Short: "Reconcile shipping and receiving uploads against the order directory",
	Long: `shiprecon checks spreadsheet rows (purchase orders, sales orders, ship
documents, carrier manifests) against the order-management directory and
classifies every row with a verdict.

Directory settings come from the environment (or a .env file), the same
variables the HTTP server reads.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := newPrinter(cmd.OutOrStdout(), outputFormat); err != nil {
			return err
		}
		logger.InitLoggerTo(cmd.ErrOrStderr(), logLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", formatTable, "Output format: table, json, yaml or csv")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level written to stderr")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Overall deadline for directory calls")

	rootCmd.AddCommand(extractCmd, reconcileCmd, diagCmd)
}

// commandContext derives a context that ends on SIGINT/SIGTERM or timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	ctx, stop := signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
