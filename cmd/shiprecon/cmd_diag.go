package main

import (
	"github.com/spf13/cobra"

	"github.com/username/shiprecon/src/config"
	"github.com/username/shiprecon/src/security"
	"github.com/username/shiprecon/src/services"
)

// diagCmd probes the directory's activity endpoints.
var diagCmd = &cobra.Command{
	Use:   "diag",
	Short: "Check connectivity and credentials against the order directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.LoadConfig()
		auth, err := security.NewDirectoryAuthorizer(config.Cfg)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		report := services.NewDirectoryService(config.Cfg, auth).Diagnose(ctx)
		p, err := newPrinter(cmd.OutOrStdout(), outputFormat)
		if err != nil {
			return err
		}
		return p.diag(report)
	},
}
