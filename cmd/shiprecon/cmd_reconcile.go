package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/username/shiprecon/src/config"
	"github.com/username/shiprecon/src/logger"
	"github.com/username/shiprecon/src/models"
	"github.com/username/shiprecon/src/processors"
	"github.com/username/shiprecon/src/security"
	"github.com/username/shiprecon/src/services"
)

var (
	reconcileMode      string
	reconcileStrict    bool
	primaryFiles       []string
	secondaryFiles     []string
	carrierFiles       []string
	reconcileWindow    int
	reconcileNoCache   bool
	failOnUnreconciled bool
)

// reconcileCmd runs one batch against the directory.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile [files...]",
	Short: "Reconcile uploads against the order directory",
	Long: `Runs a reconciliation batch. Positional files are untagged; use
--primary, --secondary and --carrier to tag files by origin.

Mode selection per file:
  --mode PO|SO   every row is checked under that mode only
  --mode AUTO    (default) primary files use PO, secondary files use SO,
                 carrier and untagged files are checked under both and the
                 stronger verdict wins

Examples:
  shiprecon reconcile --mode PO receipts.csv
  shiprecon reconcile --primary po.xlsx --carrier ups.csv --format csv > out.csv`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVarP(&reconcileMode, "mode", "m", "AUTO", "PO, SO or AUTO")
	reconcileCmd.Flags().BoolVar(&reconcileStrict, "strict", false, "Fail the whole batch when any file cannot be parsed")
	reconcileCmd.Flags().StringSliceVar(&primaryFiles, "primary", nil, "Purchase-side files")
	reconcileCmd.Flags().StringSliceVar(&secondaryFiles, "secondary", nil, "Sales or ship-document files")
	reconcileCmd.Flags().StringSliceVar(&carrierFiles, "carrier", nil, "Carrier manifest files")
	reconcileCmd.Flags().IntVar(&reconcileWindow, "window", -1, "Policy window in days (default from POLICY_WINDOW_DAYS)")
	reconcileCmd.Flags().BoolVar(&reconcileNoCache, "no-cache", false, "Disable lookup memoization")
	reconcileCmd.Flags().BoolVar(&failOnUnreconciled, "fail-on-unreconciled", false, "Exit non-zero unless every row is MATCHED or NO_TRACKING_PROVIDED")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	opts, err := batchOptions(reconcileMode, reconcileStrict)
	if err != nil {
		return err
	}

	files, err := loadUploads(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no input files given")
	}

	config.LoadConfig()
	cfg := config.Cfg
	auth, err := security.NewDirectoryAuthorizer(cfg)
	if err != nil {
		return err
	}

	var directory services.Directory = services.NewDirectoryService(cfg, auth)
	if !reconcileNoCache {
		directory = services.NewCachedDirectory(directory, cfg.LookupCacheTTL)
	}
	window := cfg.PolicyWindowDays
	if reconcileWindow >= 0 {
		window = reconcileWindow
	}
	svc := services.NewReconcileService(directory, processors.NewDecisionProcessor(window), processors.NewArbitrationProcessor(), cfg.LookupWorkers)

	ctx, cancel := commandContext(cmd)
	defer cancel()

	result, err := svc.ReconcileBatch(ctx, files, opts)
	if err != nil {
		return err
	}
	logger.L.Info("Reconcile finished", "runID", result.RunID, "rows", len(result.Details))

	p, err := newPrinter(cmd.OutOrStdout(), outputFormat)
	if err != nil {
		return err
	}
	if err := p.batch(result); err != nil {
		return err
	}

	if failOnUnreconciled {
		if n := unreconciled(result); n > 0 {
			return fmt.Errorf("%d row(s) not reconciled", n)
		}
	}
	return nil
}

func batchOptions(mode string, strict bool) (services.BatchOptions, error) {
	opts := services.BatchOptions{Strict: strict}
	if mode == "" || strings.EqualFold(mode, "AUTO") {
		return opts, nil
	}
	m, ok := models.ParseMode(mode)
	if !ok {
		return opts, fmt.Errorf("invalid --mode %q (use PO, SO or AUTO)", mode)
	}
	opts.Mode = &m
	return opts, nil
}

func loadUploads(untagged []string) ([]services.UploadFile, error) {
	groups := []struct {
		paths []string
		tag   models.SourceTag
	}{
		{untagged, models.SourceNone},
		{primaryFiles, models.SourcePrimary},
		{secondaryFiles, models.SourceSecondary},
		{carrierFiles, models.SourceCarrier},
	}

	var files []services.UploadFile
	for _, g := range groups {
		for _, path := range g.paths {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
			files = append(files, services.UploadFile{Name: filepath.Base(path), Data: data, Source: g.tag})
		}
	}
	return files, nil
}

func unreconciled(result *models.BatchResult) int {
	n := 0
	for kind, count := range result.Summary {
		if processors.Tier(kind) < processors.TierCorroborated {
			n += count
		}
	}
	return n
}
