package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/username/shiprecon/src/models"
	"github.com/username/shiprecon/src/parsers"
)

// extractCmd shows what the row extractor makes of a file, without lookups.
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Print the canonical rows extracted from an upload",
	Long: `Parses a CSV or spreadsheet file exactly as a reconcile run would and
prints the canonical rows. The directory is not contacted.

Example:
  shiprecon extract manifest.xlsx --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	rows, err := parsers.ExtractRows(data, path)
	if err != nil {
		return err
	}

	p, err := newPrinter(cmd.OutOrStdout(), outputFormat)
	if err != nil {
		return err
	}
	return p.rows(rows)
}

// rowsFor keeps the extract output shape stable when no rows are present.
func rowsFor(rows []models.CanonicalRow) []models.CanonicalRow {
	if rows == nil {
		return []models.CanonicalRow{}
	}
	return rows
}
