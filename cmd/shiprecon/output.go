package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/username/shiprecon/src/models"
	"github.com/username/shiprecon/src/security/validation"
	"github.com/username/shiprecon/src/services"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatCSV   = "csv"
)

// printer renders command results in one output format.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch f := strings.ToLower(format); f {
	case formatTable, formatJSON, formatYAML, formatCSV:
		return &printer{w: w, format: f}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (use table, json, yaml or csv)", format)
}

// structured writes v as JSON or YAML and reports whether it did.
func (p *printer) structured(v any) (bool, error) {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

var rowColumns = []string{"line", "orderNumber", "partyName", "trackingNumber", "assertedDate", "amount"}

func (p *printer) rows(rows []models.CanonicalRow) error {
	rows = rowsFor(rows)
	if done, err := p.structured(rows); done {
		return err
	}

	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		amount := ""
		if r.Amount.Valid {
			amount = r.Amount.Decimal.StringFixed(2)
		}
		records = append(records, []string{strconv.Itoa(r.Line), r.OrderNumber, r.PartyName, r.TrackingNumber, r.AssertedDay(), amount})
	}
	return p.grid(rowColumns, records)
}

var detailColumns = []string{"row", "file", "mode", "orderNumber", "partyUpload", "trackingUpload", "assertedDate", "verdict", "dayDelta", "poVerdict", "soVerdict", "reason"}

func (p *printer) batch(result *models.BatchResult) error {
	if done, err := p.structured(result); done {
		return err
	}

	records := make([][]string, 0, len(result.Details))
	for _, d := range result.Details {
		delta := ""
		if d.DayDelta != nil {
			delta = strconv.Itoa(*d.DayDelta)
		}
		records = append(records, []string{
			strconv.Itoa(d.Row), d.File, string(d.Mode), d.OrderNumber, d.PartyUpload, d.TrackingUpload,
			d.AssertedDate, string(d.Verdict), delta, string(d.PrimaryVerdict), string(d.SecondaryVerdict), d.Reason,
		})
	}
	if err := p.grid(detailColumns, records); err != nil {
		return err
	}
	if p.format == formatCSV {
		return nil
	}

	fmt.Fprintf(p.w, "\nRun %s\n", result.RunID)
	kinds := make([]string, 0, len(result.Summary))
	for k := range result.Summary {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(p.w, "  %-22s %d\n", k, result.Summary[models.VerdictKind(k)])
	}
	for _, fe := range result.FileErrors {
		fmt.Fprintf(p.w, "  file error: %s: %s\n", fe.File, fe.Message)
	}
	return nil
}

func (p *printer) diag(report services.DiagReport) error {
	if done, err := p.structured(report); done {
		return err
	}

	fmt.Fprintf(p.w, "Base: %s\nAuth: %s\n", report.Base, report.Mode)
	if report.KeyName != "" {
		fmt.Fprintf(p.w, "Key name: %s\n", report.KeyName)
	}
	records := make([][]string, 0, len(report.Results))
	for _, r := range report.Results {
		records = append(records, []string{r.URL, strconv.Itoa(r.Status), strconv.FormatBool(r.OK), r.Message})
	}
	return p.grid([]string{"url", "status", "ok", "message"}, records)
}

// grid writes a header and records as an aligned table or as CSV. CSV cells
// are neutralized against spreadsheet formula injection.
func (p *printer) grid(header []string, records [][]string) error {
	if p.format == formatCSV {
		cw := csv.NewWriter(p.w)
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, rec := range records {
			safe := make([]string, len(rec))
			for i, cell := range rec {
				safe[i] = validation.SanitizeForFormulaInjection(cell)
			}
			if err := cw.Write(safe); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	upper := make([]string, len(header))
	for i, h := range header {
		upper[i] = strings.ToUpper(h)
	}
	fmt.Fprintln(tw, strings.Join(upper, "\t"))
	for _, rec := range records {
		fmt.Fprintln(tw, strings.Join(rec, "\t"))
	}
	return tw.Flush()
}
