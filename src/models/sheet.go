package models

import (
	"strings"
	"time"
)

// Cell is one spreadsheet value. Text is always the display text; Number and
// Time are set only when the source format carries a typed value.
type Cell struct {
	Text   string
	Number *float64
	Time   *time.Time
}

// TextCell builds an untyped cell.
func TextCell(s string) Cell {
	return Cell{Text: s}
}

// NumberCell builds a numeric cell whose display text is text.
func NumberCell(n float64, text string) Cell {
	return Cell{Text: text, Number: &n}
}

// TimeCell builds a native date cell.
func TimeCell(t time.Time) Cell {
	return Cell{Text: t.Format(time.RFC3339), Time: &t}
}

// Value returns the trimmed display text.
func (c Cell) Value() string {
	return strings.TrimSpace(c.Text)
}

// IsBlank reports whether the cell carries nothing.
func (c Cell) IsBlank() bool {
	return c.Number == nil && c.Time == nil && c.Value() == ""
}

// RawRecord is one data line keyed by the header text exactly as written.
type RawRecord map[string]Cell

// Get returns the cell under header, or a blank cell.
func (r RawRecord) Get(header string) Cell {
	return r[header]
}

// HasContent reports whether any cell in the record is non-blank.
func (r RawRecord) HasContent() bool {
	for _, c := range r {
		if !c.IsBlank() {
			return true
		}
	}
	return false
}

// RawSheet is a parsed upload: the header row and the data lines in file order.
type RawSheet struct {
	Headers []string
	Records []RawRecord
}
