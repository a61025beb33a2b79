// src/models/canonical.go
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Mode is the order-type interpretation a row is reconciled under.
type Mode string

const (
	ModePrimary   Mode = "PO" // receiving side: purchase orders and receipts
	ModeSecondary Mode = "SO" // shipping side: sales orders, ship documents and shipments
)

// BothModes lists every mode in evaluation order.
var BothModes = []Mode{ModePrimary, ModeSecondary}

// ParseMode accepts PO/SO and the PRIMARY/SECONDARY aliases, case-insensitively.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PO", "PRIMARY":
		return ModePrimary, true
	case "SO", "SECONDARY":
		return ModeSecondary, true
	}
	return "", false
}

// SourceTag identifies which uploaded file of a multi-file batch produced a row.
type SourceTag string

const (
	SourceNone      SourceTag = ""
	SourcePrimary   SourceTag = "PRIMARY"
	SourceSecondary SourceTag = "SECONDARY"
	SourceCarrier   SourceTag = "CARRIER"
)

// ParseSourceTag maps a form field or flag name to a tag.
func ParseSourceTag(s string) (SourceTag, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return SourceNone, true
	case "PRIMARY", "PO":
		return SourcePrimary, true
	case "SECONDARY", "SO":
		return SourceSecondary, true
	case "CARRIER", "MANIFEST":
		return SourceCarrier, true
	}
	return SourceNone, false
}

// PreferredMode is the mode kept when both modes rank equally.
func (t SourceTag) PreferredMode() Mode {
	switch t {
	case SourceSecondary, SourceCarrier:
		return ModeSecondary
	default:
		return ModePrimary
	}
}

// CanonicalRow is one uploaded business record after header matching and
// value normalization. At least one of OrderNumber and TrackingNumber is set.
type CanonicalRow struct {
	OrderNumber    string              `json:"orderNumber,omitempty" yaml:"orderNumber,omitempty"`
	PartyName      string              `json:"partyName,omitempty" yaml:"partyName,omitempty"`
	TrackingNumber string              `json:"trackingNumber,omitempty" yaml:"trackingNumber,omitempty"` // canonical form
	AssertedDate   *time.Time          `json:"assertedDate,omitempty" yaml:"assertedDate,omitempty"`
	Amount         decimal.NullDecimal `json:"amount" yaml:"amount"`
	SourceTag      SourceTag           `json:"sourceTag,omitempty" yaml:"sourceTag,omitempty"`

	// Line is the 1-based data line in the source file (header excluded).
	Line int `json:"line" yaml:"line"`
}

// Actionable reports whether the row can be looked up at all.
func (r CanonicalRow) Actionable() bool {
	return r.OrderNumber != "" || r.TrackingNumber != ""
}

// AssertedDay formats the asserted date as an ISO day, or "" when absent.
func (r CanonicalRow) AssertedDay() string {
	if r.AssertedDate == nil {
		return ""
	}
	return r.AssertedDate.UTC().Format("2006-01-02")
}

// CanonicalPackage is one shipment or receipt line from the directory.
// Tracking is canonical and never empty.
type CanonicalPackage struct {
	Tracking string     `json:"tracking" yaml:"tracking"`
	Date     *time.Time `json:"date,omitempty" yaml:"date,omitempty"`
}
