package parsers

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/shiprecon/src/models"
	"github.com/username/shiprecon/src/security/validation"
)

const (
	excelEpochOffsetDays = 25569 // days from 1899-12-30 to 1970-01-01
	secondsPerDay        = 86400
)

var (
	datePattern      = `(\d{4}[-/]\d{1,2}[-/]\d{1,2}|\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`
	dateRangePattern = regexp.MustCompile(`(?i)` + datePattern + `\s*(?:–|-|to)\s*` + datePattern)
	trackingLike     = regexp.MustCompile(`(?i)[A-Z0-9]{10,}`)
	parenthesized    = regexp.MustCompile(`^\(.*\)$`)
	nonNumeric       = regexp.MustCompile(`[^\d.\-]`)
)

// ISO first, then US month-first, then spelled-out months.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/1/2",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
	"1-2-06",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"02-Jan-06",
	"Mon, Jan 2, 2006",
	"Monday, January 2, 2006",
}

// cellText is the cleaned, trimmed display text of a cell.
func cellText(c models.Cell) string {
	return strings.TrimSpace(validation.CleanCellText(c.Text))
}

// parseDateLike reads an asserted date from a native date, a spreadsheet
// serial, a date string or the first half of a date range.
func parseDateLike(c models.Cell) *time.Time {
	if c.Time != nil {
		t := *c.Time
		return &t
	}
	if c.Number != nil {
		if n := *c.Number; n > 60 && n < 60000 {
			ms := math.Round((n - excelEpochOffsetDays) * secondsPerDay * 1000)
			t := time.UnixMilli(int64(ms)).UTC()
			return &t
		}
	}

	s := cellText(c)
	if s == "" {
		return nil
	}
	if m := dateRangePattern.FindStringSubmatch(s); m != nil {
		return parseDateString(m[1])
	}
	return parseDateString(s)
}

func parseDateString(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// parseMoney reads an advisory amount. Currency symbols and separators are
// dropped and parenthesized values are negative. Unparseable input yields an
// invalid NullDecimal rather than an error.
func parseMoney(c models.Cell) decimal.NullDecimal {
	if c.Number != nil {
		if math.IsNaN(*c.Number) || math.IsInf(*c.Number, 0) {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(*c.Number))
	}

	s := cellText(c)
	if s == "" {
		return decimal.NullDecimal{}
	}
	negative := parenthesized.MatchString(s)
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}
	if negative {
		d = d.Abs().Neg()
	}
	return decimal.NewNullDecimal(d)
}

// extractFirstTracking scans the tracking-labelled cells for the first run of
// ten or more letters and digits. Tracking codes often sit inside free-text
// status cells.
func extractFirstTracking(rec models.RawRecord) string {
	var parts []string
	for _, h := range trackingPoolHeaders {
		if v := cellText(rec.Get(h)); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	m := trackingLike.FindString(strings.Join(parts, " "))
	return strings.ToUpper(m)
}
