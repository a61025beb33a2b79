package parsers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/shiprecon/src/models"
)

func utcDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateLike(t *testing.T) {
	jan10 := utcDay(2024, 1, 10)

	tests := []struct {
		name string
		cell models.Cell
		want *time.Time
	}{
		{"iso", models.TextCell("2024-01-10"), &jan10},
		{"iso slashes", models.TextCell("2024/1/10"), &jan10},
		{"us", models.TextCell("01/10/2024"), &jan10},
		{"us short year", models.TextCell("1/10/24"), &jan10},
		{"us dashes", models.TextCell("1-10-2024"), &jan10},
		{"spelled month", models.TextCell("Jan 10, 2024"), &jan10},
		{"range with en dash", models.TextCell("1/10/2024 – 1/14/2024"), &jan10},
		{"range with hyphen", models.TextCell("2024-01-10 - 2024-01-14"), &jan10},
		{"range with to", models.TextCell("1/10/2024 to 1/14/2024"), &jan10},
		{"serial", models.NumberCell(45301, "1/10/24"), &jan10},
		{"native", models.Cell{Text: "x", Time: &jan10}, &jan10},
		{"blank", models.TextCell("  "), nil},
		{"garbage", models.TextCell("soon"), nil},
		{"small number is not a serial", models.NumberCell(42, "42"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDateLike(tt.cell)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
		})
	}
}

func TestParseDateLikeSerialKeepsTimeOfDay(t *testing.T) {
	got := parseDateLike(models.NumberCell(45301.5, ""))
	require.NotNil(t, got)
	assert.Equal(t, utcDay(2024, 1, 10).Add(12*time.Hour), *got)
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name  string
		cell  models.Cell
		want  string
		valid bool
	}{
		{"plain", models.TextCell("12.50"), "12.5", true},
		{"currency and thousands", models.TextCell("$1,234.56"), "1234.56", true},
		{"parenthesized", models.TextCell("(123.45)"), "-123.45", true},
		{"parenthesized currency", models.TextCell("($1,000)"), "-1000", true},
		{"negative", models.TextCell("-7"), "-7", true},
		{"numeric cell", models.NumberCell(19.99, "$19.99"), "19.99", true},
		{"blank", models.TextCell(""), "", false},
		{"no digits", models.TextCell("N/A"), "", false},
		{"malformed", models.TextCell("1.2.3"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseMoney(tt.cell)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.Equal(t, tt.want, got.Decimal.String())
			}
		})
	}
}

func TestExtractFirstTracking(t *testing.T) {
	rec := models.RawRecord{
		"Tracking Status": models.TextCell("Delivered via UPS 1z999aa10123456784 on Monday"),
		"Notes":           models.TextCell("ABCDEFGHIJKLMNOP"),
	}
	assert.Equal(t, "1Z999AA10123456784", extractFirstTracking(rec))

	assert.Equal(t, "", extractFirstTracking(models.RawRecord{"Tracking": models.TextCell("short 123")}))
	assert.Equal(t, "", extractFirstTracking(models.RawRecord{}))
}
