package parsers

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/username/shiprecon/src/models"
	"github.com/username/shiprecon/src/utils"
)

// ExtractRows parses an uploaded file into canonical rows. The extension is
// checked before any bytes are read.
func ExtractRows(data []byte, fileName string) ([]models.CanonicalRow, error) {
	reader, err := GetReader(fileName)
	if err != nil {
		return nil, err
	}

	sheet, err := reader.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, fileName, err)
	}

	rows := RowsFromSheet(sheet)
	if len(rows) == 0 {
		return nil, &NoActionableRowsError{FileName: fileName, Headers: sheet.Headers}
	}
	return rows, nil
}

// RowsFromSheet maps every actionable record of sheet to a canonical row, in
// file order. Records with neither an order number nor a tracking number are
// dropped.
func RowsFromSheet(sheet models.RawSheet) []models.CanonicalRow {
	fh := resolveHeaders(sheet.Headers)

	var out []models.CanonicalRow
	for i, rec := range sheet.Records {
		if !rec.HasContent() {
			continue
		}
		row := extractRow(rec, fh)
		if !row.Actionable() {
			continue
		}
		row.Line = i + 1
		out = append(out, row)
	}
	return out
}

func extractRow(rec models.RawRecord, fh fieldHeaders) models.CanonicalRow {
	var row models.CanonicalRow

	row.OrderNumber = firstText(rec, fh.order)
	if row.OrderNumber == "" {
		row.OrderNumber = firstText(rec, orderFallbackHeaders)
	}
	row.OrderNumber = strings.Join(strings.Fields(row.OrderNumber), " ")

	tracking, header := firstTextFrom(rec, fh.tracking)
	if tracking != "" && freeTextTrackingHeaders[headerKey(header)] {
		// Status and details columns hold prose, so only an embedded
		// tracking code is kept from them. A bare "Delivered" yields no
		// tracking and the row is judged without one.
		tracking = trackingLike.FindString(tracking)
	}
	if tracking == "" {
		tracking = extractFirstTracking(rec)
	}
	row.TrackingNumber = utils.NormalizeTracking(tracking)

	row.PartyName = firstText(rec, fh.party)

	row.AssertedDate = firstDate(rec, fh.date)
	if row.AssertedDate == nil {
		row.AssertedDate = firstDate(rec, dateFallbackHeaders)
	}

	for _, h := range fh.amount {
		if amt := parseMoney(rec.Get(h)); amt.Valid {
			row.Amount = amt
			break
		}
	}
	return row
}

// firstText returns the first non-empty value under headers, in order.
func firstText(rec models.RawRecord, headers []string) string {
	v, _ := firstTextFrom(rec, headers)
	return v
}

func firstTextFrom(rec models.RawRecord, headers []string) (string, string) {
	for _, h := range headers {
		if v := cellText(rec.Get(h)); v != "" {
			return v, h
		}
	}
	return "", ""
}

func firstDate(rec models.RawRecord, headers []string) *time.Time {
	for _, h := range headers {
		if d := parseDateLike(rec.Get(h)); d != nil {
			return d
		}
	}
	return nil
}
