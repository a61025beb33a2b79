package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/username/shiprecon/src/logger"
	"github.com/username/shiprecon/src/models"
	"github.com/username/shiprecon/src/utils"
	"github.com/xuri/excelize/v2"
)

// Reader reads the first worksheet of a workbook; its first row is the header.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

func (p *Reader) Read(file io.Reader) (models.RawSheet, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return models.RawSheet{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.L.Debug("Failed to close workbook", "error", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return models.RawSheet{}, nil
	}
	sheet := sheets[0]

	display, err := f.GetRows(sheet)
	if err != nil {
		return models.RawSheet{}, fmt.Errorf("failed to read rows of sheet %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return models.RawSheet{}, fmt.Errorf("failed to read raw rows of sheet %q: %w", sheet, err)
	}
	if len(display) == 0 {
		return models.RawSheet{}, nil
	}

	headers := make([]string, len(display[0]))
	for i, h := range display[0] {
		headers[i] = strings.TrimSpace(h)
	}

	out := models.RawSheet{Headers: headers, Records: make([]models.RawRecord, 0, len(display)-1)}
	for r := 1; r < len(display); r++ {
		rec := make(models.RawRecord, len(headers))
		for c, h := range headers {
			if h == "" {
				continue
			}
			if _, dup := rec[h]; dup {
				continue
			}
			rec[h] = typedCell(f, sheet, c, r, at(display, r, c), at(raw, r, c))
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

// typedCell recovers the value type that GetRows flattens to text, so that
// date serials and native dates survive number formatting.
func typedCell(f *excelize.File, sheet string, col, row int, text, rawText string) models.Cell {
	cell := models.TextCell(text)
	if strings.TrimSpace(rawText) == "" {
		return cell
	}
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return cell
	}
	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return cell
	}
	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(strings.TrimSpace(rawText), 64); err == nil {
			return models.NumberCell(n, text)
		}
	case excelize.CellTypeDate:
		if t := utils.ParseTimestamp(rawText); t != nil {
			return models.Cell{Text: text, Time: t}
		}
	}
	return cell
}

func at(rows [][]string, r, c int) string {
	if r >= len(rows) || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}
