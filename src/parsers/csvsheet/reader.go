package csvsheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/username/shiprecon/src/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader reads a CSV upload whose first line is the header.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

func (p *Reader) Read(file io.Reader) (models.RawSheet, error) {
	br := bufio.NewReader(file)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return models.RawSheet{}, nil
	}
	if err != nil {
		return models.RawSheet{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(h)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return models.RawSheet{}, fmt.Errorf("failed to read all CSV records: %w", err)
	}

	sheet := models.RawSheet{Headers: headers, Records: make([]models.RawRecord, 0, len(records))}
	for _, record := range records {
		rec := make(models.RawRecord, len(headers))
		for i, h := range headers {
			if h == "" || i >= len(record) {
				continue
			}
			if _, dup := rec[h]; dup {
				continue
			}
			rec[h] = models.TextCell(record[i])
		}
		sheet.Records = append(sheet.Records, rec)
	}
	return sheet, nil
}
