// src/parsers/factory.go
package parsers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/username/shiprecon/src/parsers/csvsheet"
	"github.com/username/shiprecon/src/parsers/xlsx"
)

// GetReader selects a reader from the file extension.
func GetReader(fileName string) (SheetReader, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return csvsheet.NewReader(), nil
	case ".xlsx", ".xlsm":
		return xlsx.NewReader(), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected .csv or .xlsx)", ErrUnsupportedFormat, fileName)
	}
}
