package parsers

import (
	"io"

	"github.com/username/shiprecon/src/models"
)

// SheetReader turns an uploaded file into header-keyed records.
type SheetReader interface {
	Read(file io.Reader) (models.RawSheet, error)
}
