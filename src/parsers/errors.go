package parsers

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned before any parsing when the file
	// extension is neither CSV nor a spreadsheet.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrUnreadableFile wraps reader failures on a supported format.
	ErrUnreadableFile = errors.New("unreadable file")
	// ErrNoActionableRows is matched by *NoActionableRowsError.
	ErrNoActionableRows = errors.New("no actionable rows")
)

// NoActionableRowsError reports a file in which no row carried an order
// number or a tracking number. Headers lists what was found, for diagnosis.
type NoActionableRowsError struct {
	FileName string
	Headers  []string
}

func (e *NoActionableRowsError) Error() string {
	return fmt.Sprintf("%s: missing required column(s): orderNumber or trackingNumber. Found headers: %s",
		e.FileName, strings.Join(e.Headers, " | "))
}

func (e *NoActionableRowsError) Is(target error) bool {
	return target == ErrNoActionableRows
}
