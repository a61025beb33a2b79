package validation

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/username/shiprecon/src/logger"
)

// ErrValidationFailed marks uploads rejected before parsing.
var ErrValidationFailed = errors.New("upload validation failed")

// AllowedClientContentTypes is a map for quick lookup of allowed client-declared MIME types.
var AllowedClientContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true, // Often used for CSV by older Excel
	"text/plain":               true,
	"application/octet-stream": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel.sheet.macroenabled.12":                    true,
	"application/zip": true,
	"":                true, // curl and some browsers omit it
}

// ValidateClientContentType checks the Content-Type header provided by the client.
func ValidateClientContentType(contentType string) error {
	base := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if allowed, exists := AllowedClientContentTypes[base]; !exists || !allowed {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("%w: client-declared file type '%s' is not allowed", ErrValidationFailed, contentType)
	}
	return nil
}

// ValidateFileContentByMagicBytes checks that the content signature matches
// the extension: text for .csv, a zip container for .xlsx/.xlsm. Other
// extensions are left to the parser factory. The read position is reset.
func ValidateFileContentByMagicBytes(file io.ReadSeeker, fileName string) (string, error) {
	if file == nil {
		return "", fmt.Errorf("%w: file is nil", ErrValidationFailed)
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}

	detectedContentType := http.DetectContentType(buffer[:n])
	detectedContentType = strings.ToLower(strings.Split(detectedContentType, ";")[0])

	var allowedDetectedTypes map[string]bool
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		allowedDetectedTypes = map[string]bool{
			"text/plain":               true,
			"text/csv":                 true,
			"application/csv":          true,
			"application/octet-stream": true,
		}
	case ".xlsx", ".xlsm":
		allowedDetectedTypes = map[string]bool{
			"application/zip":          true,
			"application/octet-stream": true,
		}
	default:
		return detectedContentType, nil
	}

	if !allowedDetectedTypes[detectedContentType] {
		logger.L.Warn("Disallowed detected file content type (magic bytes)", "detectedContentType", detectedContentType, "filename", fileName)
		return detectedContentType, fmt.Errorf("%w: detected file content type '%s' is not consistent with %s", ErrValidationFailed, detectedContentType, fileName)
	}

	logger.L.Debug("File content type (magic bytes) validated", "detectedContentType", detectedContentType)
	return detectedContentType, nil
}
