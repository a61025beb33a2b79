package validation

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateClientContentType(t *testing.T) {
	assert.NoError(t, ValidateClientContentType("text/csv"))
	assert.NoError(t, ValidateClientContentType("text/csv; charset=utf-8"))
	assert.NoError(t, ValidateClientContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	assert.ErrorIs(t, ValidateClientContentType("image/png"), ErrValidationFailed)
}

func TestValidateFileContentByMagicBytes(t *testing.T) {
	csv := bytes.NewReader([]byte("PO Number,Tracking\nPO100,1Z999\n"))
	detected, err := ValidateFileContentByMagicBytes(csv, "upload.csv")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", detected)

	rest, err := io.ReadAll(csv)
	require.NoError(t, err)
	assert.Equal(t, "PO Number,Tracking\nPO100,1Z999\n", string(rest), "read position is reset")

	png := bytes.NewReader([]byte("\x89PNG\r\n\x1a\n0000000000"))
	_, err = ValidateFileContentByMagicBytes(png, "upload.csv")
	assert.ErrorIs(t, err, ErrValidationFailed)

	zipped := bytes.NewReader([]byte("PK\x03\x04rest-of-archive"))
	detected, err = ValidateFileContentByMagicBytes(zipped, "upload.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "application/zip", detected)

	_, err = ValidateFileContentByMagicBytes(bytes.NewReader([]byte("a,b\n")), "upload.xlsx")
	assert.ErrorIs(t, err, ErrValidationFailed)
}
