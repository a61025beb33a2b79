package csvsheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderRead(t *testing.T) {
	input := "\xEF\xBB\xBF PO Number ,Vendor,Vendor,Notes\nPO1,Acme,Second,\"a, b\"\nPO2\n"

	sheet, err := NewReader().Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"PO Number", "Vendor", "Vendor", "Notes"}, sheet.Headers)
	require.Len(t, sheet.Records, 2)

	first := sheet.Records[0]
	assert.Equal(t, "PO1", first.Get("PO Number").Text)
	assert.Equal(t, "Acme", first.Get("Vendor").Text, "first duplicate header wins")
	assert.Equal(t, "a, b", first.Get("Notes").Text)

	second := sheet.Records[1]
	assert.Equal(t, "PO2", second.Get("PO Number").Text)
	assert.True(t, second.Get("Vendor").IsBlank(), "short records leave missing columns blank")
}

func TestReaderReadEmpty(t *testing.T) {
	sheet, err := NewReader().Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, sheet.Headers)
	assert.Empty(t, sheet.Records)
}
