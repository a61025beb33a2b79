package processors

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/shiprecon/src/models"
)

func decodePayload(t *testing.T, raw string) *models.ActivityPayload {
	t.Helper()
	var p models.ActivityPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return &p
}

func TestExtractPackages_FlattensDocuments(t *testing.T) {
	p := decodePayload(t, `{"docs":[
		{"date":"2024-01-11","packages":[{"trackingNumber":"1z-999 a"},{"tracking":"abc123"}]},
		{"shipDate":"2024-02-01T10:00:00Z","packages":[{"trackingNumber":""},{"tracking":1234567890}]},
		{"receiptDate":"not a date","packages":[{"tracking":"zz9"}]},
		{"packages":null}
	]}`)

	pkgs := ExtractPackages(p)

	require.Len(t, pkgs, 4)
	assert.Equal(t, "1Z999A", pkgs[0].Tracking)
	assert.Equal(t, "2024-01-11", pkgs[0].Date.Format("2006-01-02"))
	assert.Equal(t, "ABC123", pkgs[1].Tracking)
	assert.Equal(t, pkgs[0].Date, pkgs[1].Date)
	assert.Equal(t, "1234567890", pkgs[2].Tracking)
	assert.Equal(t, "2024-02-01", pkgs[2].Date.Format("2006-01-02"))
	assert.Equal(t, "ZZ9", pkgs[3].Tracking)
	assert.Nil(t, pkgs[3].Date)
}

func TestExtractPackages_DatePrecedence(t *testing.T) {
	p := decodePayload(t, `{"docs":[{"date":"2024-01-01","shipDate":"2024-05-05","packages":[{"tracking":"A1"}]}]}`)
	pkgs := ExtractPackages(p)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "2024-01-01", pkgs[0].Date.Format("2006-01-02"))
}

func TestExtractPackages_NeverPanics(t *testing.T) {
	assert.Empty(t, ExtractPackages(nil))
	assert.Empty(t, ExtractPackages(&models.ActivityPayload{}))
	assert.Empty(t, ExtractPackages(decodePayload(t, `{"docs":[{"packages":[{"tracking":{"nested":true}}]}]}`)))
}

func TestExtractParty_FirstDocumentOnly(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"party name", `{"docs":[{"partyName":"Acme","vendorName":"V"}]}`, "Acme"},
		{"vendor fallback", `{"docs":[{"vendorName":"Vendor Co"}]}`, "Vendor Co"},
		{"customer fallback", `{"docs":[{"customerName":"Cust"}]}`, "Cust"},
		{"later documents ignored", `{"docs":[{"date":"2024-01-01"},{"partyName":"Later"}]}`, ""},
		{"no documents", `{"docs":[]}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractParty(decodePayload(t, tt.raw)))
		})
	}
	assert.Equal(t, "", ExtractParty(nil))
}
