package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString decodes a JSON string or number into its text form. The
// directory is inconsistent about numeric tracking codes.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		// Objects, arrays and booleans carry no usable text.
		*f = ""
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the trimmed text.
func (f *FlexString) String() string {
	if f == nil {
		return ""
	}
	return strings.TrimSpace(string(*f))
}

// firstOf returns the first non-empty field in precedence order.
func firstOf(fields ...*FlexString) string {
	for _, f := range fields {
		if s := f.String(); s != "" {
			return s
		}
	}
	return ""
}

// OrderRecord is the directory's view of one order.
type OrderRecord struct {
	OrderNumber  *FlexString `json:"orderNumber,omitempty"`
	PartyName    *FlexString `json:"partyName,omitempty"`
	VendorName   *FlexString `json:"vendorName,omitempty"`
	CustomerName *FlexString `json:"customerName,omitempty"`
}

// Party returns partyName, vendorName or customerName, in that order.
func (o *OrderRecord) Party() string {
	if o == nil {
		return ""
	}
	return firstOf(o.PartyName, o.VendorName, o.CustomerName)
}

// ActivityPayload is the directory's receipts/shipments response.
type ActivityPayload struct {
	Docs []ActivityDocument `json:"docs"`
}

// ActivityDocument is one receipt or shipment document.
type ActivityDocument struct {
	Date         *FlexString       `json:"date,omitempty"`
	ShipDate     *FlexString       `json:"shipDate,omitempty"`
	ReceiptDate  *FlexString       `json:"receiptDate,omitempty"`
	PartyName    *FlexString       `json:"partyName,omitempty"`
	VendorName   *FlexString       `json:"vendorName,omitempty"`
	CustomerName *FlexString       `json:"customerName,omitempty"`
	Packages     []ActivityPackage `json:"packages"`
}

// DocumentDate returns date, shipDate or receiptDate, in that order.
func (d ActivityDocument) DocumentDate() string {
	return firstOf(d.Date, d.ShipDate, d.ReceiptDate)
}

// Party returns partyName, vendorName or customerName, in that order.
func (d ActivityDocument) Party() string {
	return firstOf(d.PartyName, d.VendorName, d.CustomerName)
}

// ActivityPackage is one package line of a document.
type ActivityPackage struct {
	TrackingNumber *FlexString `json:"trackingNumber,omitempty"`
	Tracking       *FlexString `json:"tracking,omitempty"`
}

// TrackingCode returns trackingNumber or tracking, as written.
func (p ActivityPackage) TrackingCode() string {
	return firstOf(p.TrackingNumber, p.Tracking)
}
