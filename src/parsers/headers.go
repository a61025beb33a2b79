package parsers

import (
	"regexp"
	"strings"
)

// Header synonyms per canonical field, in precedence order. Entries are in
// headerKey form.
var (
	orderSynonyms = []string{
		"po number", "po #", "po no", "po no.",
		"so number", "so #", "so no", "so no.",
		"order number", "order #", "order no", "order no.", "order",
		"no.", "no",
		"document number", "document no", "document no.",
		"vendor invoice/so", "associated so",
		"invoice number", "invoice #", "invoice no", "invoice no.",
		"ship doc", "ship doc #", "ship doc no", "ship doc no.", "shipdoc",
		"shipment number", "shipment #", "shipment no", "shipment no.",
	}

	trackingSynonyms = []string{
		"tracking", "tracking number", "tracking #", "tracking no", "tracking no.",
		"tracking id", "tracking code", "tracking details", "tracking status",
		"shipment tracking", "ups tracking", "carrier tracking",
	}

	partySynonyms = []string{
		"vendor", "vendor name", "supplier", "supplier name",
		"customer", "customer name", "party", "sold to", "bill to", "account name",
	}

	dateSynonyms = []string{
		"date", "transaction date", "po promise date", "promise date",
		"ship date", "shipment date", "invoice date", "asserted date",
		"estimated delivery window", "delivery window",
	}

	amountSynonyms = []string{
		"freight", "freight in", "freight-in", "freight out", "freight-out",
		"total freight", "freight amount", "shipping", "shipping cost",
		"shipping charge", "shipping charges", "total shipping", "delivery charge",
		"transportation", "postage", "carrier charge", "carrier charges",
		"ups charges", "ups charge", "shipment charge",
	}
)

// Literal headers, matched exactly and case-sensitively, consulted only when
// the synonym pass finds nothing.
var (
	orderFallbackHeaders = []string{
		"No.", "No", "Associated SO", "Vendor Invoice/SO",
		"Ship Doc No", "Ship Doc No.", "ShipDoc",
		"Shipment Number", "Shipment No", "Shipment No.",
	}

	trackingPoolHeaders = []string{
		"Tracking", "Tracking Number", "Tracking No", "Tracking NO", "Tracking No.",
		"Tracking #", "Tracking Details", "Tracking Status", "UPS Tracking",
		"Carrier Tracking", "Shipment Tracking",
	}

	dateFallbackHeaders = []string{
		"PO Promise date", "Promise Date", "Ship Date", "Shipment Date",
		"Date", "Estimated Delivery Window",
	}
)

// Tracking columns that hold carrier status prose rather than a bare code.
var freeTextTrackingHeaders = map[string]bool{
	"tracking details": true,
	"tracking status":  true,
}

var headerSeparators = regexp.MustCompile(`[\s_]+`)

// headerKey lower-cases a header and collapses runs of whitespace and
// underscores to one space.
func headerKey(h string) string {
	return strings.TrimSpace(headerSeparators.ReplaceAllString(strings.ToLower(h), " "))
}

// fieldHeaders holds, per canonical field, the sheet's real header names
// ordered by synonym precedence.
type fieldHeaders struct {
	order, tracking, party, date, amount []string
}

func resolveHeaders(headers []string) fieldHeaders {
	byKey := make(map[string]string, len(headers))
	for _, h := range headers {
		k := headerKey(h)
		if k == "" {
			continue
		}
		if _, seen := byKey[k]; !seen {
			byKey[k] = h
		}
	}
	pick := func(synonyms []string) []string {
		var out []string
		for _, s := range synonyms {
			if real, ok := byKey[s]; ok {
				out = append(out, real)
			}
		}
		return out
	}
	return fieldHeaders{
		order:    pick(orderSynonyms),
		tracking: pick(trackingSynonyms),
		party:    pick(partySynonyms),
		date:     pick(dateSynonyms),
		amount:   pick(amountSynonyms),
	}
}
