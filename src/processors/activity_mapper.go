package processors

import (
	"github.com/username/shiprecon/src/models"
	"github.com/username/shiprecon/src/utils"
)

// ExtractPackages flattens a directory activity payload into one package per
// (document, package) pair, stamped with the document's date. Packages
// without a tracking code are dropped. A nil payload yields nothing.
func ExtractPackages(payload *models.ActivityPayload) []models.CanonicalPackage {
	if payload == nil {
		return nil
	}
	var pkgs []models.CanonicalPackage
	for _, doc := range payload.Docs {
		date := utils.ParseTimestamp(doc.DocumentDate())
		for _, p := range doc.Packages {
			tracking := utils.NormalizeTracking(p.TrackingCode())
			if tracking == "" {
				continue
			}
			pkgs = append(pkgs, models.CanonicalPackage{Tracking: tracking, Date: date})
		}
	}
	return pkgs
}

// ExtractParty reads the counterparty of the first document only; the first
// document stands for the whole order.
func ExtractParty(payload *models.ActivityPayload) string {
	if payload == nil || len(payload.Docs) == 0 {
		return ""
	}
	return payload.Docs[0].Party()
}
