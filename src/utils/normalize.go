package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var legalEntityToken = regexp.MustCompile(`\b(inc|llc|ltd|co|corp|corporation|company)\b`)

// NormalizeParty reduces a counterparty name to a comparable form: lower case,
// no '.' or ',', no standalone legal-entity suffixes, single spaces.
func NormalizeParty(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s = strings.NewReplacer(".", "", ",", "").Replace(s)
	s = legalEntityToken.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// SameParty reports whether two names normalize to the same non-empty value.
func SameParty(a, b string) bool {
	na, nb := NormalizeParty(a), NormalizeParty(b)
	return na != "" && na == nb
}

// NormalizeTracking upper-cases a tracking code and drops whitespace and hyphens.
func NormalizeTracking(s string) string {
	if s == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return unicode.ToUpper(r)
	}, s)
}
