// Package sanitize strips address fragments and annotation noise from the
// supplier, buyer and item names lifted out of invoice markup.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// ", Strandgata 11" / ", 220 Hafnarfjörður"
	streetRe   = regexp.MustCompile(`(?i),\s*[A-Za-zÞÆÖÁÍÉÝÚÓÐþæöáíéýúóð\s]+\s+\d+.*$`)
	postalRe   = regexp.MustCompile(`(?i),\s*\d{3}\s+[A-Za-zÞÆÖÁÍÉÝÚÓÐþæöáíéýúóð].*$`)
	countryRe  = regexp.MustCompile(`,\s*IS\s*$`)
	taxIDRe    = regexp.MustCompile(`\b\d{6}-?\d{4}\b`)
	lagerRe    = regexp.MustCompile(`(?i)\s*\(?Lager(Nr)?:?\s*\d+\)?`)
	bracketRe  = regexp.MustCompile(`\s*[\[(][^\])]+[\])]`)
	vorunrRe   = regexp.MustCompile(`(?i)\s*Vörunr:?\s*\d+`)
	eanRe      = regexp.MustCompile(`(?i)\s*EAN:?\s*[\d-]+`)
	multiSpace = regexp.MustCompile(`\s{2,}`)
)

var foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold returns s with combining marks removed, so "Útgáfudagur" compares
// equal to the ASCII-typed "Utgafudagur" seen in some renderings.
func Fold(s string) string {
	out, _, err := transform.String(foldTransform, s)
	if err != nil {
		return s
	}
	return out
}

// Supplier cleans a supplier display name: trailing street or postal-code
// address fragments and stray punctuation go away.
func Supplier(raw string) string {
	return trimName(stripAddress(normalize(raw)))
}

// Buyer cleans a buyer display name. Beyond the supplier rules it removes an
// embedded kennitala and a trailing ", IS" country marker.
func Buyer(raw string) string {
	s := stripAddress(normalize(raw))
	s = countryRe.ReplaceAllString(s, "")
	s = taxIDRe.ReplaceAllString(s, "")
	return trimName(s)
}

// Item cleans a line-item name: warehouse and product-code annotations,
// bracketed metadata and EAN codes are removed, whitespace is collapsed.
func Item(raw string) string {
	s := normalize(raw)
	s = strings.NewReplacer("|", " ", "\n", " ", "\r", " ").Replace(s)
	s = lagerRe.ReplaceAllString(s, "")
	s = bracketRe.ReplaceAllString(s, "")
	s = vorunrRe.ReplaceAllString(s, "")
	s = eanRe.ReplaceAllString(s, "")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimRight(strings.TrimSpace(s), ",.- ")
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func stripAddress(s string) string {
	s = streetRe.ReplaceAllString(s, "")
	return postalRe.ReplaceAllString(s, "")
}

func trimName(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ",.")
}
