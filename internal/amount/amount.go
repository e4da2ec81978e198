// Package amount parses Icelandic-formatted decimal values out of noisy
// invoice text: currency codes, unit suffixes and entity whitespace are
// tolerated, and a failed parse always yields zero rather than an error.
package amount

import (
	"html"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyRe = regexp.MustCompile(`(?i)\b(ISK|kr|EUR|USD)\b`)
	// Matches Icelandic grouping (137.214,00), plain comma decimals
	// (1234,56), dot decimals (137.5) and bare integers.
	candidateRe = regexp.MustCompile(`\d{1,3}(?:\.\d{3})+(?:,\d+)?|\d+(?:[.,]\d+)?`)
	quantityRe  = regexp.MustCompile(`([\d.,]+)\s*([A-Za-zÞÆÖÁÍÉÝÚÓÐþæöáíéýúóð]*)`)
)

// Parse extracts the most plausible decimal value from text. When several
// numeric candidates are present, one carrying a decimal fraction wins over
// the numerically largest, since fractions mark currency amounts.
func Parse(text string) decimal.Decimal {
	if strings.TrimSpace(text) == "" {
		return decimal.Zero
	}
	text = html.UnescapeString(text)
	text = currencyRe.ReplaceAllString(text, "")

	var max, maxFraction decimal.Decimal
	for _, cand := range candidateRe.FindAllString(text, -1) {
		val, fraction, ok := parseCandidate(cand)
		if !ok {
			continue
		}
		if val.GreaterThan(max) {
			max = val
		}
		if fraction && val.GreaterThan(maxFraction) {
			maxFraction = val
		}
	}
	if maxFraction.IsPositive() {
		return maxFraction
	}
	return max
}

// parseCandidate interprets a single numeric token. A comma makes dots
// thousands separators (the Icelandic convention); a lone dot is read as the
// decimal point for plain or foreign-style numbers.
func parseCandidate(s string) (val decimal.Decimal, fraction bool, ok bool) {
	var clean string
	switch {
	case strings.Contains(s, ","):
		clean = strings.ReplaceAll(s, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
		fraction = true
	case strings.Contains(s, "."):
		// Without a comma the dot is read as a plain decimal point.
		clean = s
		fraction = true
	default:
		clean = s
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false, false
	}
	return d, fraction, true
}

// SplitQuantity splits a combined "10,00 KGM" style cell into its numeric
// quantity and trailing unit code. Either part may come back empty/zero.
func SplitQuantity(text string) (decimal.Decimal, string) {
	text = html.UnescapeString(strings.TrimSpace(text))
	m := quantityRe.FindStringSubmatch(text)
	if m == nil {
		return Parse(text), ""
	}
	return Parse(m[1]), strings.TrimSpace(m[2])
}
