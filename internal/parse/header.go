package parse

import (
	"regexp"
	"strings"
	"time"

	"github.com/aronth/innrigreifi/internal/htmldoc"
	"github.com/aronth/innrigreifi/internal/sanitize"
)

const dateLayout = "02.01.2006"

var (
	headingNumberRe  = regexp.MustCompile(`(?i)(?:REIKNINGUR)[\s\-:]+([A-Za-z0-9-]+)`)
	trailingNumberRe = regexp.MustCompile(`(?i)(?:REIKNINGUR)\s*([A-Za-z0-9-]+)`)
	nrLabelRe        = regexp.MustCompile(`(?i)Nr\.?\s*:?\s*([A-Za-z0-9-]+)`)
	bareTokenRe      = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	leadingDigitsRe  = regexp.MustCompile(`^\d{4,}`)
	anyTokenRe       = regexp.MustCompile(`[A-Za-z0-9-]+`)
	kennitalaRe      = regexp.MustCompile(`\b(\d{6}-?\d{4})\b`)
	dateRe           = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)
)

const dateLabel = "Útgáfudagur reiknings"

// invoiceNumber resolves the invoice number through its tier chain. The
// second return is false when every tier missed and the filename-derived
// fallback should stand.
func invoiceNumber(doc *htmldoc.Document) (string, bool) {
	return firstHit(doc,
		numberFromHeading,
		numberFromMarkedHeader,
		numberFromAnyNrLabel,
		numberFromDetailsHeading,
	)
}

// Tier 1: an h1 carrying "REIKNINGUR" with the number trailing it.
func numberFromHeading(doc *htmldoc.Document) (string, bool) {
	for _, h := range doc.All("h1") {
		text := h.Text()
		if !containsFold(text, "reikningur") {
			continue
		}
		if m := headingNumberRe.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), true
		}
		if m := trailingNumberRe.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// Tier 2: the marked header container, scanning sibling blocks when the
// label and its value live in separate divs.
func numberFromMarkedHeader(doc *htmldoc.Document) (string, bool) {
	container := doc.FirstClassContains("hausreikningur")
	if container == nil {
		container = doc.FirstAttrContains("id", "hausreikningur")
	}
	if container == nil {
		return "", false
	}
	if m := nrLabelRe.FindStringSubmatch(container.Text()); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	labels := container.AllOwnTextContains("REIKNINGUR")
	if len(labels) == 0 {
		labels = container.AllOwnTextContains("Reikningur")
	}
	for _, label := range labels {
		parent := label.Parent()
		if parent == nil {
			continue
		}
		seen := false
		for _, div := range parent.All("div") {
			text := div.Text()
			if seen {
				if m := nrLabelRe.FindStringSubmatch(text); m != nil {
					return strings.TrimSpace(m[1]), true
				}
				if bareTokenRe.MatchString(text) && plausibleNumber(text) {
					return text, true
				}
			}
			if containsFold(text, "reikningur") {
				seen = true
			}
		}
	}
	return "", false
}

// Tier 3: any "Nr." label anywhere, guarded against short line ordinals.
func numberFromAnyNrLabel(doc *htmldoc.Document) (string, bool) {
	var nodes []*htmldoc.Node
	for _, marker := range []string{"Nr.", "Nr:", "Nr "} {
		nodes = append(nodes, doc.AllOwnTextContains(marker)...)
	}
	for _, node := range nodes {
		container := node.Parent()
		if container == nil {
			container = node
		}
		if m := nrLabelRe.FindStringSubmatch(container.Text()); m != nil {
			if tok := strings.TrimSpace(m[1]); plausibleNumber(tok) {
				return tok, true
			}
		}
	}
	return "", false
}

// Tier 4: the details container's heading, unless it is the word
// REIKNINGUR itself.
func numberFromDetailsHeading(doc *htmldoc.Document) (string, bool) {
	details := doc.FirstClassContains("document_details")
	if details == nil {
		return "", false
	}
	h := details.First("h1")
	if h == nil {
		return "", false
	}
	text := h.Text()
	if containsFold(text, "reikningur") {
		return "", false
	}
	if m := anyTokenRe.FindString(text); m != "" {
		return m, true
	}
	return "", false
}

func plausibleNumber(tok string) bool {
	return len(tok) >= 4 || leadingDigitsRe.MatchString(tok)
}

// supplierName resolves the cleaned supplier display name, falling back to
// the UnknownSupplier sentinel at the call site.
func supplierName(doc *htmldoc.Document, lines []string) (string, bool) {
	name, ok := firstHit(doc,
		supplierFromMarkedDiv,
		supplierFromSellerInfo,
		func(*htmldoc.Document) (string, bool) { return supplierFromTextScan(lines) },
	)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

func supplierFromMarkedDiv(doc *htmldoc.Document) (string, bool) {
	if n := doc.FirstClassContains("dalkfyrirsogn2"); n != nil {
		if name := sanitize.Supplier(n.Text()); name != "" {
			return name, true
		}
	}
	return "", false
}

func supplierFromSellerInfo(doc *htmldoc.Document) (string, bool) {
	seller := doc.FirstClassContains("seller_info")
	if seller == nil {
		return "", false
	}
	node := seller.First("b")
	if node == nil {
		node = seller.First("h2")
	}
	if node == nil {
		node = seller.FirstClassContains("name")
	}
	if node == nil {
		return "", false
	}
	if name := sanitize.Supplier(node.Text()); name != "" {
		return name, true
	}
	return "", false
}

// supplierFromTextScan walks up to ten lines past a "Seljandi" marker
// looking for a legal-entity suffix.
func supplierFromTextScan(lines []string) (string, bool) {
	idx := indexContaining(lines, "Seljandi")
	if idx < 0 {
		return "", false
	}
	for i := idx + 1; i < len(lines) && i <= idx+10; i++ {
		if hasLegalSuffix(lines[i]) {
			if name := sanitize.Supplier(lines[i]); name != "" {
				return name, true
			}
		}
	}
	return "", false
}

func hasLegalSuffix(line string) bool {
	l := strings.ToLower(line)
	return strings.Contains(l, "ehf") || strings.Contains(l, "hf") || strings.Contains(l, "slf")
}

// buyerIdentity resolves the buyer display name and the normalized
// kennitala. Either may come back empty.
func buyerIdentity(doc *htmldoc.Document, lines []string) (name, taxID string) {
	var section string
	if buyer := doc.FirstClassContains("buyer_info"); buyer != nil {
		section = buyer.RawText()
		name = buyerNameFromBlock(buyer)
	} else {
		name, section = buyerFromLabel(doc)
		if name == "" {
			name, section = buyerFromTextScan(lines)
		}
	}
	if section != "" {
		if m := kennitalaRe.FindStringSubmatch(section); m != nil {
			taxID = strings.ReplaceAll(m[1], "-", "")
		}
	}
	if taxID == "" {
		if ubl := doc.FirstClassContains("UBLID"); ubl != nil {
			if m := kennitalaRe.FindStringSubmatch(ubl.Text()); m != nil {
				taxID = strings.ReplaceAll(m[1], "-", "")
			}
		}
	}
	return name, taxID
}

func buyerNameFromBlock(block *htmldoc.Node) string {
	if b := block.First("b"); b != nil {
		return sanitize.Buyer(b.Text())
	}
	for _, line := range strings.Split(block.RawText(), "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return sanitize.Buyer(t)
		}
	}
	return ""
}

func buyerFromLabel(doc *htmldoc.Document) (name, section string) {
	for _, label := range doc.AllOwnTextContains("Kaupandi") {
		parent := label.Parent()
		if parent == nil {
			continue
		}
		section = parent.RawText()
		if b := parent.First("b"); b != nil {
			return sanitize.Buyer(b.Text()), section
		}
		if items := parent.AllClassContains("ListItem"); len(items) > 0 {
			if b := items[0].First("b"); b != nil {
				return sanitize.Buyer(b.Text()), section
			}
			if t := items[0].Text(); t != "" {
				return sanitize.Buyer(t), section
			}
		}
	}
	return "", ""
}

func buyerFromTextScan(lines []string) (name, section string) {
	idx := indexContaining(lines, "Kaupandi")
	if idx < 0 {
		return "", ""
	}
	for i := idx + 1; i < len(lines) && i <= idx+10; i++ {
		if strings.TrimSpace(lines[i]) != "" {
			return sanitize.Buyer(lines[i]), lines[i]
		}
	}
	return "", ""
}

// invoiceDate scans for the issue-date label and parses a dd.MM.yyyy token
// from the labeled node or its parent container. The zero time means unset;
// no guessed date is ever returned.
func invoiceDate(doc *htmldoc.Document, lines []string) time.Time {
	folded := sanitize.Fold(dateLabel)
	for _, node := range doc.AllOwnTextContains(dateLabel) {
		if d, ok := dateNear(node); ok {
			return d
		}
	}
	// ASCII-typed renderings drop the accents from the label.
	for _, node := range doc.AllOwnTextContains(folded) {
		if d, ok := dateNear(node); ok {
			return d
		}
	}
	for _, line := range lines {
		if containsFold(sanitize.Fold(line), strings.ToLower(folded)) {
			if m := dateRe.FindString(line); m != "" {
				if d, err := time.Parse(dateLayout, m); err == nil {
					return d
				}
			}
		}
	}
	return time.Time{}
}

func dateNear(node *htmldoc.Node) (time.Time, bool) {
	text := node.Text()
	if parent := node.Parent(); parent != nil {
		text = parent.Text()
	}
	if m := dateRe.FindString(text); m != "" {
		if d, err := time.Parse(dateLayout, m); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func indexContaining(lines []string, marker string) int {
	for i, l := range lines {
		if strings.Contains(l, marker) {
			return i
		}
	}
	return -1
}

func containsFold(s, lower string) bool {
	return strings.Contains(strings.ToLower(s), lower)
}
