package parse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aronth/innrigreifi/internal/amount"
	"github.com/aronth/innrigreifi/internal/htmldoc"
)

// Marker tokens identifying the nested detail region and its value cells.
const (
	detailCaption    = "Ítarupplýsingar á línum"
	markerSalesPrice = "OESSalesPrice"
	markerLineAmount = "OESLineAmount"
)

var (
	digitsRe   = regexp.MustCompile(`\d+`)
	itemCodeRe = regexp.MustCompile(`^[A-Za-z0-9.-]+$`)
)

// detailEntry carries the optional override pair a detail row provides.
type detailEntry struct {
	salesPrice decimal.Decimal
	lineAmount decimal.Decimal
}

func (e detailEntry) empty() bool {
	return !e.salesPrice.IsPositive() && !e.lineAmount.IsPositive()
}

// correlationIndex is a single index over the detail region supporting both
// key types into one entry set. Item-code-keyed data wins over
// line-number-keyed data when both resolve for the same logical line.
type correlationIndex struct {
	byLine map[int]detailEntry
	byCode map[string]detailEntry
}

func newCorrelationIndex() correlationIndex {
	return correlationIndex{
		byLine: make(map[int]detailEntry),
		byCode: make(map[string]detailEntry),
	}
}

func (ix correlationIndex) lookup(code string, line int) (detailEntry, bool) {
	if code != "" {
		if e, ok := ix.byCode[code]; ok {
			return e, true
		}
	}
	if line > 0 {
		if e, ok := ix.byLine[line]; ok {
			return e, true
		}
	}
	return detailEntry{}, false
}

// buildCorrelationIndex walks the detail region's rows. The current line
// number is an explicit accumulator: a continuation row that omits its
// ordinal inherits the previous one.
func buildCorrelationIndex(region *htmldoc.Node) correlationIndex {
	ix := newCorrelationIndex()
	if region == nil {
		return ix
	}
	line := 0
	for _, row := range region.All("tr") {
		line = ix.addRow(row, line)
	}
	return ix
}

// addRow registers one detail row and returns the line-number accumulator
// for the next row.
func (ix correlationIndex) addRow(row *htmldoc.Node, current int) int {
	if parent := row.Parent(); parent != nil && parent.Tag() == "thead" {
		return current
	}
	cells := row.All("td")
	if len(cells) < 2 {
		return current
	}
	if m := digitsRe.FindString(cells[0].Text()); m != "" {
		if n := atoi(m); n > 0 {
			current = n
		}
	}
	entry := detailEntry{
		salesPrice: markerValue(row, markerSalesPrice),
		lineAmount: markerValue(row, markerLineAmount),
	}
	if entry.empty() {
		return current
	}
	if current > 0 {
		if _, dup := ix.byLine[current]; !dup {
			ix.byLine[current] = entry
		}
	}
	if code := detailItemCode(cells[1].Text()); code != "" {
		if _, dup := ix.byCode[code]; !dup {
			ix.byCode[code] = entry
		}
	}
	return current
}

// markerValue reads the amount a row carries for one marker, either from a
// cell/span classed with the marker or from a "Marker: value" label in text.
func markerValue(row *htmldoc.Node, marker string) decimal.Decimal {
	if n := row.FirstClassContains(marker); n != nil {
		if v := amount.Parse(n.Text()); v.IsPositive() {
			return v
		}
	}
	for _, cell := range row.All("td") {
		t := cell.Text()
		if i := strings.Index(t, marker); i >= 0 {
			if v := amount.Parse(t[i+len(marker):]); v.IsPositive() {
				return v
			}
		}
	}
	return decimal.Zero
}

func detailItemCode(text string) string {
	text = strings.TrimSpace(text)
	if text == "" || !itemCodeRe.MatchString(text) {
		return ""
	}
	return text
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
