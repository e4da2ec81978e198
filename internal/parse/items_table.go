package parse

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aronth/innrigreifi/internal/amount"
	"github.com/aronth/innrigreifi/internal/htmldoc"
	"github.com/aronth/innrigreifi/internal/invoice"
	"github.com/aronth/innrigreifi/internal/sanitize"
	"github.com/google/uuid"
)

// Primary items-table header tokens. A table carrying all three is the
// items table of the tabular layout.
var tableHeaderTokens = []string{"Vörunr", "Lýsing", "Magn"}

// Positional columns of the primary items table.
const (
	colLineNum = 0
	colCode    = 1
	colName    = 2
	colQty     = 3
	colUnit    = 4
	colPrice   = 5
	colVAT     = 6
	colTotal   = 8
	colGross   = 9
)

// discountRow is one row of the optional discount/list-price table, joined
// to the items table by line number.
type discountRow struct {
	listPrice decimal.Decimal
	discount  decimal.Decimal
}

// tableStrategy parses the tabular invoice layout, correlating the optional
// discount table and nested detail region into each line.
type tableStrategy struct{}

func (tableStrategy) name() string { return "table" }

// Probe inspects document structure only.
func (tableStrategy) probe(doc *htmldoc.Document) bool {
	for _, table := range doc.All("table") {
		if hasAll(table.Text(), tableHeaderTokens) {
			return true
		}
	}
	return false
}

func (tableStrategy) items(doc *htmldoc.Document) []invoice.LineItem {
	var itemsTable, discountsTable, detailRegion *htmldoc.Node
	for _, table := range doc.All("table") {
		text := table.Text()
		switch {
		case itemsTable == nil && hasAll(text, tableHeaderTokens):
			itemsTable = table
		case strings.Contains(text, "Línunr.") && strings.Contains(text, "Listaverð"):
			if discountsTable == nil {
				discountsTable = table
			}
		}
		if detailRegion == nil && isDetailRegion(table) {
			detailRegion = table
		}
	}
	if itemsTable == nil {
		return nil
	}

	discounts := parseDiscountTable(discountsTable)
	index := buildCorrelationIndex(detailRegion)

	var items []invoice.LineItem
	for _, row := range itemsTable.All("tr") {
		if item, ok := parseItemRow(row, discounts, index); ok {
			items = append(items, item)
		}
	}
	return items
}

// isDetailRegion matches the caption phrase or the presence of the override
// marker tokens, which appear either as cell text labels or class markers.
func isDetailRegion(table *htmldoc.Node) bool {
	text := table.Text()
	if strings.Contains(text, detailCaption) ||
		strings.Contains(text, markerSalesPrice) ||
		strings.Contains(text, markerLineAmount) {
		return true
	}
	return table.FirstClassContains(markerSalesPrice) != nil ||
		table.FirstClassContains(markerLineAmount) != nil
}

func parseDiscountTable(table *htmldoc.Node) map[int]discountRow {
	rows := make(map[int]discountRow)
	if table == nil {
		return rows
	}
	for _, row := range table.All("tr") {
		if parent := row.Parent(); parent != nil && parent.Tag() == "thead" {
			continue
		}
		cells := row.All("td")
		if len(cells) < 6 {
			continue
		}
		lineNum := atoi(digitsRe.FindString(cells[0].Text()))
		if lineNum == 0 {
			continue
		}
		if _, dup := rows[lineNum]; dup {
			continue
		}
		rows[lineNum] = discountRow{
			listPrice: amount.Parse(cells[3].Text()),
			discount:  amount.Parse(cells[4].Text()),
		}
	}
	return rows
}

// parseItemRow reads one primary-table row and resolves its list price,
// unit price and discount through the override precedence chain:
// item-code detail, line-number detail, discount table, defaults.
func parseItemRow(row *htmldoc.Node, discounts map[int]discountRow, index correlationIndex) (invoice.LineItem, bool) {
	if parent := row.Parent(); parent != nil && parent.Tag() == "thead" {
		return invoice.LineItem{}, false
	}
	cells := row.All("td")
	if len(cells) <= colTotal {
		return invoice.LineItem{}, false
	}
	code := cells[colCode].Text()
	if code == "" || strings.HasPrefix(strings.ToLower(code), "samtals") {
		return invoice.LineItem{}, false
	}
	lineNum := atoi(digitsRe.FindString(cells[colLineNum].Text()))

	item := invoice.LineItem{
		ID:        uuid.New(),
		Code:      code,
		Name:      sanitize.Item(cells[colName].Text()),
		Quantity:  amount.Parse(cells[colQty].Text()),
		Unit:      cells[colUnit].Text(),
		UnitPrice: amount.Parse(cells[colPrice].Text()),
		VATCode:   cells[colVAT].Text(),
		Total:     amount.Parse(cells[colTotal].Text()),
		Discount:  invoice.NoDiscount(),
	}
	if len(cells) > colGross {
		item.TotalWithVAT = amount.Parse(cells[colGross].Text())
	}
	item.ListPrice = item.UnitPrice

	detail, hasDetail := index.lookup(code, lineNum)
	disc, hasDiscountRow := discounts[lineNum]

	if hasDetail && detail.salesPrice.IsPositive() {
		item.ListPrice = detail.salesPrice
	} else if hasDiscountRow && disc.listPrice.IsPositive() {
		item.ListPrice = disc.listPrice
	}
	if hasDiscountRow && disc.discount.IsPositive() {
		item.Discount = invoice.AmountDiscount(disc.discount)
	}
	if hasDetail && detail.lineAmount.IsPositive() {
		qty := item.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		item.UnitPrice = detail.lineAmount.Div(qty)
		item.Total = detail.lineAmount
		if item.Discount.IsZero() && item.ListPrice.IsPositive() {
			pct := item.ListPrice.Sub(item.UnitPrice).
				Div(item.ListPrice).
				Mul(decimal.NewFromInt(100)).
				Round(2)
			if pct.IsPositive() {
				item.Discount = invoice.PercentDiscount(pct)
			}
		}
	}

	return item, item.Valid()
}

func hasAll(text string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(text, tok) {
			return false
		}
	}
	return true
}
