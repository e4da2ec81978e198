package parse

import (
	"strings"

	"github.com/aronth/innrigreifi/internal/amount"
	"github.com/aronth/innrigreifi/internal/htmldoc"
	"github.com/aronth/innrigreifi/internal/invoice"
	"github.com/aronth/innrigreifi/internal/sanitize"
	"github.com/google/uuid"
)

// Structural class markers of the div-based (Peppol rendering) layout.
const (
	divRowHolderClass  = "items_table_body_holder"
	divDataClass       = "items_table_body_data"
	divNameHeaderClass = "items_table_body_data_name_column_header"
)

// Positional fields within one row group.
const (
	divIdxCode  = 1
	divIdxName  = 2
	divIdxQty   = 3
	divIdxPrice = 4
	divIdxVAT   = 5
	divIdxTotal = 6
	divIdxGross = 7
)

// divStrategy parses the div-based layout: repeated structural row groups
// with positional data cells. There is no separate list-price source, so
// list price defaults to the unit price and no discount is recorded.
type divStrategy struct{}

func (divStrategy) name() string { return "div" }

func (divStrategy) probe(doc *htmldoc.Document) bool {
	return doc.FirstClassContains(divRowHolderClass) != nil
}

func (divStrategy) items(doc *htmldoc.Document) []invoice.LineItem {
	var items []invoice.LineItem
	for _, holder := range doc.AllClassContains(divRowHolderClass) {
		if item, ok := parseDivRow(holder); ok {
			items = append(items, item)
		}
	}
	return items
}

func parseDivRow(holder *htmldoc.Node) (invoice.LineItem, bool) {
	var texts []string
	for _, cell := range holder.AllClassContains(divDataClass) {
		// The name header carries the data class prefix but is an
		// annotation container, not a positional cell.
		if strings.Contains(cell.Attr("class"), "column_header") {
			continue
		}
		texts = append(texts, cell.Text())
	}
	if len(texts) < 5 {
		return invoice.LineItem{}, false
	}

	name := texts[divIdxName]
	// Prefer the name column header's direct text, which excludes nested
	// annotation elements like <small>.
	if header := holder.FirstClassContains(divNameHeaderClass); header != nil {
		if own := header.OwnText(); own != "" {
			name = own
		}
	}

	qty, unit := amount.SplitQuantity(texts[divIdxQty])
	item := invoice.LineItem{
		ID:       uuid.New(),
		Code:     strings.TrimSpace(texts[divIdxCode]),
		Name:     sanitize.Item(name),
		Quantity: qty,
		Unit:     unit,
		Discount: invoice.NoDiscount(),
	}
	if len(texts) > divIdxPrice {
		item.UnitPrice = amount.Parse(texts[divIdxPrice])
	}
	if len(texts) > divIdxVAT {
		item.VATCode = strings.TrimSpace(texts[divIdxVAT])
	}
	if len(texts) > divIdxTotal {
		item.Total = amount.Parse(texts[divIdxTotal])
	}
	if len(texts) > divIdxGross {
		item.TotalWithVAT = amount.Parse(texts[divIdxGross])
	}
	item.ListPrice = item.UnitPrice

	return item, item.Valid()
}
