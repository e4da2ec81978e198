package parse

import (
	"github.com/aronth/innrigreifi/internal/htmldoc"
	"github.com/aronth/innrigreifi/internal/invoice"
)

// itemStrategy is one line-item layout parser. Probing inspects document
// structure only; the two layouts are mutually exclusive per document and
// results are never merged.
type itemStrategy interface {
	name() string
	probe(doc *htmldoc.Document) bool
	items(doc *htmldoc.Document) []invoice.LineItem
}

// strategies in fixed priority order: the first whose probe succeeds and
// whose parse yields at least one item wins.
func defaultStrategies() []itemStrategy {
	return []itemStrategy{tableStrategy{}, divStrategy{}}
}
