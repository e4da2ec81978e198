// Package parse turns a rendered Icelandic invoice document into a
// structured Invoice. Every header field and the grand total resolve
// through ordered tier chains with documented defaults; business-data
// absence is never an error.
package parse

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/aronth/innrigreifi/internal/htmldoc"
	"github.com/aronth/innrigreifi/internal/invoice"
)

// Parser is the extraction engine. It holds no per-call state, so a single
// Parser is safe for concurrent parses of separate documents.
type Parser struct {
	strategies []itemStrategy
}

// New returns a Parser with the built-in layout strategies in priority
// order (table first, then div).
func New() *Parser {
	return &Parser{strategies: defaultStrategies()}
}

// Parse transforms raw invoice HTML into an Invoice. The filename supplies
// the invoice-number default only. An error is returned solely when the
// input has no parsable structure at all; every softer failure degrades to
// the documented field defaults.
func (p *Parser) Parse(content, filename string) (invoice.Invoice, error) {
	doc, err := htmldoc.Parse(content)
	if err != nil {
		return invoice.Invoice{}, fmt.Errorf("parse invoice %s: %w", filename, err)
	}

	inv := invoice.New(stem(filename))
	lines := doc.Lines()

	if number, ok := invoiceNumber(doc); ok {
		inv.Number = number
	}
	if supplier, ok := supplierName(doc, lines); ok {
		inv.Supplier = supplier
	} else {
		inv.Supplier = invoice.UnknownSupplier
	}
	inv.Buyer, inv.BuyerTaxID = buyerIdentity(doc, lines)
	inv.Date = invoiceDate(doc, lines)
	inv.Total = resolveTotal(doc)

	for _, s := range p.strategies {
		if !s.probe(doc) {
			continue
		}
		if items := s.items(doc); len(items) > 0 {
			inv.Items = items
			log.Debug().Str("strategy", s.name()).Int("items", len(items)).
				Str("invoice", inv.Number).Msg("layout strategy selected")
			break
		}
	}

	// A stated total is never overwritten; the item sum applies only when
	// every resolver tier came back empty.
	if inv.Total.IsZero() && len(inv.Items) > 0 {
		for _, item := range inv.Items {
			if item.TotalWithVAT.IsPositive() {
				inv.Total = inv.Total.Add(item.TotalWithVAT)
			} else {
				inv.Total = inv.Total.Add(item.Total)
			}
		}
		log.Debug().Str("invoice", inv.Number).Stringer("total", inv.Total).
			Msg("total recomputed from line items")
	}

	return inv, nil
}

func stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
