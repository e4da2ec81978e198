package parse

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aronth/innrigreifi/internal/amount"
	"github.com/aronth/innrigreifi/internal/htmldoc"
)

// totalLabels are the fixed grand-total labels the layouts use.
var totalLabels = []string{"Samtala reiknings", "Upphæð reiknings", "Til greiðslu"}

// resolveTotal walks the total tier chain. A tier only wins with a value
// above zero; zero means unresolved and the orchestrator may fall back to
// the item sum. A resolved value is never overwritten downstream.
func resolveTotal(doc *htmldoc.Document) decimal.Decimal {
	v, ok := firstHit(doc,
		totalFromPayableMarker,
		totalFromLabels,
		totalFromSummaryBlock,
		totalFromGenericSamtals,
		totalFromLineScan,
	)
	if !ok {
		return decimal.Zero
	}
	return v
}

// Tier 1: the marked payable-amount node.
func totalFromPayableMarker(doc *htmldoc.Document) (decimal.Decimal, bool) {
	if n := doc.FirstClassContains("payable_amount"); n != nil {
		if v := amount.Parse(n.Text()); v.IsPositive() {
			return v, true
		}
	}
	return decimal.Zero, false
}

// Tier 2: fixed label set; the value sits in the same container, in an
// emphasized or cell child, or in a following sibling element.
func totalFromLabels(doc *htmldoc.Document) (decimal.Decimal, bool) {
	for _, label := range totalLabels {
		for _, node := range doc.AllOwnTextContains(label) {
			parent := node.Parent()
			if parent == nil {
				continue
			}
			if v := amount.Parse(parent.Text()); v.IsPositive() {
				return v, true
			}
			for _, cell := range append(parent.All("td"), append(parent.All("b"), parent.All("p")...)...) {
				if v := amount.Parse(cell.Text()); v.IsPositive() {
					return v, true
				}
			}
			for sib := parent.NextElement(); sib != nil; sib = sib.NextElement() {
				if v := amount.Parse(sib.Text()); v.IsPositive() {
					return v, true
				}
			}
		}
	}
	return decimal.Zero, false
}

// Tier 3: the marked summary block; net plus VAT when both resolve, net
// alone otherwise.
func totalFromSummaryBlock(doc *htmldoc.Document) (decimal.Decimal, bool) {
	block := doc.FirstClassContains("upphaedsamantekt")
	if block == nil {
		return decimal.Zero, false
	}
	var net, vat decimal.Decimal
	for _, node := range block.AllOwnTextContains("Samtals:") {
		if strings.Contains(node.Text(), "VSK") {
			continue
		}
		if v := thirdCellValue(node); v.IsPositive() {
			net = v
			break
		}
	}
	for _, node := range block.AllOwnTextContains("Samtals VSK:") {
		if v := thirdCellValue(node); v.IsPositive() {
			vat = v
			break
		}
		if parent := node.Parent(); parent != nil {
			if v := amount.Parse(parent.Text()); v.IsPositive() {
				vat = v
				break
			}
		}
	}
	switch {
	case net.IsPositive() && vat.IsPositive():
		return net.Add(vat), true
	case net.IsPositive():
		return net, true
	}
	return decimal.Zero, false
}

// thirdCellValue reads the amount from the third cell of the labeled row,
// where the summary layouts place it.
func thirdCellValue(node *htmldoc.Node) decimal.Decimal {
	parent := node.Parent()
	if parent == nil {
		return decimal.Zero
	}
	cells := parent.All("td")
	if len(cells) >= 3 {
		return amount.Parse(cells[2].Text())
	}
	return decimal.Zero
}

// Tier 4: any "Samtals" context; the grand total is the largest number in a
// summary context.
func totalFromGenericSamtals(doc *htmldoc.Document) (decimal.Decimal, bool) {
	max := decimal.Zero
	for _, node := range doc.AllOwnTextContains("Samtals") {
		parent := node.Parent()
		if parent == nil {
			continue
		}
		cells := parent.All("td")
		if len(cells) == 0 {
			if v := amount.Parse(parent.Text()); v.GreaterThan(max) {
				max = v
			}
			continue
		}
		for _, cell := range cells {
			if v := amount.Parse(cell.Text()); v.GreaterThan(max) {
				max = v
			}
		}
	}
	return max, max.IsPositive()
}

// Tier 5: raw line scan for the fixed label set.
func totalFromLineScan(doc *htmldoc.Document) (decimal.Decimal, bool) {
	for _, line := range doc.Lines() {
		for _, label := range totalLabels {
			if containsFold(line, strings.ToLower(label)) {
				if v := amount.Parse(line); v.IsPositive() {
					return v, true
				}
			}
		}
	}
	return decimal.Zero, false
}
