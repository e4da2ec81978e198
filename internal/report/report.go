package report

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/aronth/innrigreifi/internal/invoice"
)

// WriteSummary renders a compact PDF overview of the parsed invoices, one
// block per invoice with its header fields and a line-item table. Layout is
// intentionally simple.
func WriteSummary(invoices []invoice.Invoice, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Reikningar (%d)", len(invoices))), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for _, inv := range invoices {
		writeInvoice(pdf, tr, inv)
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf %s: %w", outPath, err)
	}
	return nil
}

func writeInvoice(pdf *gofpdf.Fpdf, tr func(string) string, inv invoice.Invoice) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Reikningur %s", inv.Number)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	date := ""
	if !inv.Date.IsZero() {
		date = inv.Date.Format("02.01.2006")
	}
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Seljandi: %s", inv.Supplier)), "", 1, "L", false, 0, "")
	buyer := inv.Buyer
	if inv.BuyerTaxID != "" {
		buyer = fmt.Sprintf("%s (%s)", buyer, inv.BuyerTaxID)
	}
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Kaupandi: %s", buyer)), "", 1, "L", false, 0, "")
	if date != "" {
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Dagsetning: %s", date)), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Samtals: %s", money(inv.Total))), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	if len(inv.Items) > 0 {
		writeItems(pdf, tr, inv.Items)
	}
	pdf.Ln(4)
}

var itemColumns = []struct {
	title string
	width float64
}{
	{"Vörunr", 22},
	{"Lýsing", 70},
	{"Magn", 20},
	{"Verð", 26},
	{"Afsl.", 20},
	{"Upphæð", 26},
}

func writeItems(pdf *gofpdf.Fpdf, tr func(string) string, items []invoice.LineItem) {
	pdf.SetFont("Helvetica", "B", 9)
	for _, col := range itemColumns {
		pdf.CellFormat(col.width, 6, tr(col.title), "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range items {
		cells := []string{
			it.Code,
			it.Name,
			it.Quantity.String() + " " + it.Unit,
			money(it.UnitPrice),
			discountText(it.Discount),
			money(it.Total),
		}
		for i, col := range itemColumns {
			pdf.CellFormat(col.width, 5, tr(cells[i]), "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func discountText(d invoice.Discount) string {
	switch d.Kind {
	case invoice.DiscountPercent:
		return d.Value.String() + "%"
	case invoice.DiscountAmount:
		return money(d.Value)
	default:
		return ""
	}
}

func money(v decimal.Decimal) string {
	return v.StringFixed(2)
}
