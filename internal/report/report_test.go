package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aronth/innrigreifi/internal/invoice"
)

func TestWriteSummary_ProducesPDF(t *testing.T) {
	inv := invoice.New("761633")
	inv.Supplier = "Norðlenska matborðið ehf"
	inv.Buyer = "Greifinn ehf"
	inv.BuyerTaxID = "5303140660"
	inv.Date = time.Date(2025, 12, 13, 0, 0, 0, 0, time.UTC)
	inv.Total = decimal.RequireFromString("46547.14")
	inv.Items = []invoice.LineItem{{
		Code:      "1680",
		Name:      "Soðið hangilæri",
		Quantity:  decimal.RequireFromString("6.60"),
		Unit:      "KGM",
		UnitPrice: decimal.RequireFromString("6353.60"),
		Discount:  invoice.PercentDiscount(decimal.RequireFromString("20")),
		Total:     decimal.RequireFromString("41933.76"),
	}}

	out := filepath.Join(t.TempDir(), "summary.pdf")
	if err := WriteSummary([]invoice.Invoice{inv}, out); err != nil {
		t.Fatalf("write summary: %v", err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(b), "%PDF-") {
		t.Fatalf("output is not a PDF, starts with %q", b[:min(8, len(b))])
	}
}

func TestWriteSummary_EmptySetStillRenders(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.pdf")
	if err := WriteSummary(nil, out); err != nil {
		t.Fatalf("write summary: %v", err)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Fatalf("stat: %v, size=%v", err, fi)
	}
}

func TestDiscountText(t *testing.T) {
	if got := discountText(invoice.NoDiscount()); got != "" {
		t.Fatalf("no discount rendered as %q", got)
	}
	if got := discountText(invoice.PercentDiscount(decimal.RequireFromString("20"))); got != "20%" {
		t.Fatalf("percent rendered as %q", got)
	}
	if got := discountText(invoice.AmountDiscount(decimal.RequireFromString("30"))); got != "30.00" {
		t.Fatalf("amount rendered as %q", got)
	}
}
