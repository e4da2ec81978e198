package parse

import (
	"testing"
	"time"

	"github.com/aronth/innrigreifi/internal/htmldoc"
)

func mustDoc(t *testing.T, html string) *htmldoc.Document {
	t.Helper()
	doc, err := htmldoc.Parse(html)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestInvoiceNumber_HeadingTier(t *testing.T) {
	cases := []struct{ html, want string }{
		{`<h1>REIKNINGUR 12345</h1>`, "12345"},
		{`<h1>Reikningur - A-9920</h1>`, "A-9920"},
		{`<h1>REIKNINGUR: 777111</h1>`, "777111"},
	}
	for _, c := range cases {
		got, ok := invoiceNumber(mustDoc(t, c.html))
		if !ok || got != c.want {
			t.Fatalf("invoiceNumber(%q) = (%q, %v), want %q", c.html, got, ok, c.want)
		}
	}
}

func TestInvoiceNumber_MarkedHeaderSiblingScan(t *testing.T) {
	// Label and value in separate sibling divs inside the marked container.
	html := `<div class="righthausreikningur">
		<div>REIKNINGUR</div>
		<div>981234</div>
	</div>`
	got, ok := invoiceNumber(mustDoc(t, html))
	if !ok || got != "981234" {
		t.Fatalf("got (%q, %v)", got, ok)
	}
}

func TestInvoiceNumber_GenericNrScanRejectsShortOrdinals(t *testing.T) {
	// "Nr. 2" is a line ordinal, not an invoice number.
	html := `<div><span>Nr. 2</span></div>`
	if got, ok := invoiceNumber(mustDoc(t, html)); ok {
		t.Fatalf("short ordinal accepted: %q", got)
	}

	html = `<div><span>Nr. 445566</span></div>`
	got, ok := invoiceNumber(mustDoc(t, html))
	if !ok || got != "445566" {
		t.Fatalf("got (%q, %v)", got, ok)
	}
}

func TestInvoiceNumber_DetailsHeadingExcludesReikningurWord(t *testing.T) {
	html := `<div class="document_details"><h1>REIKNINGUR</h1></div>`
	if got, ok := invoiceNumber(mustDoc(t, html)); ok {
		t.Fatalf("the literal word must not become the number, got %q", got)
	}

	html = `<div class="document_details"><h1>INV-20250042</h1></div>`
	got, ok := invoiceNumber(mustDoc(t, html))
	if !ok || got != "INV-20250042" {
		t.Fatalf("got (%q, %v)", got, ok)
	}
}

func TestSupplierName_TextScanTier(t *testing.T) {
	html := `<div>
		<p>Seljandi:</p>
		<p>Reikningsupplýsingar</p>
		<p>Sláturfélag Suðurlands svf. ehf., Fosshálsi 1</p>
	</div>`
	doc := mustDoc(t, html)
	name, ok := supplierName(doc, doc.Lines())
	if !ok || name != "Sláturfélag Suðurlands svf. ehf" {
		t.Fatalf("got (%q, %v)", name, ok)
	}
}

func TestSupplierName_MissesYieldNoValue(t *testing.T) {
	doc := mustDoc(t, `<p>ekkert hér</p>`)
	if name, ok := supplierName(doc, doc.Lines()); ok {
		t.Fatalf("expected miss, got %q", name)
	}
}

func TestBuyerIdentity_FromBuyerInfoBlock(t *testing.T) {
	html := `<div class="buyer_info"><b>Greifinn ehf.</b><br>Glerárgata 20<br>530314-0660, IS</div>`
	doc := mustDoc(t, html)
	name, taxID := buyerIdentity(doc, doc.Lines())
	if name != "Greifinn ehf" {
		t.Fatalf("name = %q", name)
	}
	if taxID != "5303140660" {
		t.Fatalf("tax id = %q", taxID)
	}
}

func TestBuyerIdentity_TaxIDFromUBLIDFallback(t *testing.T) {
	html := `<div class="buyer_info"><b>Greifinn ehf.</b></div>
		<span class="UBLID">0196:5303140660</span>`
	doc := mustDoc(t, html)
	_, taxID := buyerIdentity(doc, doc.Lines())
	if taxID != "5303140660" {
		t.Fatalf("tax id = %q", taxID)
	}
}

func TestInvoiceDate_LabelAndValueSplitAcrossElements(t *testing.T) {
	html := `<p><b>Útgáfudagur reiknings</b><br>05.11.2025</p>`
	doc := mustDoc(t, html)
	want := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	if got := invoiceDate(doc, doc.Lines()); !got.Equal(want) {
		t.Fatalf("date = %v", got)
	}
}

func TestInvoiceDate_AcceptsAccentFreeLabel(t *testing.T) {
	html := `<p>Utgafudagur reiknings: 01.02.2026</p>`
	doc := mustDoc(t, html)
	want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := invoiceDate(doc, doc.Lines()); !got.Equal(want) {
		t.Fatalf("date = %v", got)
	}
}

func TestInvoiceDate_UnsetWhenAbsent(t *testing.T) {
	doc := mustDoc(t, `<p>engin dagsetning</p>`)
	if got := invoiceDate(doc, doc.Lines()); !got.IsZero() {
		t.Fatalf("expected zero time, got %v", got)
	}
}
