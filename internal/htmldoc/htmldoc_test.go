package htmldoc

import (
	"errors"
	"testing"
)

func TestParse_RejectsBlankInput(t *testing.T) {
	if _, err := Parse("   \n\t "); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestParse_RecoversMalformedMarkup(t *testing.T) {
	doc, err := Parse("<div class=header>Reikningur <b>Nr. 12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := doc.FirstClassContains("header")
	if n == nil {
		t.Fatalf("expected to find header div in malformed input")
	}
	if got := n.Text(); got != "Reikningur Nr. 12345" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestOwnText_ExcludesNestedElements(t *testing.T) {
	doc, err := Parse(`<div class="name_col">Soðið hangilæri<small>Lager: 44</small></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := doc.FirstClassContains("name_col")
	if n == nil {
		t.Fatalf("missing node")
	}
	if got := n.OwnText(); got != "Soðið hangilæri" {
		t.Fatalf("own text should skip <small>, got %q", got)
	}
	if got := n.Text(); got != "Soðið hangilæriLager: 44" {
		t.Fatalf("inner text should include nested content, got %q", got)
	}
}

func TestAllOwnTextContains_MatchesLabelElementOnly(t *testing.T) {
	doc, err := Parse(`<p><b>Útgáfudagur reiknings</b><br>05.11.2025</p>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nodes := doc.AllOwnTextContains("Útgáfudagur reiknings")
	if len(nodes) != 1 {
		t.Fatalf("expected exactly the <b> to match, got %d matches", len(nodes))
	}
	if nodes[0].Tag() != "b" {
		t.Fatalf("expected <b>, got %q", nodes[0].Tag())
	}
	parent := nodes[0].Parent()
	if parent == nil || parent.Tag() != "p" {
		t.Fatalf("expected <p> parent")
	}
	if got := parent.Text(); got != "Útgáfudagur reiknings05.11.2025" {
		t.Fatalf("parent text should carry the date, got %q", got)
	}
}

func TestText_DecodesEntitiesAndCollapsesNbsp(t *testing.T) {
	doc, err := Parse(`<td>137.214,00&nbsp;&nbsp;kr</td>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := doc.First("td")
	if got := n.Text(); got != "137.214,00 kr" {
		t.Fatalf("expected decoded, collapsed text, got %q", got)
	}
}

func TestNextElement_SkipsTextNodes(t *testing.T) {
	doc, err := Parse(`<div><span>Til greiðslu</span> some text <b>1.000,00</b></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	span := doc.First("span")
	next := span.NextElement()
	if next == nil || next.Tag() != "b" {
		t.Fatalf("expected <b> sibling, got %v", next.Tag())
	}
}

func TestLines_TrimsAndDropsBlank(t *testing.T) {
	doc, err := Parse("<div>Seljandi:\n\n  Prime Seafood ehf.  \n</div><div>kt. 530314-0660</div>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := doc.Lines()
	want := []string{"Seljandi:", "Prime Seafood ehf.", "kt. 530314-0660"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: want %q got %q", i, want[i], lines[i])
		}
	}
}
