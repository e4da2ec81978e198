// Package htmldoc wraps an HTML tree behind the small query surface the
// invoice extractors need: substring matching on attributes and direct text,
// entity-decoded inner text, direct-child text, and parent/sibling moves.
// Extraction logic never touches the underlying HTML library directly.
package htmldoc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrEmptyDocument signals input with no recoverable structure at all.
// Anything the tokenizer can salvage is handled best-effort instead.
var ErrEmptyDocument = errors.New("htmldoc: no parsable structure")

// Document is a parsed, navigable HTML document.
type Document struct {
	doc *goquery.Document
}

// Node is a single element within a Document.
type Node struct {
	sel *goquery.Selection
}

// Parse builds a Document from raw HTML text. Malformed markup is recovered
// best-effort; only blank input or a tokenizer failure returns an error.
func Parse(content string) (*Document, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyDocument
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parse: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Text returns the entity-decoded text of the whole document.
func (d *Document) Text() string {
	return d.doc.Text()
}

// Lines returns the document text split into trimmed, non-blank lines.
func (d *Document) Lines() []string {
	raw := strings.Split(d.doc.Text(), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, collapseSpaces(t))
		}
	}
	return lines
}

// FirstClassContains returns the first element whose class attribute contains
// substr, or nil.
func (d *Document) FirstClassContains(substr string) *Node {
	return firstOf(d.AllClassContains(substr))
}

// AllClassContains returns every element whose class attribute contains substr.
func (d *Document) AllClassContains(substr string) []*Node {
	return toNodes(d.doc.Find(fmt.Sprintf(`[class*=%q]`, substr)))
}

// FirstAttrContains returns the first element whose named attribute contains
// substr, or nil.
func (d *Document) FirstAttrContains(attr, substr string) *Node {
	return firstOf(toNodes(d.doc.Find(fmt.Sprintf(`[%s*=%q]`, attr, substr))))
}

// AllOwnTextContains returns every element whose direct text nodes contain
// substr. Nested element text does not count, which separates a label from
// annotations wrapped in child elements.
func (d *Document) AllOwnTextContains(substr string) []*Node {
	var out []*Node
	d.doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if strings.Contains(ownText(s), substr) {
			out = append(out, &Node{sel: s})
		}
	})
	return out
}

// First returns the first element matching the tag selector, or nil.
func (d *Document) First(selector string) *Node {
	return firstOf(d.All(selector))
}

// All returns every element matching the tag selector.
func (d *Document) All(selector string) []*Node {
	return toNodes(d.doc.Find(selector))
}

// Text returns the node's entity-decoded inner text with whitespace runs
// collapsed and the ends trimmed.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return collapseSpaces(strings.TrimSpace(n.sel.Text()))
}

// RawText returns the node's inner text with original line structure intact.
func (n *Node) RawText() string {
	if n == nil {
		return ""
	}
	return n.sel.Text()
}

// OwnText returns only the text held by the node's direct text children,
// excluding anything inside nested elements.
func (n *Node) OwnText() string {
	if n == nil {
		return ""
	}
	return collapseSpaces(strings.TrimSpace(ownText(n.sel)))
}

// Parent returns the parent element, or nil at the root.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return firstOf(toNodes(n.sel.Parent()))
}

// NextElement returns the following sibling element, or nil.
func (n *Node) NextElement() *Node {
	if n == nil {
		return nil
	}
	return firstOf(toNodes(n.sel.Next()))
}

// Tag returns the lower-case element name.
func (n *Node) Tag() string {
	if n == nil || len(n.sel.Nodes) == 0 {
		return ""
	}
	return strings.ToLower(n.sel.Nodes[0].Data)
}

// Attr returns the value of the named attribute, or "".
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	v, _ := n.sel.Attr(name)
	return v
}

// First returns the first descendant matching the selector, or nil.
func (n *Node) First(selector string) *Node {
	if n == nil {
		return nil
	}
	return firstOf(toNodes(n.sel.Find(selector)))
}

// All returns every descendant matching the selector.
func (n *Node) All(selector string) []*Node {
	if n == nil {
		return nil
	}
	return toNodes(n.sel.Find(selector))
}

// FirstClassContains returns the first descendant whose class contains substr.
func (n *Node) FirstClassContains(substr string) *Node {
	if n == nil {
		return nil
	}
	return firstOf(toNodes(n.sel.Find(fmt.Sprintf(`[class*=%q]`, substr))))
}

// AllClassContains returns every descendant whose class contains substr.
func (n *Node) AllClassContains(substr string) []*Node {
	if n == nil {
		return nil
	}
	return toNodes(n.sel.Find(fmt.Sprintf(`[class*=%q]`, substr)))
}

// AllOwnTextContains returns every descendant whose direct text nodes
// contain substr.
func (n *Node) AllOwnTextContains(substr string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	n.sel.Find("*").Each(func(_ int, s *goquery.Selection) {
		if strings.Contains(ownText(s), substr) {
			out = append(out, &Node{sel: s})
		}
	})
	return out
}

func ownText(s *goquery.Selection) string {
	if len(s.Nodes) == 0 {
		return ""
	}
	var b strings.Builder
	for c := s.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func toNodes(s *goquery.Selection) []*Node {
	out := make([]*Node, 0, s.Length())
	s.Each(func(_ int, e *goquery.Selection) {
		out = append(out, &Node{sel: e})
	})
	return out
}

func firstOf(nodes []*Node) *Node {
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\u00a0' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}
