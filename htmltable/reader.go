// Package htmltable converts between HTML table markup and the editable
// document tree. The reader deliberately preserves malformed structure
// (cells outside rows, ragged rows) so the rule engine can repair it; the
// export functions render a normalized table as markdown or CSV.
package htmltable

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/Kgirthofer/slate-edit-table/align"
	"github.com/Kgirthofer/slate-edit-table/node"
)

// OpenReader parses HTML from an io.Reader into a document tree using the
// schema's block types for tables, rows, and cells.
func OpenReader(r io.Reader, s node.Schema) (*node.Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	tree := node.NewTree()
	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}
	conv := &converter{tree: tree, schema: s}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		conv.convert(c, tree.Root().Key())
	}
	return tree, nil
}

// ParseFragment parses an HTML fragment string into a document tree.
func ParseFragment(markup string, s node.Schema) (*node.Tree, error) {
	return OpenReader(strings.NewReader(markup), s)
}

type converter struct {
	tree   *node.Tree
	schema node.Schema
}

// convert maps one HTML node into the document tree under parent. Table
// structure maps element-for-element with no nesting enforcement, so a
// stray <td> outside a <tr> becomes a loose cell exactly where it was.
func (cv *converter) convert(hn *html.Node, parent node.Key) {
	switch hn.Type {
	case html.TextNode:
		text := collapseWhitespace(norm.NFC.String(hn.Data))
		if strings.TrimSpace(text) == "" {
			return
		}
		t := cv.tree.NewText(text)
		cv.tree.AppendChild(parent, t.Key())

	case html.ElementNode:
		switch hn.Data {
		case "table":
			data := align.WithVector(nil, tableAlignments(hn))
			blk := cv.tree.NewBlock(cv.schema.Table, data)
			cv.tree.AppendChild(parent, blk.Key())
			cv.convertChildren(hn, blk.Key())

		case "thead", "tbody", "tfoot":
			// Transparent wrappers; their rows belong to the table.
			cv.convertChildren(hn, parent)

		case "tr":
			blk := cv.tree.NewBlock(cv.schema.Row, nil)
			cv.tree.AppendChild(parent, blk.Key())
			cv.convertChildren(hn, blk.Key())

		case "td", "th":
			blk := cv.tree.NewBlock(cv.schema.Cell, nil)
			cv.tree.AppendChild(parent, blk.Key())
			cv.convertChildren(hn, blk.Key())

		case "script", "style", "colgroup", "col", "caption":
			return

		case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6",
			"ul", "ol", "li", "blockquote", "pre", "section", "article":
			blk := cv.tree.NewBlock(cv.schema.Content, nil)
			cv.tree.AppendChild(parent, blk.Key())
			cv.convertChildren(hn, blk.Key())

		default:
			// Inline elements flatten into their parent.
			cv.convertChildren(hn, parent)
		}
	}
}

func (cv *converter) convertChildren(hn *html.Node, parent node.Key) {
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		cv.convert(c, parent)
	}
}

// tableAlignments derives the alignment vector from the first row of a
// <table> element, reading the align attribute or an inline text-align
// style from each cell.
func tableAlignments(table *html.Node) []align.Alignment {
	row := findElement(table, "tr")
	if row == nil {
		return nil
	}
	var out []align.Alignment
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		out = append(out, cellAlignment(c))
	}
	return align.Create(len(out), out)
}

func cellAlignment(cell *html.Node) align.Alignment {
	tag := strings.ToLower(getAttr(cell, "align"))
	if tag == "" {
		style := strings.ToLower(getAttr(cell, "style"))
		for _, part := range strings.Split(style, ";") {
			k, v, ok := strings.Cut(part, ":")
			if ok && strings.TrimSpace(k) == "text-align" {
				tag = strings.TrimSpace(v)
			}
		}
	}
	switch tag {
	case "left":
		return align.Left
	case "center":
		return align.Center
	case "right":
		return align.Right
	default:
		return align.Default
	}
}

// findElement finds the first element with the given tag name in a subtree.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// getAttr returns the value of an attribute on a node, or empty string if not found.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// collapseWhitespace reduces runs of whitespace to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
