package htmltable

import (
	"strings"

	"github.com/Kgirthofer/slate-edit-table/align"
	"github.com/Kgirthofer/slate-edit-table/node"
)

// Tables returns the keys of all table blocks in the tree, in document
// order.
func Tables(tree *node.Tree, s node.Schema) []node.Key {
	var out []node.Key
	var walk func(k node.Key)
	walk = func(k node.Key) {
		if s.IsTable(tree.Get(k)) {
			out = append(out, k)
		}
		for _, ck := range tree.ChildKeys(k) {
			walk(ck)
		}
	}
	walk(tree.Root().Key())
	return out
}

// ToMarkdown renders a normalized table as a markdown table. The separator
// row encodes the table's alignment vector.
func ToMarkdown(tree *node.Tree, s node.Schema, table node.Key) string {
	rows := tree.ChildrenOfType(table, s.Row)
	if len(rows) == 0 {
		return ""
	}

	var sb strings.Builder

	// Header row
	for _, cell := range tree.ChildrenOfType(rows[0].Key(), s.Cell) {
		sb.WriteString("| ")
		sb.WriteString(escapeMarkdown(tree.TextContent(cell.Key())))
		sb.WriteString(" ")
	}
	sb.WriteString("|\n")

	// Separator carrying alignment
	alignments := align.FromData(tree.Get(table).Data())
	for i := range tree.ChildrenOfType(rows[0].Key(), s.Cell) {
		tag := align.Default
		if i < len(alignments) {
			tag = alignments[i]
		}
		switch tag {
		case align.Left:
			sb.WriteString("|:---")
		case align.Center:
			sb.WriteString("|:---:")
		case align.Right:
			sb.WriteString("|---:")
		default:
			sb.WriteString("|---")
		}
	}
	sb.WriteString("|\n")

	// Data rows
	for _, row := range rows[1:] {
		for _, cell := range tree.ChildrenOfType(row.Key(), s.Cell) {
			sb.WriteString("| ")
			sb.WriteString(escapeMarkdown(tree.TextContent(cell.Key())))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	return sb.String()
}

// ToCSV renders a normalized table as CSV.
func ToCSV(tree *node.Tree, s node.Schema, table node.Key) string {
	var sb strings.Builder
	for _, row := range tree.ChildrenOfType(table, s.Row) {
		cells := tree.ChildrenOfType(row.Key(), s.Cell)
		for j, cell := range cells {
			text := tree.TextContent(cell.Key())
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(cells)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// escapeMarkdown escapes characters that break markdown table syntax.
func escapeMarkdown(text string) string {
	var sb strings.Builder
	for _, r := range text {
		switch r {
		case '|':
			sb.WriteString("\\|")
		case '\n':
			sb.WriteString(" ")
		case '\r':
			// Skip
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
