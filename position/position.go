// Package position locates a node within the enclosing table structure.
//
// Given any node believed to be inside a table, Resolve walks its ancestor
// chain to find the nearest row and table, and exposes row/column indices,
// the table width, and boundary predicates. Indices count only siblings of
// the relevant type (rows among a table's children, cells among a row's
// children), so they stay correct while invalid siblings are still being
// normalized away.
package position

import (
	"errors"

	"github.com/Kgirthofer/slate-edit-table/align"
	"github.com/Kgirthofer/slate-edit-table/node"
)

// ErrNotInTable is returned when the anchor node has no table ancestor.
var ErrNotInTable = errors.New("position: node is not inside a table")

// TablePosition describes where an anchor node sits inside a table.
type TablePosition struct {
	tree   *node.Tree
	schema node.Schema

	// Table is the nearest table ancestor of the anchor.
	Table *node.Node
	// Row is the nearest row ancestor, or nil when the anchor sits
	// between the table and its rows.
	Row *node.Node
	// Cell is the nearest cell ancestor (or the anchor itself when it is
	// a cell), or nil.
	Cell *node.Node

	anchor node.Key
}

// Resolve walks the ancestors of anchor to build a TablePosition. It
// returns ErrNotInTable when no table ancestor exists.
func Resolve(tree *node.Tree, schema node.Schema, anchor node.Key) (*TablePosition, error) {
	n := tree.Get(anchor)
	if n == nil {
		return nil, ErrNotInTable
	}
	pos := &TablePosition{tree: tree, schema: schema, anchor: anchor}

	chain := append([]*node.Node{n}, tree.Ancestors(anchor)...)
	for _, a := range chain {
		switch {
		case pos.Cell == nil && schema.IsCell(a):
			pos.Cell = a
		case pos.Row == nil && schema.IsRow(a):
			pos.Row = a
		case schema.IsTable(a):
			pos.Table = a
		}
		if pos.Table != nil {
			break
		}
	}
	if pos.Table == nil {
		return nil, ErrNotInTable
	}
	return pos, nil
}

// ColumnIndex returns the index of the enclosing cell among the cells of
// its row, or -1 when the anchor has no cell ancestor.
func (p *TablePosition) ColumnIndex() int {
	if p.Cell == nil || p.Row == nil {
		return -1
	}
	for i, c := range p.tree.ChildrenOfType(p.Row.Key(), p.schema.Cell) {
		if c.Key() == p.Cell.Key() {
			return i
		}
	}
	return -1
}

// RowIndex returns the index of the enclosing row among the rows of the
// table, or -1 when the anchor has no row ancestor.
func (p *TablePosition) RowIndex() int {
	if p.Row == nil {
		return -1
	}
	for i, r := range p.tree.ChildrenOfType(p.Table.Key(), p.schema.Row) {
		if r.Key() == p.Row.Key() {
			return i
		}
	}
	return -1
}

// RowCount returns the number of rows in the table.
func (p *TablePosition) RowCount() int {
	return len(p.tree.ChildrenOfType(p.Table.Key(), p.schema.Row))
}

// Width returns the table's column count: the widest row's cell count,
// with a floor of one.
func (p *TablePosition) Width() int {
	return TableWidth(p.tree, p.schema, p.Table.Key())
}

// IsFirstRow reports whether the enclosing row is the table's first row.
func (p *TablePosition) IsFirstRow() bool {
	return p.RowIndex() == 0
}

// IsLastRow reports whether the enclosing row is the table's last row.
func (p *TablePosition) IsLastRow() bool {
	return p.RowIndex() == p.RowCount()-1
}

// Alignments returns the table's alignment vector, or nil when unset.
func (p *TablePosition) Alignments() []align.Alignment {
	return align.FromData(p.Table.Data())
}

// TableWidth computes the column count of the table with the given key:
// the maximum cell count across its rows, never less than one.
func TableWidth(tree *node.Tree, schema node.Schema, table node.Key) int {
	width := 1
	for _, row := range tree.ChildrenOfType(table, schema.Row) {
		if n := len(tree.ChildrenOfType(row.Key(), schema.Cell)); n > width {
			width = n
		}
	}
	return width
}
