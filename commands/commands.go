package commands

import (
	"errors"

	"github.com/Kgirthofer/slate-edit-table/align"
	"github.com/Kgirthofer/slate-edit-table/node"
	"github.com/Kgirthofer/slate-edit-table/position"
	"github.com/Kgirthofer/slate-edit-table/rules"
)

var (
	ErrColumnRange = errors.New("commands: column index out of range")
	ErrCellRange   = errors.New("commands: target cell out of range")
	ErrBadSize     = errors.New("commands: table dimensions must be positive")
)

// CurrentColumn selects the column of the current selection when passed as
// the column index of SetColumnAlign.
const CurrentColumn = -1

// SetColumnAlign sets the alignment tag of one column. columnIndex may be
// CurrentColumn to use the column the selection sits in. The table's
// alignment vector is resized to the table width, other columns keep their
// tags, and the update is applied as a single node-data edit.
func SetColumnAlign(c *node.Change, s node.Schema, a align.Alignment, columnIndex int) error {
	pos, err := position.Resolve(c.Tree(), s, c.Selection())
	if err != nil {
		return err
	}
	if columnIndex == CurrentColumn {
		columnIndex = pos.ColumnIndex()
	}
	width := pos.Width()
	if columnIndex < 0 || columnIndex >= width {
		return ErrColumnRange
	}
	v := align.Create(width, pos.Alignments())
	v[columnIndex] = a
	table := pos.Table
	return c.SetNodeByKey(table.Key(), "", align.WithVector(table.Data(), v))
}

// InsertTable inserts a new table of the given dimensions after the block
// the selection sits in, or at the end of the document without a usable
// selection. The selection moves into the table's first cell. Inserting
// while already inside a table resolves the position and inserts the new
// table after the enclosing one.
func InsertTable(c *node.Change, s node.Schema, columns, rows int) error {
	if columns < 1 || rows < 1 {
		return ErrBadSize
	}
	t := c.Tree()

	parent := t.Root().Key()
	index := len(t.ChildKeys(parent))
	if sel := t.Get(c.Selection()); sel != nil {
		if pos, err := position.Resolve(t, s, sel.Key()); err == nil {
			parent = t.Parent(pos.Table.Key()).Key()
			index = t.IndexOf(pos.Table.Key()) + 1
		} else if top := topLevelAncestor(t, sel.Key()); top != "" {
			parent = t.Parent(top).Key()
			index = t.IndexOf(top) + 1
		}
	}

	table := t.NewBlock(s.Table, align.WithVector(nil, align.Create(columns, nil)))
	for r := 0; r < rows; r++ {
		row := t.NewBlock(s.Row, nil)
		for col := 0; col < columns; col++ {
			t.AppendChild(row.Key(), rules.EmptyCell(t, s).Key())
		}
		t.AppendChild(table.Key(), row.Key())
	}
	if err := c.InsertNodeByKey(parent, index, table.Key()); err != nil {
		return err
	}
	return selectCell(c, s, table.Key(), 0, 0)
}

// InsertRow inserts a synthesized empty row below the current one, as wide
// as the table, and moves the selection into its first cell.
func InsertRow(c *node.Change, s node.Schema) error {
	pos, err := position.Resolve(c.Tree(), s, c.Selection())
	if err != nil {
		return err
	}
	t := c.Tree()
	width := pos.Width()
	row := t.NewBlock(s.Row, nil)
	for col := 0; col < width; col++ {
		t.AppendChild(row.Key(), rules.EmptyCell(t, s).Key())
	}
	index := t.IndexOf(pos.Row.Key()) + 1
	if err := c.InsertNodeByKey(pos.Table.Key(), index, row.Key()); err != nil {
		return err
	}
	return selectCell(c, s, pos.Table.Key(), pos.RowIndex()+1, 0)
}

// RemoveRow removes the current row. Removing the only row removes the
// whole table instead, since a table may not be empty.
func RemoveRow(c *node.Change, s node.Schema) error {
	pos, err := position.Resolve(c.Tree(), s, c.Selection())
	if err != nil {
		return err
	}
	if pos.RowCount() == 1 {
		return c.RemoveNodeByKey(pos.Table.Key())
	}
	return c.RemoveNodeByKey(pos.Row.Key())
}

// InsertColumn inserts an empty column to the right of the current one:
// one synthesized empty cell per row plus a default tag spliced into the
// alignment vector at the new position.
func InsertColumn(c *node.Change, s node.Schema) error {
	pos, err := position.Resolve(c.Tree(), s, c.Selection())
	if err != nil {
		return err
	}
	t := c.Tree()
	width := pos.Width()
	at := pos.ColumnIndex() + 1

	for _, row := range t.ChildrenOfType(pos.Table.Key(), s.Row) {
		index := cellInsertIndex(t, s, row.Key(), at)
		if err := c.InsertNodeByKey(row.Key(), index, rules.EmptyCell(t, s).Key()); err != nil {
			return err
		}
	}

	v := align.Create(width, pos.Alignments())
	v = append(v[:at], append([]align.Alignment{align.Default}, v[at:]...)...)
	table := pos.Table
	return c.SetNodeByKey(table.Key(), "", align.WithVector(table.Data(), v))
}

// RemoveColumn removes the current column from every row and splices its
// tag out of the alignment vector. Removing the only column removes the
// whole table instead.
func RemoveColumn(c *node.Change, s node.Schema) error {
	pos, err := position.Resolve(c.Tree(), s, c.Selection())
	if err != nil {
		return err
	}
	t := c.Tree()
	width := pos.Width()
	if width == 1 {
		return c.RemoveNodeByKey(pos.Table.Key())
	}
	at := pos.ColumnIndex()
	if at < 0 || at >= width {
		return ErrColumnRange
	}

	for _, row := range t.ChildrenOfType(pos.Table.Key(), s.Row) {
		cells := t.ChildrenOfType(row.Key(), s.Cell)
		if at < len(cells) {
			if err := c.RemoveNodeByKey(cells[at].Key()); err != nil {
				return err
			}
		}
	}

	v := align.Create(width, pos.Alignments())
	v = append(v[:at], v[at+1:]...)
	table := pos.Table
	return c.SetNodeByKey(table.Key(), "", align.WithVector(table.Data(), v))
}

// RemoveTable removes the table enclosing the selection.
func RemoveTable(c *node.Change, s node.Schema) error {
	pos, err := position.Resolve(c.Tree(), s, c.Selection())
	if err != nil {
		return err
	}
	return c.RemoveNodeByKey(pos.Table.Key())
}

// MoveSelection collapses the selection into the cell at the given column
// and row of the enclosing table.
func MoveSelection(c *node.Change, s node.Schema, column, row int) error {
	pos, err := position.Resolve(c.Tree(), s, c.Selection())
	if err != nil {
		return err
	}
	return selectCell(c, s, pos.Table.Key(), row, column)
}

// MoveSelectionBy moves the selection by the given column and row offsets.
// Column movement wraps across rows, so moving one column past the end of
// a row lands on the first cell of the next row (tab traversal); moving
// outside the table entirely is ErrCellRange.
func MoveSelectionBy(c *node.Change, s node.Schema, dColumn, dRow int) error {
	pos, err := position.Resolve(c.Tree(), s, c.Selection())
	if err != nil {
		return err
	}
	width := pos.Width()
	linear := (pos.RowIndex()+dRow)*width + pos.ColumnIndex() + dColumn
	if linear < 0 || linear >= pos.RowCount()*width {
		return ErrCellRange
	}
	return selectCell(c, s, pos.Table.Key(), linear/width, linear%width)
}

// NavigateRow handles vertical caret movement by whole rows. It returns
// false without editing when the movement would leave the table (up from
// the first row, down from the last), so the host's default caret movement
// applies; otherwise it repositions the selection in the target row at the
// same column and returns true.
func NavigateRow(c *node.Change, s node.Schema, offset int) (bool, error) {
	pos, err := position.Resolve(c.Tree(), s, c.Selection())
	if err != nil {
		return false, err
	}
	if offset < 0 && pos.IsFirstRow() {
		return false, nil
	}
	if offset > 0 && pos.IsLastRow() {
		return false, nil
	}
	if err := selectCell(c, s, pos.Table.Key(), pos.RowIndex()+offset, pos.ColumnIndex()); err != nil {
		return false, err
	}
	return true, nil
}

// selectCell collapses the selection onto the text of the cell at the given
// row and column of a table.
func selectCell(c *node.Change, s node.Schema, table node.Key, row, column int) error {
	t := c.Tree()
	tableRows := t.ChildrenOfType(table, s.Row)
	if row < 0 || row >= len(tableRows) {
		return ErrCellRange
	}
	cells := t.ChildrenOfType(tableRows[row].Key(), s.Cell)
	if column < 0 || column >= len(cells) {
		return ErrCellRange
	}
	target := cells[column].Key()
	if text := t.FirstText(target); text != nil {
		target = text.Key()
	}
	c.SelectTo(target)
	return nil
}

// cellInsertIndex maps a cell position to a child index within the row, so
// an insert lands after the at-1'th cell even if stray siblings precede it.
func cellInsertIndex(t *node.Tree, s node.Schema, row node.Key, at int) int {
	cells := 0
	for i, child := range t.Children(row) {
		if cells == at {
			return i
		}
		if s.IsCell(child) {
			cells++
		}
	}
	return len(t.ChildKeys(row))
}

// topLevelAncestor returns the ancestor of key that sits directly under the
// document root, or key itself when it already does.
func topLevelAncestor(t *node.Tree, key node.Key) node.Key {
	root := t.Root().Key()
	current := key
	for {
		p := t.Parent(current)
		if p == nil {
			return ""
		}
		if p.Key() == root {
			return current
		}
		current = p.Key()
	}
}
