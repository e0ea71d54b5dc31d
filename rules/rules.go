package rules

import (
	"github.com/Kgirthofer/slate-edit-table/align"
	"github.com/Kgirthofer/slate-edit-table/node"
	"github.com/Kgirthofer/slate-edit-table/position"
)

// DefaultRules returns the structural rules in their prescribed order.
// Later rules assume the invariants of earlier ones, so this order reaches
// the fixpoint with the least intermediate churn.
func DefaultRules() []Rule {
	return []Rule{
		cellContentRule{},
		cellContainmentRule{},
		rowContainmentRule{},
		tableContentRule{},
		rowColumnsRule{},
		alignmentRule{},
	}
}

// EmptyCell synthesizes a detached cell block containing one empty text
// node.
func EmptyCell(t *node.Tree, s node.Schema) *node.Node {
	cell := t.NewBlock(s.Cell, nil)
	text := t.NewText("")
	t.AppendChild(cell.Key(), text.Key())
	return cell
}

// EmptyRow synthesizes a detached row block containing one empty cell.
func EmptyRow(t *node.Tree, s node.Schema) *node.Node {
	row := t.NewBlock(s.Row, nil)
	cell := EmptyCell(t, s)
	t.AppendChild(row.Key(), cell.Key())
	return row
}

// cellContentRule keeps cells free of block children. A block found inside
// a cell is unwrapped in place, promoting its content to the cell; when the
// block was not the first child and carries text, a newline is prepended so
// the line separation survives the unwrap.
type cellContentRule struct{}

func (cellContentRule) Name() string { return "cell-content" }

func (cellContentRule) Match(t *node.Tree, s node.Schema, n *node.Node) bool {
	return s.IsCell(n)
}

func (cellContentRule) Validate(t *node.Tree, s node.Schema, n *node.Node) *Violation {
	var keys []node.Key
	for _, c := range t.Children(n.Key()) {
		if c.IsBlock() {
			keys = append(keys, c.Key())
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return &Violation{Keys: keys}
}

func (cellContentRule) Normalize(c *node.Change, s node.Schema, n *node.Node, v *Violation) error {
	t := c.Tree()
	for _, key := range v.Keys {
		if t.Get(key) == nil {
			continue
		}
		if t.IndexOf(key) > 0 {
			if text := t.FirstText(key); text != nil {
				if err := c.InsertTextByKey(text.Key(), 0, "\n"); err != nil {
					return err
				}
			}
		}
		if err := c.UnwrapNodeByKey(key); err != nil {
			return err
		}
	}
	return nil
}

// cellContainmentRule gives every loose cell a row ancestor. Consecutive
// loose cells are wrapped together into a single synthesized row, so a run
// of orphan cells becomes one row rather than one row per cell.
type cellContainmentRule struct{}

func (cellContainmentRule) Name() string { return "cell-containment" }

func (cellContainmentRule) Match(t *node.Tree, s node.Schema, n *node.Node) bool {
	// Cells are excluded: a stray cell inside a cell is dissolved by the
	// cell-content rule, not wrapped into a nested row.
	return n.Kind() == node.KindDocument || (n.IsBlock() && !s.IsRow(n) && !s.IsCell(n))
}

func (cellContainmentRule) Validate(t *node.Tree, s node.Schema, n *node.Node) *Violation {
	var keys []node.Key
	for _, c := range t.Children(n.Key()) {
		if s.IsCell(c) {
			keys = append(keys, c.Key())
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return &Violation{Keys: keys}
}

func (cellContainmentRule) Normalize(c *node.Change, s node.Schema, n *node.Node, v *Violation) error {
	return wrapRuns(c, n, func(child *node.Node) bool {
		return s.IsCell(child)
	}, func(run []node.Key) (string, map[string]any) {
		return s.Row, nil
	})
}

// rowContainmentRule gives every loose row a table ancestor. Consecutive
// loose rows are wrapped together into one synthesized table whose
// alignment vector is sized to the widest row in the run.
type rowContainmentRule struct{}

func (rowContainmentRule) Name() string { return "row-containment" }

func (rowContainmentRule) Match(t *node.Tree, s node.Schema, n *node.Node) bool {
	// Cells are excluded for the same reason as in cell containment:
	// re-wrapping rows inside a cell would fight the cell-content rule.
	return n.Kind() == node.KindDocument || (n.IsBlock() && !s.IsTable(n) && !s.IsCell(n))
}

func (rowContainmentRule) Validate(t *node.Tree, s node.Schema, n *node.Node) *Violation {
	var keys []node.Key
	for _, c := range t.Children(n.Key()) {
		if s.IsRow(c) {
			keys = append(keys, c.Key())
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return &Violation{Keys: keys}
}

func (rowContainmentRule) Normalize(c *node.Change, s node.Schema, n *node.Node, v *Violation) error {
	t := c.Tree()
	return wrapRuns(c, n, func(child *node.Node) bool {
		return s.IsRow(child)
	}, func(run []node.Key) (string, map[string]any) {
		width := 0
		for _, rk := range run {
			if cells := len(t.ChildrenOfType(rk, s.Cell)); cells > width {
				width = cells
			}
		}
		return s.Table, align.WithVector(nil, align.Create(width, nil))
	})
}

// wrapRuns wraps each run of consecutive matching children of n in a new
// block whose type and data are produced from the run.
func wrapRuns(c *node.Change, n *node.Node, match func(*node.Node) bool, wrapper func([]node.Key) (string, map[string]any)) error {
	t := c.Tree()
	var run []node.Key
	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		typ, data := wrapper(run)
		wrapKey, err := c.WrapBlockByKey(run[0], typ, data)
		if err != nil {
			return err
		}
		for i, k := range run[1:] {
			if err := c.MoveNodeByKey(k, wrapKey, i+1); err != nil {
				return err
			}
		}
		run = nil
		return nil
	}
	for _, child := range t.Children(n.Key()) {
		if match(child) {
			run = append(run, child.Key())
			continue
		}
		if err := flush(); err != nil {
			return err
		}
	}
	return flush()
}

// tableContentRule keeps tables containing only rows, and never empty.
// Non-row children are removed; a table left with no rows receives one
// synthesized empty row.
type tableContentRule struct{}

func (tableContentRule) Name() string { return "table-content" }

func (tableContentRule) Match(t *node.Tree, s node.Schema, n *node.Node) bool {
	return s.IsTable(n)
}

func (tableContentRule) Validate(t *node.Tree, s node.Schema, n *node.Node) *Violation {
	children := t.Children(n.Key())
	var keys []node.Key
	for _, c := range children {
		if !s.IsRow(c) {
			keys = append(keys, c.Key())
		}
	}
	if len(keys) == 0 && len(children) > 0 {
		return nil
	}
	return &Violation{Keys: keys}
}

func (tableContentRule) Normalize(c *node.Change, s node.Schema, n *node.Node, v *Violation) error {
	t := c.Tree()
	for _, key := range v.Keys {
		// Loose cells under a table are wrapped by the containment
		// rules earlier in the pass; anything still here is noise.
		if err := c.RemoveNodeByKey(key); err != nil {
			return err
		}
	}
	if len(t.ChildrenOfType(n.Key(), s.Row)) == 0 {
		row := EmptyRow(t, s)
		if err := c.InsertNodeByKey(n.Key(), 0, row.Key()); err != nil {
			return err
		}
	}
	return nil
}

// rowColumnsRule makes every row of a table exactly as wide as the table.
// Non-cell blocks inside a row are retyped into cells, other stray content
// is wrapped in a cell, and short rows (zero-cell rows included) are padded
// with synthesized empty cells up to the table width.
type rowColumnsRule struct{}

func (rowColumnsRule) Name() string { return "row-columns" }

func (rowColumnsRule) Match(t *node.Tree, s node.Schema, n *node.Node) bool {
	return s.IsTable(n)
}

func (rowColumnsRule) Validate(t *node.Tree, s node.Schema, n *node.Node) *Violation {
	width := position.TableWidth(t, s, n.Key())
	var keys []node.Key
	for _, row := range t.ChildrenOfType(n.Key(), s.Row) {
		cells := 0
		stray := false
		for _, c := range t.Children(row.Key()) {
			if s.IsCell(c) {
				cells++
			} else {
				stray = true
			}
		}
		if stray || cells != width {
			keys = append(keys, row.Key())
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return &Violation{Keys: keys, Width: width}
}

func (rowColumnsRule) Normalize(c *node.Change, s node.Schema, n *node.Node, v *Violation) error {
	t := c.Tree()
	for _, rowKey := range v.Keys {
		for _, child := range t.Children(rowKey) {
			switch {
			case s.IsCell(child):
			case child.IsBlock():
				if err := c.SetNodeByKey(child.Key(), s.Cell, nil); err != nil {
					return err
				}
			default:
				if _, err := c.WrapBlockByKey(child.Key(), s.Cell, nil); err != nil {
					return err
				}
			}
		}
		for len(t.ChildrenOfType(rowKey, s.Cell)) < v.Width {
			cell := EmptyCell(t, s)
			if err := c.InsertNodeByKey(rowKey, len(t.ChildKeys(rowKey)), cell.Key()); err != nil {
				return err
			}
		}
	}
	return nil
}

// alignmentRule keeps the table's alignment vector exactly one tag per
// column, preserving existing tags by position when resizing.
type alignmentRule struct{}

func (alignmentRule) Name() string { return "alignment-length" }

func (alignmentRule) Match(t *node.Tree, s node.Schema, n *node.Node) bool {
	return s.IsTable(n)
}

func (alignmentRule) Validate(t *node.Tree, s node.Schema, n *node.Node) *Violation {
	rows := t.ChildrenOfType(n.Key(), s.Row)
	if len(rows) == 0 {
		// The table-content rule synthesizes a row first.
		return nil
	}
	width := len(t.ChildrenOfType(rows[0].Key(), s.Cell))
	if width < 1 {
		width = 1
	}
	if len(align.FromData(n.Data())) == width {
		return nil
	}
	return &Violation{Width: width}
}

func (alignmentRule) Normalize(c *node.Change, s node.Schema, n *node.Node, v *Violation) error {
	resized := align.Create(v.Width, align.FromData(n.Data()))
	return c.SetNodeByKey(n.Key(), "", align.WithVector(n.Data(), resized))
}
