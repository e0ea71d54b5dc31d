package node

import (
	"errors"
	"testing"
)

func TestNewTree(t *testing.T) {
	tree := NewTree()
	root := tree.Root()
	if root == nil {
		t.Fatal("NewTree has no root")
	}
	if root.Kind() != KindDocument {
		t.Errorf("root kind = %v, want Document", root.Kind())
	}
	if len(tree.Children(root.Key())) != 0 {
		t.Error("new tree root should have no children")
	}
}

func TestTreeNavigation(t *testing.T) {
	tree := NewTree()
	table := tree.NewBlock("table", nil)
	row := tree.NewBlock("table_row", nil)
	cell := tree.NewBlock("table_cell", nil)
	text := tree.NewText("hi")

	tree.AppendChild(tree.Root().Key(), table.Key())
	tree.AppendChild(table.Key(), row.Key())
	tree.AppendChild(row.Key(), cell.Key())
	tree.AppendChild(cell.Key(), text.Key())

	if p := tree.Parent(cell.Key()); p == nil || p.Key() != row.Key() {
		t.Error("Parent(cell) should be row")
	}

	anc := tree.Ancestors(text.Key())
	if len(anc) != 4 {
		t.Fatalf("Ancestors(text) returned %d nodes, want 4", len(anc))
	}
	if anc[0].Key() != cell.Key() || anc[3].Kind() != KindDocument {
		t.Error("Ancestors should be ordered nearest first, root last")
	}

	if got := tree.IndexOf(row.Key()); got != 0 {
		t.Errorf("IndexOf(row) = %d, want 0", got)
	}
	if got := tree.IndexOf(tree.Root().Key()); got != -1 {
		t.Errorf("IndexOf(root) = %d, want -1", got)
	}

	if got := tree.TextContent(table.Key()); got != "hi" {
		t.Errorf("TextContent(table) = %q, want %q", got, "hi")
	}
	if ft := tree.FirstText(table.Key()); ft == nil || ft.Key() != text.Key() {
		t.Error("FirstText(table) should find the text node")
	}
}

func TestChildrenOfType(t *testing.T) {
	tree := NewTree()
	row := tree.NewBlock("table_row", nil)
	tree.AppendChild(tree.Root().Key(), row.Key())

	// Interleave cells with invalid siblings
	cellA := tree.NewBlock("table_cell", nil)
	stray := tree.NewBlock("paragraph", nil)
	cellB := tree.NewBlock("table_cell", nil)
	tree.AppendChild(row.Key(), cellA.Key())
	tree.AppendChild(row.Key(), stray.Key())
	tree.AppendChild(row.Key(), cellB.Key())

	cells := tree.ChildrenOfType(row.Key(), "table_cell")
	if len(cells) != 2 {
		t.Fatalf("ChildrenOfType found %d cells, want 2", len(cells))
	}
	if cells[0].Key() != cellA.Key() || cells[1].Key() != cellB.Key() {
		t.Error("ChildrenOfType should preserve order and skip other types")
	}
}

func TestChangeInsertRemove(t *testing.T) {
	tree := NewTree()
	c := NewChange(tree)

	blk := tree.NewBlock("paragraph", nil)
	if err := c.InsertNodeByKey(tree.Root().Key(), 0, blk.Key()); err != nil {
		t.Fatalf("InsertNodeByKey: %v", err)
	}
	if len(tree.Children(tree.Root().Key())) != 1 {
		t.Fatal("insert did not attach the node")
	}

	if err := c.InsertNodeByKey(tree.Root().Key(), 5, tree.NewText("x").Key()); !errors.Is(err, ErrIndexRange) {
		t.Errorf("out-of-range insert error = %v, want ErrIndexRange", err)
	}

	if err := c.RemoveNodeByKey(blk.Key()); err != nil {
		t.Fatalf("RemoveNodeByKey: %v", err)
	}
	if tree.Get(blk.Key()) != nil {
		t.Error("removed node still present in arena")
	}
	if err := c.RemoveNodeByKey(blk.Key()); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("double remove error = %v, want ErrUnknownKey", err)
	}

	ops := c.Ops()
	if len(ops) != 2 {
		t.Fatalf("op log has %d entries, want 2", len(ops))
	}
	if ops[0].Type != OpInsertNode || ops[1].Type != OpRemoveNode {
		t.Errorf("op log = [%v, %v], want [InsertNode, RemoveNode]", ops[0].Type, ops[1].Type)
	}
}

func TestChangeWrapUnwrap(t *testing.T) {
	tree := NewTree()
	cell := tree.NewBlock("table_cell", nil)
	tree.AppendChild(tree.Root().Key(), cell.Key())
	c := NewChange(tree)

	rowKey, err := c.WrapBlockByKey(cell.Key(), "table_row", nil)
	if err != nil {
		t.Fatalf("WrapBlockByKey: %v", err)
	}
	row := tree.Get(rowKey)
	if row == nil || row.Type() != "table_row" {
		t.Fatal("wrapper block missing or wrong type")
	}
	if p := tree.Parent(cell.Key()); p == nil || p.Key() != rowKey {
		t.Error("wrapped node should be the wrapper's child")
	}
	if tree.IndexOf(rowKey) != 0 {
		t.Error("wrapper should occupy the wrapped node's position")
	}

	if err := c.UnwrapNodeByKey(rowKey); err != nil {
		t.Fatalf("UnwrapNodeByKey: %v", err)
	}
	if tree.Get(rowKey) != nil {
		t.Error("unwrapped node should be deleted")
	}
	if p := tree.Parent(cell.Key()); p == nil || p.Kind() != KindDocument {
		t.Error("unwrap should promote children to the grandparent")
	}
}

func TestChangeUnwrapSplicesInOrder(t *testing.T) {
	tree := NewTree()
	before := tree.NewText("a")
	wrapper := tree.NewBlock("paragraph", nil)
	after := tree.NewText("d")
	tree.AppendChild(tree.Root().Key(), before.Key())
	tree.AppendChild(tree.Root().Key(), wrapper.Key())
	tree.AppendChild(tree.Root().Key(), after.Key())
	inner1 := tree.NewText("b")
	inner2 := tree.NewText("c")
	tree.AppendChild(wrapper.Key(), inner1.Key())
	tree.AppendChild(wrapper.Key(), inner2.Key())

	c := NewChange(tree)
	if err := c.UnwrapNodeByKey(wrapper.Key()); err != nil {
		t.Fatalf("UnwrapNodeByKey: %v", err)
	}

	if got := tree.TextContent(tree.Root().Key()); got != "abcd" {
		t.Errorf("after unwrap text = %q, want %q", got, "abcd")
	}
}

func TestChangeSetNode(t *testing.T) {
	tree := NewTree()
	blk := tree.NewBlock("paragraph", map[string]any{"k": "v"})
	tree.AppendChild(tree.Root().Key(), blk.Key())
	c := NewChange(tree)

	if err := c.SetNodeByKey(blk.Key(), "table_cell", nil); err != nil {
		t.Fatalf("SetNodeByKey: %v", err)
	}
	if blk.Type() != "table_cell" {
		t.Errorf("type = %q, want table_cell", blk.Type())
	}
	if v, _ := blk.DataValue("k"); v != "v" {
		t.Error("nil data should leave existing data untouched")
	}

	if err := c.SetNodeByKey(blk.Key(), "", map[string]any{"k": "w"}); err != nil {
		t.Fatalf("SetNodeByKey: %v", err)
	}
	if blk.Type() != "table_cell" {
		t.Error("empty type should leave the type untouched")
	}
	if v, _ := blk.DataValue("k"); v != "w" {
		t.Error("data update not applied")
	}
}

func TestChangeInsertText(t *testing.T) {
	tree := NewTree()
	text := tree.NewText("world")
	tree.AppendChild(tree.Root().Key(), text.Key())
	c := NewChange(tree)

	if err := c.InsertTextByKey(text.Key(), 0, "hello "); err != nil {
		t.Fatalf("InsertTextByKey: %v", err)
	}
	if text.Text() != "hello world" {
		t.Errorf("text = %q, want %q", text.Text(), "hello world")
	}

	if err := c.InsertTextByKey(text.Key(), 100, "x"); !errors.Is(err, ErrOffsetRange) {
		t.Errorf("offset error = %v, want ErrOffsetRange", err)
	}
	blk := tree.NewBlock("paragraph", nil)
	if err := c.InsertTextByKey(blk.Key(), 0, "x"); !errors.Is(err, ErrNotText) {
		t.Errorf("non-text error = %v, want ErrNotText", err)
	}
}

func TestChangeMoveNode(t *testing.T) {
	tree := NewTree()
	rowA := tree.NewBlock("table_row", nil)
	rowB := tree.NewBlock("table_row", nil)
	cell := tree.NewBlock("table_cell", nil)
	tree.AppendChild(tree.Root().Key(), rowA.Key())
	tree.AppendChild(tree.Root().Key(), rowB.Key())
	tree.AppendChild(rowA.Key(), cell.Key())

	c := NewChange(tree)
	if err := c.MoveNodeByKey(cell.Key(), rowB.Key(), 0); err != nil {
		t.Fatalf("MoveNodeByKey: %v", err)
	}
	if len(tree.Children(rowA.Key())) != 0 {
		t.Error("move should detach from the old parent")
	}
	if p := tree.Parent(cell.Key()); p == nil || p.Key() != rowB.Key() {
		t.Error("move should attach under the new parent")
	}
}

func TestChangeSelection(t *testing.T) {
	tree := NewTree()
	blk := tree.NewBlock("paragraph", nil)
	text := tree.NewText("x")
	tree.AppendChild(tree.Root().Key(), blk.Key())
	tree.AppendChild(blk.Key(), text.Key())

	c := NewChange(tree)
	c.SelectTo(text.Key())
	if c.Selection() != text.Key() {
		t.Fatal("SelectTo did not stick")
	}

	if err := c.RemoveNodeByKey(blk.Key()); err != nil {
		t.Fatalf("RemoveNodeByKey: %v", err)
	}
	if c.Selection() != tree.Root().Key() {
		t.Error("removing the selected subtree should collapse selection onto its parent")
	}
}

func TestCloneAndEqual(t *testing.T) {
	tree := NewTree()
	table := tree.NewBlock("table", map[string]any{"align": []string{"left"}})
	tree.AppendChild(tree.Root().Key(), table.Key())
	row := tree.NewBlock("table_row", nil)
	tree.AppendChild(table.Key(), row.Key())

	clone := tree.Clone()
	if !tree.Equal(clone) {
		t.Fatal("clone should equal the original")
	}

	c := NewChange(tree)
	if err := c.SetNodeByKey(table.Key(), "", map[string]any{"align": []string{"right"}}); err != nil {
		t.Fatalf("SetNodeByKey: %v", err)
	}
	if tree.Equal(clone) {
		t.Error("mutating the original should not affect the clone")
	}
}
