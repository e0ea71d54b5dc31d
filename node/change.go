package node

import "errors"

var (
	ErrUnknownKey  = errors.New("node: unknown node key")
	ErrIndexRange  = errors.New("node: child index out of range")
	ErrOffsetRange = errors.New("node: text offset out of range")
	ErrNotText     = errors.New("node: node is not a text node")
)

// OpType identifies a primitive edit operation.
type OpType int

const (
	OpInsertNode OpType = iota
	OpRemoveNode
	OpWrapBlock
	OpUnwrapNode
	OpSetNode
	OpInsertText
	OpMoveNode
)

func (o OpType) String() string {
	switch o {
	case OpInsertNode:
		return "InsertNode"
	case OpRemoveNode:
		return "RemoveNode"
	case OpWrapBlock:
		return "WrapBlock"
	case OpUnwrapNode:
		return "UnwrapNode"
	case OpSetNode:
		return "SetNode"
	case OpInsertText:
		return "InsertText"
	case OpMoveNode:
		return "MoveNode"
	default:
		return "Unknown"
	}
}

// Op records one primitive edit. Fields beyond Type and Target are filled
// only where meaningful for the operation.
type Op struct {
	Type      OpType
	Target    Key
	Parent    Key
	Index     int
	BlockType string
	Data      map[string]any
	Text      string
	Offset    int
}

// Change is the transaction builder for one logical edit. Every primitive
// is applied to the tree immediately and appended to the operation log, so
// the host can replay or audit the edits it is asked to commit.
type Change struct {
	tree      *Tree
	ops       []Op
	selection Key
}

// NewChange starts a transaction over the given tree.
func NewChange(tree *Tree) *Change {
	return &Change{tree: tree}
}

// Tree returns the tree the change operates on.
func (c *Change) Tree() *Tree { return c.tree }

// Ops returns a copy of the operations applied so far.
func (c *Change) Ops() []Op {
	out := make([]Op, len(c.ops))
	copy(out, c.ops)
	return out
}

// OpCount returns the number of operations applied so far.
func (c *Change) OpCount() int { return len(c.ops) }

// SelectTo collapses the selection onto the given node.
func (c *Change) SelectTo(key Key) { c.selection = key }

// Selection returns the node the selection is collapsed on, or "".
func (c *Change) Selection() Key { return c.selection }

// InsertNodeByKey inserts a detached node as a child of parent at index.
func (c *Change) InsertNodeByKey(parent Key, index int, child Key) error {
	p := c.tree.Get(parent)
	n := c.tree.Get(child)
	if p == nil || n == nil {
		return ErrUnknownKey
	}
	if index < 0 || index > len(p.children) {
		return ErrIndexRange
	}
	c.tree.attach(parent, index, child)
	c.ops = append(c.ops, Op{Type: OpInsertNode, Target: child, Parent: parent, Index: index})
	return nil
}

// RemoveNodeByKey removes the node and its subtree from the tree. If the
// selection was inside the removed subtree it collapses onto the removed
// node's parent.
func (c *Change) RemoveNodeByKey(key Key) error {
	n := c.tree.Get(key)
	if n == nil {
		return ErrUnknownKey
	}
	parent := n.parent
	if c.selectionWithin(key) {
		c.selection = parent
	}
	c.tree.detach(key)
	c.tree.delete(key)
	c.ops = append(c.ops, Op{Type: OpRemoveNode, Target: key, Parent: parent})
	return nil
}

// WrapBlockByKey replaces the node with a new block of the given type and
// data at the same position, and moves the node inside it. It returns the
// key of the new wrapper block.
func (c *Change) WrapBlockByKey(key Key, typ string, data map[string]any) (Key, error) {
	n := c.tree.Get(key)
	if n == nil {
		return "", ErrUnknownKey
	}
	parent := n.parent
	index := c.tree.IndexOf(key)
	wrapper := c.tree.NewBlock(typ, data)
	c.tree.detach(key)
	if parent != "" {
		c.tree.attach(parent, index, wrapper.key)
	}
	c.tree.attach(wrapper.key, 0, key)
	c.ops = append(c.ops, Op{Type: OpWrapBlock, Target: key, Parent: wrapper.key, BlockType: typ, Data: copyData(data)})
	return wrapper.key, nil
}

// UnwrapNodeByKey removes the node and promotes its children to the node's
// parent, splicing them in at the node's position in order.
func (c *Change) UnwrapNodeByKey(key Key) error {
	n := c.tree.Get(key)
	if n == nil {
		return ErrUnknownKey
	}
	parent := n.parent
	if parent == "" {
		return ErrUnknownKey
	}
	index := c.tree.IndexOf(key)
	children := c.tree.ChildKeys(key)
	for _, ck := range children {
		c.tree.detach(ck)
	}
	if c.selectionWithin(key) {
		c.selection = parent
	}
	c.tree.detach(key)
	c.tree.delete(key)
	for i, ck := range children {
		c.tree.attach(parent, index+i, ck)
	}
	c.ops = append(c.ops, Op{Type: OpUnwrapNode, Target: key, Parent: parent, Index: index})
	return nil
}

// SetNodeByKey updates the node's type tag and/or data map. An empty typ
// leaves the type unchanged; a nil data leaves the data unchanged.
func (c *Change) SetNodeByKey(key Key, typ string, data map[string]any) error {
	n := c.tree.Get(key)
	if n == nil {
		return ErrUnknownKey
	}
	if typ != "" {
		n.typ = typ
	}
	if data != nil {
		n.data = copyData(data)
	}
	c.ops = append(c.ops, Op{Type: OpSetNode, Target: key, BlockType: typ, Data: copyData(data)})
	return nil
}

// InsertTextByKey inserts text into a text node at the given rune offset.
func (c *Change) InsertTextByKey(key Key, offset int, text string) error {
	n := c.tree.Get(key)
	if n == nil {
		return ErrUnknownKey
	}
	if n.kind != KindText {
		return ErrNotText
	}
	runes := []rune(n.text)
	if offset < 0 || offset > len(runes) {
		return ErrOffsetRange
	}
	n.text = string(runes[:offset]) + text + string(runes[offset:])
	c.ops = append(c.ops, Op{Type: OpInsertText, Target: key, Offset: offset, Text: text})
	return nil
}

// MoveNodeByKey detaches the node from its current parent and reinserts it
// under newParent at index. The index is interpreted after the detach, so
// moving a node later within the same parent uses post-removal positions.
func (c *Change) MoveNodeByKey(key, newParent Key, index int) error {
	n := c.tree.Get(key)
	p := c.tree.Get(newParent)
	if n == nil || p == nil {
		return ErrUnknownKey
	}
	c.tree.detach(key)
	if index < 0 || index > len(p.children) {
		return ErrIndexRange
	}
	c.tree.attach(newParent, index, key)
	c.ops = append(c.ops, Op{Type: OpMoveNode, Target: key, Parent: newParent, Index: index})
	return nil
}

// selectionWithin reports whether the selection is on key or inside its
// subtree.
func (c *Change) selectionWithin(key Key) bool {
	if c.selection == "" {
		return false
	}
	if c.selection == key {
		return true
	}
	for _, a := range c.tree.Ancestors(c.selection) {
		if a.key == key {
			return true
		}
	}
	return false
}
