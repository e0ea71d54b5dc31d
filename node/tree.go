package node

import (
	"reflect"
	"strings"
)

// Tree is the arena that owns every node of one document. All navigation
// resolves keys through the arena, so there are no reference cycles and a
// node can be addressed directly without walking from the root.
type Tree struct {
	root  Key
	nodes map[Key]*Node
}

// NewTree creates a tree containing only an empty document root.
func NewTree() *Tree {
	t := &Tree{nodes: make(map[Key]*Node)}
	root := &Node{key: newKey(), kind: KindDocument}
	t.nodes[root.key] = root
	t.root = root.key
	return t
}

// Root returns the document root node.
func (t *Tree) Root() *Node {
	return t.nodes[t.root]
}

// Get returns the node with the given key, or nil if no such node exists.
func (t *Tree) Get(key Key) *Node {
	return t.nodes[key]
}

// NewBlock creates a detached block node with the given type tag and data.
func (t *Tree) NewBlock(typ string, data map[string]any) *Node {
	n := &Node{key: newKey(), kind: KindBlock, typ: typ, data: copyData(data)}
	t.nodes[n.key] = n
	return n
}

// NewInline creates a detached inline node with the given type tag.
func (t *Tree) NewInline(typ string) *Node {
	n := &Node{key: newKey(), kind: KindInline, typ: typ}
	t.nodes[n.key] = n
	return n
}

// NewText creates a detached text node.
func (t *Tree) NewText(text string) *Node {
	n := &Node{key: newKey(), kind: KindText, text: text}
	t.nodes[n.key] = n
	return n
}

// Parent returns the parent of the node with the given key, or nil for the
// root and for detached nodes.
func (t *Tree) Parent(key Key) *Node {
	n := t.nodes[key]
	if n == nil || n.parent == "" {
		return nil
	}
	return t.nodes[n.parent]
}

// Children returns the child nodes of the node with the given key, in order.
func (t *Tree) Children(key Key) []*Node {
	n := t.nodes[key]
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.children))
	for _, ck := range n.children {
		out = append(out, t.nodes[ck])
	}
	return out
}

// ChildKeys returns a copy of the child key slice of the given node.
func (t *Tree) ChildKeys(key Key) []Key {
	n := t.nodes[key]
	if n == nil {
		return nil
	}
	out := make([]Key, len(n.children))
	copy(out, n.children)
	return out
}

// ChildrenOfType returns the block children of the given node whose type
// tag matches typ, preserving order.
func (t *Tree) ChildrenOfType(key Key, typ string) []*Node {
	var out []*Node
	for _, c := range t.Children(key) {
		if c.IsBlock() && c.typ == typ {
			out = append(out, c)
		}
	}
	return out
}

// Ancestors returns the ancestors of the given node, nearest first, ending
// with the document root.
func (t *Tree) Ancestors(key Key) []*Node {
	var out []*Node
	for p := t.Parent(key); p != nil; p = t.Parent(p.key) {
		out = append(out, p)
	}
	return out
}

// IndexOf returns the position of the node among its parent's children, or
// -1 for the root and for detached nodes.
func (t *Tree) IndexOf(key Key) int {
	p := t.Parent(key)
	if p == nil {
		return -1
	}
	for i, ck := range p.children {
		if ck == key {
			return i
		}
	}
	return -1
}

// AppendChild attaches a detached node as the last child of parent. It is
// intended for initial tree construction; edits inside a transaction go
// through Change.
func (t *Tree) AppendChild(parent, child Key) {
	t.attach(parent, len(t.nodes[parent].children), child)
}

// attach inserts child into parent's children at index. The child must be
// detached and index must be within [0, len(children)].
func (t *Tree) attach(parent Key, index int, child Key) {
	p := t.nodes[parent]
	c := t.nodes[child]
	p.children = append(p.children, "")
	copy(p.children[index+1:], p.children[index:])
	p.children[index] = child
	c.parent = parent
}

// detach removes the node from its parent's children without deleting it
// from the arena.
func (t *Tree) detach(key Key) {
	n := t.nodes[key]
	p := t.nodes[n.parent]
	if p == nil {
		return
	}
	for i, ck := range p.children {
		if ck == key {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = ""
}

// delete removes the node and its whole subtree from the arena.
func (t *Tree) delete(key Key) {
	n := t.nodes[key]
	if n == nil {
		return
	}
	for _, ck := range n.children {
		t.delete(ck)
	}
	delete(t.nodes, key)
}

// TextContent returns the concatenated text of the subtree rooted at key.
func (t *Tree) TextContent(key Key) string {
	n := t.nodes[key]
	if n == nil {
		return ""
	}
	if n.kind == KindText {
		return n.text
	}
	var sb strings.Builder
	for _, ck := range n.children {
		sb.WriteString(t.TextContent(ck))
	}
	return sb.String()
}

// FirstText returns the first text node in the subtree rooted at key, in
// document order, or nil if the subtree contains no text.
func (t *Tree) FirstText(key Key) *Node {
	n := t.nodes[key]
	if n == nil {
		return nil
	}
	if n.kind == KindText {
		return n
	}
	for _, ck := range n.children {
		if found := t.FirstText(ck); found != nil {
			return found
		}
	}
	return nil
}

// Clone returns a deep copy of the tree. Keys are preserved, so positions
// and keys resolved against the original remain meaningful in the copy.
func (t *Tree) Clone() *Tree {
	out := &Tree{root: t.root, nodes: make(map[Key]*Node, len(t.nodes))}
	for k, n := range t.nodes {
		cp := &Node{
			key:    n.key,
			kind:   n.kind,
			typ:    n.typ,
			text:   n.text,
			data:   copyData(n.data),
			parent: n.parent,
		}
		cp.children = make([]Key, len(n.children))
		copy(cp.children, n.children)
		out.nodes[k] = cp
	}
	return out
}

// Equal reports whether two trees have identical structure and content,
// comparing node kinds, types, text, data, and child order from the roots
// down. Keys must match as well, which holds for trees related by Clone.
func (t *Tree) Equal(other *Tree) bool {
	if t.root != other.root {
		return false
	}
	return equalNode(t, other, t.root)
}

func equalNode(a, b *Tree, key Key) bool {
	na, nb := a.nodes[key], b.nodes[key]
	if na == nil || nb == nil {
		return na == nb
	}
	if na.kind != nb.kind || na.typ != nb.typ || na.text != nb.text {
		return false
	}
	if !reflect.DeepEqual(na.data, nb.data) {
		return false
	}
	if len(na.children) != len(nb.children) {
		return false
	}
	for i, ck := range na.children {
		if nb.children[i] != ck {
			return false
		}
		if !equalNode(a, b, ck) {
			return false
		}
	}
	return true
}
