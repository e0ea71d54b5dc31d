package node

import "github.com/google/uuid"

// Kind represents the kind of tree node
type Kind int

const (
	KindDocument Kind = iota
	KindBlock
	KindInline
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindBlock:
		return "Block"
	case KindInline:
		return "Inline"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Key is a stable node identifier. Edits address nodes by key rather than
// by structural position, so a key remains valid across sibling edits
// within the same transaction.
type Key string

// newKey returns a fresh unique key.
func newKey() Key {
	return Key(uuid.NewString())
}

// Node is a typed tree element. Nodes are owned exclusively by their Tree;
// relationships to parent and children are stored as keys, never pointers.
type Node struct {
	key      Key
	kind     Kind
	typ      string // type tag for block and inline nodes
	text     string // payload for text nodes
	data     map[string]any
	parent   Key
	children []Key
}

// Key returns the node's stable identifier.
func (n *Node) Key() Key { return n.key }

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Type returns the type tag for block and inline nodes, or "" otherwise.
func (n *Node) Type() string { return n.typ }

// Text returns the payload of a text node, or "" for other kinds.
func (n *Node) Text() string { return n.text }

// Data returns the node's data map. It may be nil. Callers must treat the
// returned map as read-only; mutations go through Change.SetNodeByKey.
func (n *Node) Data() map[string]any { return n.data }

// DataValue returns the value stored under key in the node's data map.
func (n *Node) DataValue(key string) (any, bool) {
	if n.data == nil {
		return nil, false
	}
	v, ok := n.data[key]
	return v, ok
}

// IsBlock reports whether the node is a block.
func (n *Node) IsBlock() bool { return n.kind == KindBlock }

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool { return n.kind == KindText }

// copyData returns a shallow copy of a data map, preserving nil.
func copyData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
