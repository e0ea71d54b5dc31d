// Package node provides the document tree model that table normalization
// and table commands operate on.
//
// This package defines the host-facing data structures for an editable
// document: a tree of typed nodes held in an arena and addressed by stable
// keys, plus the transaction builder used to mutate it.
//
// # Tree Structure
//
// The [Tree] type owns every node. Nodes never hold pointers to each other;
// parent/child relationships are stored as [Key] references resolved through
// the arena, so a node can be edited by key without re-traversing from the
// root:
//
//	tree := node.NewTree()
//	table := tree.NewBlock("table", nil)
//	tree.AppendChild(tree.Root().Key(), table.Key())
//
// # Nodes
//
// Every node has a [Kind]: document, block, inline, or text. Block nodes
// carry a type tag (for example "table" or "table_row") and a data map;
// text nodes carry a string.
//
// # Editing
//
// All mutations go through a [Change], which applies each primitive
// operation to the tree immediately and records it in an operation log the
// host can inspect or replay inside its own transaction:
//
//	change := node.NewChange(tree)
//	change.RemoveNodeByKey(key)
//	ops := change.Ops()
//
// # Schema
//
// The [Schema] type names which block types represent tables, rows, and
// cells, allowing hosts that use custom type tags to reuse the whole
// engine. It can be loaded from YAML via [LoadSchema].
package node
