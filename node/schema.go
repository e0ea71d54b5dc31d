package node

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Schema names the block types that represent table structure. Hosts with
// custom type tags supply their own values; every rule, the position
// resolver, and the table commands consult the schema instead of hardcoded
// tags.
type Schema struct {
	Table   string `yaml:"table"`
	Row     string `yaml:"row"`
	Cell    string `yaml:"cell"`
	Content string `yaml:"content"` // default block type for plain content
}

// DefaultSchema returns the standard type tags.
func DefaultSchema() Schema {
	return Schema{
		Table:   "table",
		Row:     "table_row",
		Cell:    "table_cell",
		Content: "paragraph",
	}
}

// LoadSchema parses a schema from YAML. Fields left empty in the document
// fall back to the defaults.
func LoadSchema(data []byte) (Schema, error) {
	s := DefaultSchema()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schema{}, fmt.Errorf("parsing schema: %w", err)
	}
	def := DefaultSchema()
	if s.Table == "" {
		s.Table = def.Table
	}
	if s.Row == "" {
		s.Row = def.Row
	}
	if s.Cell == "" {
		s.Cell = def.Cell
	}
	if s.Content == "" {
		s.Content = def.Content
	}
	return s, nil
}

// IsTable reports whether the node is a table block under this schema.
func (s Schema) IsTable(n *Node) bool {
	return n != nil && n.IsBlock() && n.typ == s.Table
}

// IsRow reports whether the node is a row block under this schema.
func (s Schema) IsRow(n *Node) bool {
	return n != nil && n.IsBlock() && n.typ == s.Row
}

// IsCell reports whether the node is a cell block under this schema.
func (s Schema) IsCell(n *Node) bool {
	return n != nil && n.IsBlock() && n.typ == s.Cell
}
