// Package slatetable repairs malformed table structure in an editable
// document tree: stray cells outside rows, rows outside tables, ragged
// column counts, and missing alignment metadata are rewritten into a valid
// table through an idempotent, rule-based normalization pass.
//
// Basic usage:
//
//	change, err := slatetable.New().Normalize(tree)
//	if err != nil {
//	    // handle error
//	}
//	ops := change.Ops() // primitive edits for the host transaction
//
// With options:
//
//	n := slatetable.New(
//	    slatetable.WithSchema(customSchema),
//	    slatetable.WithLogger(logger),
//	)
//
// For direct access to the rule list, position resolver, and table
// commands, the lower-level rules, position, and commands packages are
// also available.
package slatetable

import (
	"log/slog"

	"github.com/Kgirthofer/slate-edit-table/node"
	"github.com/Kgirthofer/slate-edit-table/rules"
)

// Normalizer runs table normalization over document trees with a fixed
// configuration.
type Normalizer struct {
	schema    node.Schema
	rules     []rules.Rule
	maxPasses int
	logger    *slog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSchema sets the block types that represent tables, rows, and cells.
func WithSchema(s node.Schema) Option {
	return func(n *Normalizer) { n.schema = s }
}

// WithRules replaces the default structural rule list.
func WithRules(rs []rules.Rule) Option {
	return func(n *Normalizer) { n.rules = rs }
}

// WithMaxPasses overrides the bound on fixpoint passes.
func WithMaxPasses(passes int) Option {
	return func(n *Normalizer) { n.maxPasses = passes }
}

// WithLogger enables structured debug logging of applied fixes.
func WithLogger(l *slog.Logger) Option {
	return func(n *Normalizer) { n.logger = l }
}

// New creates a Normalizer with the default schema and rules.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		schema:    node.DefaultSchema(),
		rules:     rules.DefaultRules(),
		maxPasses: rules.DefaultMaxPasses,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Schema returns the schema the normalizer operates under.
func (n *Normalizer) Schema() node.Schema { return n.schema }

// Normalize runs the rule engine to a fixpoint over the tree and returns
// the transaction holding every primitive edit that was applied. The host
// applies (or has already observed) these edits; running Normalize again
// on the result produces an empty transaction.
func (n *Normalizer) Normalize(tree *node.Tree) (*node.Change, error) {
	change := node.NewChange(tree)
	if err := n.NormalizeChange(change); err != nil {
		return change, err
	}
	return change, nil
}

// NormalizeChange runs the rule engine within an existing transaction,
// appending its edits after whatever the host already recorded.
func (n *Normalizer) NormalizeChange(c *node.Change) error {
	opts := []rules.Option{
		rules.WithRules(n.rules),
		rules.WithMaxPasses(n.maxPasses),
	}
	if n.logger != nil {
		opts = append(opts, rules.WithLogger(n.logger))
	}
	return rules.NewEngine(n.schema, opts...).Normalize(c)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
