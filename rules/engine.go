package rules

import (
	"errors"
	"io"
	"log/slog"

	"github.com/Kgirthofer/slate-edit-table/node"
)

// ErrNoConvergence is returned when normalization is still producing edits
// after the maximum number of passes. A rule whose fix does not resolve
// what its validation flagged is a programming defect; the engine fails
// loudly instead of looping forever.
var ErrNoConvergence = errors.New("rules: normalization did not converge")

// DefaultMaxPasses bounds the fixpoint loop. Each pass applies every rule
// to every node, so legitimate input converges in a handful of passes even
// for deeply broken trees.
const DefaultMaxPasses = 32

// Violation is the payload produced by a rule's validation step.
type Violation struct {
	// Keys identifies the offending child nodes, where the rule targets
	// specific children.
	Keys []node.Key
	// Width carries the computed table width for width-driven rules.
	Width int
}

// Rule enforces one structural invariant.
type Rule interface {
	// Name identifies the rule in logs.
	Name() string
	// Match reports whether the rule applies to the node at all.
	Match(t *node.Tree, s node.Schema, n *node.Node) bool
	// Validate inspects a matched node and returns a violation payload,
	// or nil when the node already satisfies the invariant.
	Validate(t *node.Tree, s node.Schema, n *node.Node) *Violation
	// Normalize appends primitive edits that resolve the violation.
	Normalize(c *node.Change, s node.Schema, n *node.Node, v *Violation) error
}

// Engine runs an ordered list of rules to a fixpoint over a tree.
type Engine struct {
	schema    node.Schema
	rules     []Rule
	maxPasses int
	log       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the default rule list.
func WithRules(rules []Rule) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithMaxPasses overrides the fixpoint pass bound.
func WithMaxPasses(n int) Option {
	return func(e *Engine) { e.maxPasses = n }
}

// WithLogger sets the logger used for per-fix debug logging.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine creates an engine for the given schema with the default rule
// list and pass bound. Logging is discarded unless WithLogger is given.
func NewEngine(schema node.Schema, opts ...Option) *Engine {
	e := &Engine{
		schema:    schema,
		rules:     DefaultRules(),
		maxPasses: DefaultMaxPasses,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Normalize runs the rule list to a fixpoint, appending every edit to the
// given change. It returns ErrNoConvergence if edits are still being
// produced after the pass bound.
func (e *Engine) Normalize(c *node.Change) error {
	for pass := 0; pass < e.maxPasses; pass++ {
		fixes, err := e.pass(c, pass)
		if err != nil {
			return err
		}
		if fixes == 0 {
			return nil
		}
	}
	e.log.Error("normalization exceeded pass bound", "maxPasses", e.maxPasses)
	return ErrNoConvergence
}

// pass applies each rule, in order, to every node currently in the tree.
// It returns the number of violations fixed.
func (e *Engine) pass(c *node.Change, pass int) (int, error) {
	t := c.Tree()
	fixes := 0
	for _, r := range e.rules {
		for _, key := range documentOrder(t) {
			n := t.Get(key)
			if n == nil {
				// Removed by an earlier fix in this pass.
				continue
			}
			if !r.Match(t, e.schema, n) {
				continue
			}
			v := r.Validate(t, e.schema, n)
			if v == nil {
				continue
			}
			if err := r.Normalize(c, e.schema, n, v); err != nil {
				return 0, err
			}
			e.log.Debug("applied structural fix",
				"rule", r.Name(),
				"node", string(key),
				"pass", pass,
			)
			fixes++
		}
	}
	return fixes, nil
}

// documentOrder returns the keys of all attached nodes, parents before
// children. The snapshot keeps iteration stable while fixes mutate the
// tree; nodes removed mid-pass simply resolve to nil.
func documentOrder(t *node.Tree) []node.Key {
	var keys []node.Key
	var walk func(k node.Key)
	walk = func(k node.Key) {
		keys = append(keys, k)
		for _, ck := range t.ChildKeys(k) {
			walk(ck)
		}
	}
	walk(t.Root().Key())
	return keys
}
