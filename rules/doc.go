// Package rules repairs malformed table structure in a document tree.
//
// Each structural invariant is enforced by one [Rule] with a match
// predicate, a validation step that reports a violation payload, and a
// normalization step that appends primitive edits to the transaction. The
// [Engine] applies the ordered rule list repeatedly until a pass produces
// no edits (a fixpoint), so fixing one invariant may legitimately surface
// work for another.
//
// The invariants, in the order the engine applies them:
//
//   - cells contain no block children
//   - every cell sits inside a row
//   - every row sits inside a table
//   - a table contains only rows, and at least one
//   - every row has exactly as many cells as the table is wide
//   - the table's alignment vector is exactly as long as the table is wide
//
// Every rule is idempotent: validation of an already-valid node reports no
// violation, so normalization is never invoked for it and a second engine
// run over a normalized tree applies zero edits. Order affects only how
// quickly the fixpoint is reached, not which tree it is.
package rules
