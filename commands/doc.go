// Package commands implements the user-level table operations built on the
// position resolver and the primitive edits: setting column alignment,
// inserting and removing rows, columns, and whole tables, and moving the
// selection between cells.
//
// Every command resolves the table context from the change's current
// selection and returns position.ErrNotInTable when invoked outside a
// table, leaving the decision to the host. Commands only append edits;
// running the rule engine afterwards is the host's responsibility, although
// the edits commands produce already preserve the structural invariants.
package commands
