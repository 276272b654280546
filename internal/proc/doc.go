// Package proc models operating-system processes as observed during one
// refresh tick and assembles them into a parent/child forest.
//
// A snapshot is a flat, unordered []Record. Records are values: once a
// Source returns them they are never modified, and each tick produces a
// fresh slice.
//
// # Tree building
//
// BuildForest runs in two passes. The first creates one Node per distinct
// PID. The second attaches every node to its parent when the parent is
// present in the same snapshot, is not the node itself, and attaching would
// not close a cycle. Anything else becomes a root, so no process is ever
// dropped because its parent is invisible (exited, permission denied, or
// read after the child in a racy /proc walk).
//
// Cycle detection keeps a disjoint-set of partial trees: a node about to be
// attached is always the root of its own partial tree, so the edge closes a
// cycle exactly when the prospective parent already belongs to that tree.
package proc
