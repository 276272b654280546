// Package procview turns process snapshots into the ordered, stateful view
// the dashboard draws.
//
// A View owns one forest at a time. Each snapshot replaces the forest; the
// UI state kept in State (expanded subtrees, selection, scroll) is then
// reconciled onto the new forest by process identity, and the visible order
// is recomputed from the sort, filter, and presentation mode.
//
//	records ──BuildForest──▶ forest ──Reconcile──▶ forest+state
//	                                  ──ComputeRows──▶ rows ──Frame──▶ renderer
//
// # Identity
//
// Processes are matched across snapshots by PID and start time. A PID that
// the OS hands to a new process starts with fresh state.
//
// # Selection
//
// The selection is kept while its process stays visible. When it becomes
// hidden inside a collapsed subtree, it moves to the nearest visible
// ancestor. When it disappears, it moves to the next process of the
// previous order that is still visible, else to the first row.
//
// # Filtering in tree mode
//
// A process is shown when it matches or any descendant matches. Ancestors
// kept this way are shown expanded, but stored expansion choices are not
// changed, so clearing the filter restores the previous layout. With
// Options.FilterHonorsCollapsed, collapsed ancestors stay collapsed and the
// matches beneath them are reached by expanding them.
package procview
