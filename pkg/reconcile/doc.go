// Package reconcile drives the binding between supplied list data and a
// display surface.
//
// A Driver owns two copies of the list state: the staged store, mutated by
// the Supply methods at any time, and the committed snapshot, which is what
// the surface currently displays. Reconcile diffs committed against staged,
// commits the staged snapshot, fires row change notifications in script
// order, and hands the operation script to the surface. The surface pulls
// whatever content it needs back through the driver's View, which always
// serves the committed snapshot, so a surface mid-update never observes data
// newer than its script.
//
// Reconciliation is re-entrant but never recursive: a Reconcile call from
// inside a handler or surface callback is coalesced into one follow-up cycle
// that runs when the current cycle finishes.
//
// The driver is deliberately single-threaded, like the display systems it
// feeds. Nothing here locks; callers own serialization, typically by running
// the driver on the surface's event loop.
package reconcile
