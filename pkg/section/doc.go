// Package section provides the data model for sectioned lists: an ordered
// registry of section keys, a per-section row store, and row identity.
//
// A section is a named, ordered group of rows with optional header and footer
// state. Section keys are any comparable Go value chosen by the integrator;
// ordering among sections is either explicit (a declared list) or
// insertion-derived for sections discovered at runtime.
//
// # Rows and identity
//
// A Row couples an opaque display model with an optional typed backing model.
// The backing model carries the row's identity: two rows represent the same
// logical item when their backing models compare equal under the row's
// declared strategy. Rows constructed with Plain have no backing model and
// are never considered identical to any other row, so reconciliation always
// treats them as delete+insert. Correct, if less efficient.
//
//	todo := section.Backed("buy milk", Task{ID: 41, Title: "buy milk"})
//
//	// Identity by ID, content by full comparison:
//	row := section.BackedBy("buy milk", task, section.Strategy[Task]{
//	    Same: func(a, b Task) bool { return a.ID == b.ID },
//	})
//
// # Ownership
//
// The reconciliation driver exclusively owns the live Registry and Store.
// Integrators interact through the driver's Supply methods and hold only
// section keys and row indices, which are valid until the next reconciliation.
package section
