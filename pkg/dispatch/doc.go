// Package dispatch routes surface callbacks to integrator handlers.
//
// Handlers are registered against a finite set of callback kinds (row
// content, row height, header and footer content, and the row change
// notifications) and a scope: specific sections by key, all dynamic
// sections, or any section. Resolution tries the most specific scope first:
// a handler named for the section's key wins, then a dynamic-sections
// handler if the key was never declared, then an any-section handler for the
// kinds that permit one. At most one handler can occupy a given slot;
// conflicting registrations fail fast so configuration mistakes surface at
// startup rather than mid-update.
package dispatch
