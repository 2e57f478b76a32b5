// Package errors provides structured error handling for the listkit binding chain.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates a configuration error introduced at setup time:
	// duplicate section keys, disallowed handler scopes, unknown section lookups.
	// Configuration errors fail fast at the call that introduced them.
	KindConfig
	// KindTypeMismatch indicates a backing model of an unexpected type was
	// encountered during dispatch. These are recoverable diagnostics.
	KindTypeMismatch
	// KindApply indicates the display surface (or an operation interpreter)
	// diverged from the operation list it was given. Apply errors are fatal.
	KindApply
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTypeMismatch:
		return "type-mismatch"
	case KindApply:
		return "apply"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the listkit binding chain.
type Error struct {
	// Op is the operation that failed (e.g., "section.Registry.Declare").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UnknownSection reports a lookup for a section key that was never declared
// or discovered.
type UnknownSection struct {
	// Key is the section key that failed to resolve.
	Key any
}

func (e *UnknownSection) Error() string {
	return fmt.Sprintf("unknown section %v", e.Key)
}

// DuplicateSection reports a declared section order containing the same key twice.
type DuplicateSection struct {
	// Key is the repeated section key.
	Key any
}

func (e *DuplicateSection) Error() string {
	return fmt.Sprintf("duplicate section key %v in declared order", e.Key)
}

// ScopeNotAllowed reports a handler registration using the any-section scope
// for a handler kind that does not permit it.
type ScopeNotAllowed struct {
	// Kind is the handler kind name (e.g., "row-content").
	Kind string
}

func (e *ScopeNotAllowed) Error() string {
	return fmt.Sprintf("handler kind %s does not permit the any-section scope", e.Kind)
}

// AlreadyRegistered reports a second handler registration for the same
// (kind, exact scope) pair.
type AlreadyRegistered struct {
	// Kind is the handler kind name.
	Kind string
	// Scope describes the conflicting scope (a section key or a scope class).
	Scope string
}

func (e *AlreadyRegistered) Error() string {
	return fmt.Sprintf("handler for kind %s already registered for scope %s", e.Kind, e.Scope)
}

// ApplyViolation reports an operation list that could not be applied to the
// structure it was computed for. It indicates a collaborator broke the
// apply contract; no partial-apply recovery is attempted.
type ApplyViolation struct {
	// Op is the rendered operation that failed to apply, if any.
	Op string
	// Detail describes the inconsistency.
	Detail string
}

func (e *ApplyViolation) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("apply violation at %q: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("apply violation: %s", e.Detail)
}

// TypeMismatch is the recoverable diagnostic reported when a dispatched
// callback expected a backing model of one type but the stored row held
// another. The invocation is treated as having no model available; the
// reconciliation cycle continues.
type TypeMismatch struct {
	// Op is the dispatch site (e.g., "dispatch.ForModel").
	Op string
	// Want is the type the callback was declared for.
	Want string
	// Got is the type actually stored, or "" when the row holds no model.
	Got string
	// Timestamp is when the mismatch occurred.
	Timestamp time.Time
}

func (e *TypeMismatch) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("%s: expected model %s, row has no backing model", e.Op, e.Want)
	}
	return fmt.Sprintf("%s: expected model %s, row holds %s", e.Op, e.Want, e.Got)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "reconcile.notify").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Handler receives errors and diagnostics reported by the binding chain.
type Handler interface {
	// HandleError is called when a structured error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleMismatch is called for recoverable type-mismatch diagnostics.
	HandleMismatch(err *TypeMismatch)
}
