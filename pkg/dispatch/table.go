package dispatch

import (
	"fmt"
	"reflect"

	"github.com/go-drift/listkit/pkg/errors"
	"github.com/go-drift/listkit/pkg/section"
)

// MoveInfo carries both ends of a row move.
type MoveInfo[K comparable] struct {
	FromSection K
	FromRow     int
	ToSection   K
	ToRow       int
}

// Context is the argument to every handler invocation. Key names the owning
// section. Index and Row are set for row kinds; State carries header or
// footer state for those kinds. Move is set for KindRowMoved and for the
// KindRowDeleted half of a move, always as origin to destination.
type Context[K comparable] struct {
	Key   K
	Index int
	Row   section.Row
	State any
	Move  *MoveInfo[K]
}

// Handler is a registered callback. Pull kinds return the pulled value;
// notification kinds may return nil.
type Handler[K comparable] func(ctx Context[K]) any

// ForModel adapts a handler that wants the row's backing model as a concrete
// type. When a row of a different type reaches the handler the invocation is
// skipped and a type mismatch is reported, leaving the cycle to continue
// with whatever default the caller falls back to.
func ForModel[K comparable, M any](fn func(ctx Context[K], model M) any) Handler[K] {
	want := reflect.TypeOf((*M)(nil)).Elem().String()
	return func(ctx Context[K]) any {
		model, ok := section.ModelAs[M](ctx.Row)
		if !ok {
			errors.ReportMismatch(&errors.TypeMismatch{
				Op:   "dispatch.ForModel",
				Want: want,
				Got:  ctx.Row.ModelType(),
			})
			return nil
		}
		return fn(ctx, model)
	}
}

// Table holds the handler registrations of one list binding. The zero value
// is not usable; call NewTable.
type Table[K comparable] struct {
	named    map[Kind]map[K]Handler[K]
	dynamic  map[Kind]Handler[K]
	catchall map[Kind]Handler[K]
}

// NewTable returns an empty table.
func NewTable[K comparable]() *Table[K] {
	return &Table[K]{
		named:    make(map[Kind]map[K]Handler[K]),
		dynamic:  make(map[Kind]Handler[K]),
		catchall: make(map[Kind]Handler[K]),
	}
}

// Register binds handler to kind within scope. A slot accepts exactly one
// handler: re-registering a named key, the dynamic scope, or the any scope
// for the same kind fails with AlreadyRegistered. Kinds that do not allow an
// any-section handler reject that scope with ScopeNotAllowed.
func (t *Table[K]) Register(kind Kind, scope Scope[K], handler Handler[K]) error {
	if handler == nil {
		return &errors.Error{
			Op:   "dispatch.Table.Register",
			Kind: errors.KindConfig,
			Err:  fmt.Errorf("nil handler for %s", kind),
		}
	}
	switch scope.kind {
	case scopeAny:
		if !kind.AllowsAnySection() {
			return &errors.Error{
				Op:   "dispatch.Table.Register",
				Kind: errors.KindConfig,
				Err:  &errors.ScopeNotAllowed{Kind: kind.String()},
			}
		}
		if t.catchall[kind] != nil {
			return t.alreadyRegistered(kind, scope)
		}
		t.catchall[kind] = handler
	case scopeDynamic:
		if t.dynamic[kind] != nil {
			return t.alreadyRegistered(kind, scope)
		}
		t.dynamic[kind] = handler
	case scopeSections:
		if len(scope.keys) == 0 {
			return &errors.Error{
				Op:   "dispatch.Table.Register",
				Kind: errors.KindConfig,
				Err:  fmt.Errorf("empty section scope for %s", kind),
			}
		}
		slots := t.named[kind]
		for _, key := range scope.keys {
			if _, taken := slots[key]; taken {
				return t.alreadyRegistered(kind, Sections(key))
			}
		}
		if slots == nil {
			slots = make(map[K]Handler[K])
			t.named[kind] = slots
		}
		for _, key := range scope.keys {
			slots[key] = handler
		}
	}
	return nil
}

func (t *Table[K]) alreadyRegistered(kind Kind, scope Scope[K]) error {
	return &errors.Error{
		Op:   "dispatch.Table.Register",
		Kind: errors.KindConfig,
		Err:  &errors.AlreadyRegistered{Kind: kind.String(), Scope: scope.String()},
	}
}

// Resolve picks the handler serving kind for the section named by key.
// declared reports whether the key was explicitly declared; dynamic-scope
// handlers only serve undeclared sections. Precedence is named, then
// dynamic, then any.
func (t *Table[K]) Resolve(kind Kind, key K, declared bool) (Handler[K], bool) {
	if h, ok := t.named[kind][key]; ok {
		return h, true
	}
	if !declared {
		if h, ok := t.dynamic[kind]; ok {
			return h, true
		}
	}
	if kind.AllowsAnySection() {
		if h, ok := t.catchall[kind]; ok {
			return h, true
		}
	}
	return nil, false
}

// Dispatch resolves and invokes in one step. The boolean reports whether a
// handler ran; a miss is not an error, callers fall back to their defaults.
func (t *Table[K]) Dispatch(kind Kind, key K, declared bool, ctx Context[K]) (any, bool) {
	h, ok := t.Resolve(kind, key, declared)
	if !ok {
		return nil, false
	}
	return h(ctx), true
}
