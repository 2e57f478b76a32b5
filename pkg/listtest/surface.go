package listtest

import (
	"slices"

	"github.com/go-drift/listkit/pkg/diff"
	"github.com/go-drift/listkit/pkg/errors"
	"github.com/go-drift/listkit/pkg/reconcile"
	"github.com/go-drift/listkit/pkg/section"
)

// MirrorSurface is the reference display surface. Every script it receives
// is replayed through the operation interpreter against the state left by
// the previous cycle, so a driver bug that emits an inconsistent script
// fails the cycle instead of silently corrupting the mirror.
type MirrorSurface[K comparable] struct {
	// Fail, when non-nil, is returned from ApplyOperations instead of
	// applying, simulating a surface that lost sync.
	Fail error

	state   diff.State[K]
	tokens  []string
	applies int
}

// NewMirrorSurface returns an empty mirror.
func NewMirrorSurface[K comparable]() *MirrorSurface[K] {
	return &MirrorSurface[K]{}
}

func (m *MirrorSurface[K]) ApplyOperations(view reconcile.View[K], token string, ops []diff.Op[K]) error {
	m.applies++
	m.tokens = append(m.tokens, token)
	if m.Fail != nil {
		return m.Fail
	}
	next, err := diff.Apply(m.state, ops, reconcile.ViewSource(view))
	if err != nil {
		return err
	}
	m.state = next
	return nil
}

// State returns a copy of what the mirror currently displays.
func (m *MirrorSurface[K]) State() diff.State[K] {
	return m.state.Clone()
}

// Applies reports how many scripts reached the surface.
func (m *MirrorSurface[K]) Applies() int {
	return m.applies
}

// Tokens returns the cycle tokens received, in order.
func (m *MirrorSurface[K]) Tokens() []string {
	return slices.Clone(m.tokens)
}

// RecordingSurface keeps every script it receives without interpreting it.
// Use it to assert on the exact operations a driver emits.
type RecordingSurface[K comparable] struct {
	Tokens  []string
	Scripts []string
	Ops     [][]diff.Op[K]
}

func (r *RecordingSurface[K]) ApplyOperations(view reconcile.View[K], token string, ops []diff.Op[K]) error {
	r.Tokens = append(r.Tokens, token)
	r.Scripts = append(r.Scripts, diff.Script(ops))
	r.Ops = append(r.Ops, slices.Clone(ops))
	return nil
}

// FlattenView drains a view into the flat state shape, pulling every row,
// header, and footer through the view's content handlers.
func FlattenView[K comparable](view reconcile.View[K]) diff.State[K] {
	st := diff.State[K]{
		Rows:    make(map[K][]any),
		Headers: make(map[K]any),
		Footers: make(map[K]any),
	}
	for i := 0; i < view.SectionCount(); i++ {
		key, err := view.KeyAt(i)
		if err != nil {
			panic(err)
		}
		st.Order = append(st.Order, key)
		rows := make([]any, view.RowCount(key))
		for r := range rows {
			rows[r] = view.RowContent(key, r)
		}
		st.Rows[key] = rows
		if h := view.HeaderContent(key); h != nil {
			st.Headers[key] = h
		}
		if f := view.FooterContent(key); f != nil {
			st.Footers[key] = f
		}
	}
	return st
}

// CheckRoundTrip computes the script between two snapshots and replays it
// through the interpreter, verifying that the script really carries prev
// to next. It returns the script it verified.
func CheckRoundTrip[K comparable](prev, next section.Snapshot[K]) ([]diff.Op[K], error) {
	ops := diff.Compute(prev, next)
	got, err := diff.Apply(diff.StateOf(prev), ops, diff.SnapshotSource(next))
	if err != nil {
		return ops, err
	}
	if want := diff.StateOf(next); !got.Equal(want) {
		return ops, &errors.Error{
			Op:   "listtest.CheckRoundTrip",
			Kind: errors.KindApply,
			Err:  &errors.ApplyViolation{Detail: "replayed state diverges from the target snapshot"},
		}
	}
	return ops, nil
}
