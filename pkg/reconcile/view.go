package reconcile

import (
	"fmt"

	"github.com/go-drift/listkit/pkg/diff"
	"github.com/go-drift/listkit/pkg/dispatch"
	"github.com/go-drift/listkit/pkg/errors"
)

// DefaultRowHeight is the height reported for rows with no height handler.
const DefaultRowHeight = 44.0

// View is the query side of a binding. Surfaces pull structure and content
// through it while and after applying a script; every answer reflects the
// committed snapshot, never staged data.
type View[K comparable] interface {
	SectionCount() int
	KeyAt(index int) (K, error)
	RowCount(key K) int
	RowContent(key K, row int) any
	RowHeight(key K, row int) float64
	HeaderContent(key K) any
	FooterContent(key K) any
}

type driverView[K comparable] struct {
	d *Driver[K]
}

func (v driverView[K]) SectionCount() int {
	return len(v.d.committed.Order)
}

func (v driverView[K]) KeyAt(index int) (K, error) {
	order := v.d.committed.Order
	if index < 0 || index >= len(order) {
		var zero K
		return zero, &errors.Error{
			Op:   "reconcile.View.KeyAt",
			Kind: errors.KindConfig,
			Err:  fmt.Errorf("section index %d out of range (%d sections)", index, len(order)),
		}
	}
	return order[index], nil
}

func (v driverView[K]) RowCount(key K) int {
	return len(v.d.committed.Rows[key])
}

// RowContent resolves the row's content handler and falls back to the row's
// display payload on a miss, a panic, or a nil result (the typed-handler
// adapter returns nil after a model mismatch).
func (v driverView[K]) RowContent(key K, row int) any {
	snap := v.d.committed
	rows := snap.Rows[key]
	if row < 0 || row >= len(rows) {
		return nil
	}
	ctx := dispatch.Context[K]{Key: key, Index: row, Row: rows[row]}
	if out, ok := v.d.pull(dispatch.KindRowContent, key, snap.Declared[key], ctx); ok && out != nil {
		return out
	}
	return rows[row].Display()
}

func (v driverView[K]) RowHeight(key K, row int) float64 {
	snap := v.d.committed
	rows := snap.Rows[key]
	if row < 0 || row >= len(rows) {
		return v.d.defaultRowHeight
	}
	ctx := dispatch.Context[K]{Key: key, Index: row, Row: rows[row]}
	out, ok := v.d.pull(dispatch.KindRowHeight, key, snap.Declared[key], ctx)
	if !ok || out == nil {
		return v.d.defaultRowHeight
	}
	switch h := out.(type) {
	case float64:
		return h
	case float32:
		return float64(h)
	case int:
		return float64(h)
	default:
		errors.ReportMismatch(&errors.TypeMismatch{
			Op:   "reconcile.View.RowHeight",
			Want: "float64",
			Got:  fmt.Sprintf("%T", out),
		})
		return v.d.defaultRowHeight
	}
}

// HeaderContent resolves the header handler with the stored header state. A
// handler that runs owns the result, nil included; without one the stored
// state is the content.
func (v driverView[K]) HeaderContent(key K) any {
	snap := v.d.committed
	state := snap.Headers[key]
	ctx := dispatch.Context[K]{Key: key, Index: -1, State: state}
	if out, ok := v.d.pull(dispatch.KindHeaderContent, key, snap.Declared[key], ctx); ok {
		return out
	}
	return state
}

func (v driverView[K]) FooterContent(key K) any {
	snap := v.d.committed
	state := snap.Footers[key]
	ctx := dispatch.Context[K]{Key: key, Index: -1, State: state}
	if out, ok := v.d.pull(dispatch.KindFooterContent, key, snap.Declared[key], ctx); ok {
		return out
	}
	return state
}

// ViewSource adapts a view to the diff.Source a script interpreter pulls
// content from.
func ViewSource[K comparable](view View[K]) diff.Source[K] {
	return viewSource[K]{view: view}
}

type viewSource[K comparable] struct {
	view View[K]
}

func (s viewSource[K]) RowCount(key K) int { return s.view.RowCount(key) }

func (s viewSource[K]) RowContent(key K, row int) any { return s.view.RowContent(key, row) }

func (s viewSource[K]) HeaderContent(key K) any { return s.view.HeaderContent(key) }

func (s viewSource[K]) FooterContent(key K) any { return s.view.FooterContent(key) }
