package section

import (
	"fmt"
	"reflect"
)

// Row is a single list entry: an opaque display payload plus an optional
// typed backing model used for identity and change detection.
//
// Row values are cheap to copy and safe to share; the backing model is held
// behind an immutable box.
type Row struct {
	display any
	box     *modelBox
}

// modelBox erases the backing model's static type while keeping typed
// comparison behavior in the closures captured at construction.
type modelBox struct {
	value   any
	token   string
	same    func(other *modelBox) bool
	changed func(other *modelBox) bool
}

// Strategy customizes how two backing models of type M are compared.
// Both fields are optional.
type Strategy[M any] struct {
	// Same reports whether a and b identify the same logical item.
	// When nil, identity falls back to structural equality of the models.
	Same func(a, b M) bool

	// Changed reports whether the row's content differs between two models
	// that already passed the identity check. When nil, any structural
	// difference counts as changed.
	Changed func(a, b M) bool
}

// Plain returns a row with no backing model. Plain rows are never identical
// to any other row, so edits around them resolve to delete+insert.
func Plain(display any) Row {
	return Row{display: display}
}

// Backed returns a row whose identity and change detection use structural
// equality of model.
func Backed[M any](display any, model M) Row {
	return BackedBy(display, model, Strategy[M]{})
}

// BackedBy returns a row backed by model, compared per strategy.
func BackedBy[M any](display any, model M, strategy Strategy[M]) Row {
	box := &modelBox{
		value: model,
		token: fmt.Sprintf("%T", model),
	}
	box.same = func(other *modelBox) bool {
		if other == nil {
			return false
		}
		if strategy.Same != nil {
			om, ok := other.value.(M)
			if !ok {
				return false
			}
			return strategy.Same(model, om)
		}
		if box.token != other.token {
			return false
		}
		return reflect.DeepEqual(box.value, other.value)
	}
	box.changed = func(other *modelBox) bool {
		if other == nil {
			return true
		}
		if strategy.Changed != nil {
			om, ok := other.value.(M)
			if !ok {
				return true
			}
			return strategy.Changed(model, om)
		}
		if box.token != other.token {
			return true
		}
		return !reflect.DeepEqual(box.value, other.value)
	}
	return Row{display: display, box: box}
}

// Display returns the row's display payload.
func (r Row) Display() any {
	return r.display
}

// HasModel reports whether the row carries a backing model.
func (r Row) HasModel() bool {
	return r.box != nil
}

// Model returns the backing model, untyped. ok is false for plain rows.
func (r Row) Model() (model any, ok bool) {
	if r.box == nil {
		return nil, false
	}
	return r.box.value, true
}

// ModelType returns the dynamic type name of the backing model, or "" for
// plain rows. It is meant for diagnostics only.
func (r Row) ModelType() string {
	if r.box == nil {
		return ""
	}
	return r.box.token
}

// SameItemAs reports whether r and other represent the same logical item.
// It is false whenever either row lacks a backing model: without a typed
// comparison the engine must assume distinct items.
func (r Row) SameItemAs(other Row) bool {
	if r.box == nil || other.box == nil {
		return false
	}
	return r.box.same(other.box)
}

// ChangedFrom reports whether the row's content differs from other.
// It is conservative: rows that cannot be compared report changed.
func (r Row) ChangedFrom(other Row) bool {
	if r.box == nil || other.box == nil {
		return true
	}
	return r.box.changed(other.box)
}

// ModelAs returns the backing model as M. ok is false for plain rows and
// for models of a different type.
func ModelAs[M any](r Row) (model M, ok bool) {
	if r.box == nil {
		var zero M
		return zero, false
	}
	model, ok = r.box.value.(M)
	return model, ok
}
