package reconcile

import (
	"github.com/go-drift/listkit/pkg/diff"
	"github.com/go-drift/listkit/pkg/dispatch"
	"github.com/go-drift/listkit/pkg/errors"
	"github.com/go-drift/listkit/pkg/section"
)

// Phase is where the driver currently is in its cycle.
type Phase int

const (
	// PhaseIdle means no cycle is running.
	PhaseIdle Phase = iota
	// PhaseDiffing means snapshots are being compared.
	PhaseDiffing
	// PhaseDispatching means change notifications are firing.
	PhaseDispatching
	// PhaseApplying means the surface is applying the script.
	PhaseApplying
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDiffing:
		return "diffing"
	case PhaseDispatching:
		return "dispatching"
	case PhaseApplying:
		return "applying"
	}
	return "unknown"
}

// Surface is the display side of a binding. ApplyOperations receives the
// script of one cycle along with the view serving that cycle's committed
// state and the cycle token. Returning an error marks the surface out of
// sync; the driver reports it and surfaces it from Reconcile.
type Surface[K comparable] interface {
	ApplyOperations(view View[K], token string, ops []diff.Op[K]) error
}

// Driver binds supplied list data to a surface.
//
// Supply methods stage data without touching the display. Reconcile performs
// one cycle: diff, commit, notify, apply. A nil surface is allowed and makes
// the driver headless, which is how most tests run it.
type Driver[K comparable] struct {
	surface Surface[K]
	table   *dispatch.Table[K]
	staged  *section.Store[K]

	committed section.Snapshot[K]
	view      driverView[K]

	phase       Phase
	reconciling bool
	pending     bool

	defaultRowHeight float64
	tokens           TokenGenerator
}

// Option configures a Driver.
type Option[K comparable] func(*Driver[K])

// WithDefaultRowHeight overrides the height reported when no handler serves
// KindRowHeight.
func WithDefaultRowHeight[K comparable](height float64) Option[K] {
	return func(d *Driver[K]) { d.defaultRowHeight = height }
}

// WithTokenGenerator overrides cycle token generation, usually with
// FixedTokens in tests.
func WithTokenGenerator[K comparable](g TokenGenerator) Option[K] {
	return func(d *Driver[K]) { d.tokens = g }
}

// NewDriver returns a driver bound to surface.
func NewDriver[K comparable](surface Surface[K], opts ...Option[K]) *Driver[K] {
	d := &Driver[K]{
		surface:          surface,
		table:            dispatch.NewTable[K](),
		staged:           section.NewStore[K](),
		phase:            PhaseIdle,
		defaultRowHeight: DefaultRowHeight,
		tokens:           UUIDTokens{},
	}
	d.view = driverView[K]{d: d}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Phase reports the driver's current cycle phase.
func (d *Driver[K]) Phase() Phase {
	return d.phase
}

// View returns the query interface over the committed state. The same value
// is passed to the surface on every cycle.
func (d *Driver[K]) View() View[K] {
	return d.view
}

// SupplySections stages the displayed section list. Data held for sections
// that drop out of the list is destroyed.
func (d *Driver[K]) SupplySections(keys ...K) error {
	return d.staged.Declare(keys...)
}

// SupplyRows stages a wholesale replacement of one section's rows. An unseen
// key stages a new dynamic section at the end of the list.
func (d *Driver[K]) SupplyRows(key K, rows ...section.Row) {
	d.staged.SetRows(key, rows...)
}

// SupplyHeader stages a section's header state; nil clears it.
func (d *Driver[K]) SupplyHeader(key K, state any) {
	d.staged.SetHeader(key, state)
}

// SupplyFooter stages a section's footer state; nil clears it.
func (d *Driver[K]) SupplyFooter(key K, state any) {
	d.staged.SetFooter(key, state)
}

// Register binds a handler in the driver's dispatch table. Registration is
// validated immediately; a rejected handler binds nothing.
func (d *Driver[K]) Register(kind dispatch.Kind, scope dispatch.Scope[K], handler dispatch.Handler[K]) error {
	return d.table.Register(kind, scope, handler)
}

// Reconcile runs cycles until staged and committed agree.
//
// Calls made while a cycle is running, typically from notification handlers
// or surface callbacks, coalesce into a single follow-up cycle instead of
// recursing. A surface error stops the loop and is returned after being
// reported; staged changes queued behind the failure stay staged for the
// next call.
func (d *Driver[K]) Reconcile() error {
	if d.reconciling {
		d.pending = true
		return nil
	}
	d.reconciling = true
	defer func() { d.reconciling = false }()

	for {
		if err := d.cycle(); err != nil {
			return err
		}
		if !d.pending {
			return nil
		}
		d.pending = false
	}
}

func (d *Driver[K]) cycle() error {
	token := d.tokens.Next()

	d.phase = PhaseDiffing
	prev := d.committed
	next := d.staged.Snapshot()
	ops := diff.Compute(prev, next)

	// Commit before anything runs integrator code: every query during
	// notifications and application must see the new snapshot.
	d.committed = next

	d.phase = PhaseDispatching
	d.notifyAll(prev, next, ops)

	d.phase = PhaseApplying
	defer func() { d.phase = PhaseIdle }()
	if d.surface != nil && len(ops) > 0 {
		if aerr := d.surface.ApplyOperations(d.view, token, ops); aerr != nil {
			err := &errors.Error{Op: "reconcile.Driver.Reconcile", Kind: errors.KindApply, Err: aerr}
			errors.Report(err)
			return err
		}
	}
	return nil
}

// notifyAll fires row change notifications in script order. Both halves of a
// move are observable: the delete half fires KindRowDeleted with Move naming
// the destination, the insert half fires KindRowMoved with Move naming the
// origin. Departure handlers run before arrival handlers that way.
func (d *Driver[K]) notifyAll(prev, next section.Snapshot[K], ops []diff.Op[K]) {
	for _, op := range ops {
		switch op.Kind {
		case diff.OpRowDelete:
			ctx := dispatch.Context[K]{
				Key:   op.Section,
				Index: op.Row,
				Row:   rowAt(prev, op.Section, op.Row),
			}
			if op.Reason.Kind == diff.ReasonMove {
				ctx.Move = &dispatch.MoveInfo[K]{
					FromSection: op.Section,
					FromRow:     op.Row,
					ToSection:   op.Reason.Section,
					ToRow:       op.Reason.Row,
				}
			}
			d.notify(dispatch.KindRowDeleted, op.Section, prev.Declared[op.Section], ctx)
		case diff.OpRowInsert:
			ctx := dispatch.Context[K]{
				Key:   op.Section,
				Index: op.Row,
				Row:   rowAt(next, op.Section, op.Row),
			}
			if op.Reason.Kind == diff.ReasonMove {
				ctx.Move = &dispatch.MoveInfo[K]{
					FromSection: op.Reason.Section,
					FromRow:     op.Reason.Row,
					ToSection:   op.Section,
					ToRow:       op.Row,
				}
				d.notify(dispatch.KindRowMoved, op.Section, next.Declared[op.Section], ctx)
			} else {
				d.notify(dispatch.KindRowInserted, op.Section, next.Declared[op.Section], ctx)
			}
		}
	}
}

// notify invokes one notification handler. Handler panics are contained and
// reported; the cycle continues.
func (d *Driver[K]) notify(kind dispatch.Kind, key K, declared bool, ctx dispatch.Context[K]) {
	defer errors.Recover("reconcile." + kind.String())
	d.table.Dispatch(kind, key, declared, ctx)
}

// pull invokes one value-producing handler. A panic is contained, reported,
// and turned into a miss so the view's default applies.
func (d *Driver[K]) pull(kind dispatch.Kind, key K, declared bool, ctx dispatch.Context[K]) (out any, ok bool) {
	defer errors.Recover("reconcile." + kind.String())
	return d.table.Dispatch(kind, key, declared, ctx)
}

func rowAt[K comparable](snap section.Snapshot[K], key K, index int) section.Row {
	rows := snap.Rows[key]
	if index < 0 || index >= len(rows) {
		return section.Row{}
	}
	return rows[index]
}
