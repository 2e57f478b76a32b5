package listtest

import (
	"testing"

	"github.com/go-drift/listkit/pkg/errors"
	"github.com/go-drift/listkit/pkg/reconcile"
)

// TestingT is the subset of *testing.T the harness helpers use, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Tester wires a driver to a mirror surface and captures every diagnostic
// reported through the global errors handler while the test runs. Cycle
// tokens are deterministic unless overridden through options.
type Tester[K comparable] struct {
	Driver *reconcile.Driver[K]
	Mirror *MirrorSurface[K]

	Errors     []*errors.Error
	Panics     []*errors.PanicError
	Mismatches []*errors.TypeMismatch
}

// NewTester creates a tester and installs it as the global diagnostics
// handler. Call Cleanup when done, or use NewTesterWithT instead.
func NewTester[K comparable](opts ...reconcile.Option[K]) *Tester[K] {
	tester := &Tester[K]{Mirror: NewMirrorSurface[K]()}
	all := append([]reconcile.Option[K]{
		reconcile.WithTokenGenerator[K](&reconcile.FixedTokens{Prefix: "test"}),
	}, opts...)
	tester.Driver = reconcile.NewDriver[K](tester.Mirror, all...)
	errors.SetHandler(tester)
	return tester
}

// NewTesterWithT creates a tester that restores the global diagnostics
// handler via t.Cleanup. This is the recommended constructor for tests.
func NewTesterWithT[K comparable](t *testing.T, opts ...reconcile.Option[K]) *Tester[K] {
	tester := NewTester[K](opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup restores the default global diagnostics handler. Must be called
// if not using NewTesterWithT.
func (t *Tester[K]) Cleanup() {
	errors.SetHandler(nil)
}

func (t *Tester[K]) HandleError(e *errors.Error) { t.Errors = append(t.Errors, e) }

func (t *Tester[K]) HandlePanic(p *errors.PanicError) { t.Panics = append(t.Panics, p) }

func (t *Tester[K]) HandleMismatch(m *errors.TypeMismatch) { t.Mismatches = append(t.Mismatches, m) }

// MustReconcile reconciles and fails the test on error.
func (t *Tester[K]) MustReconcile(tb TestingT) {
	tb.Helper()
	if err := t.Driver.Reconcile(); err != nil {
		tb.Fatalf("reconcile: %v", err)
	}
}

// VerifyMirror fails the test when the mirror and the driver's committed
// view no longer display the same thing.
func (t *Tester[K]) VerifyMirror(tb TestingT) {
	tb.Helper()
	mirror := t.Mirror.State()
	view := FlattenView(t.Driver.View())
	if !mirror.Equal(view) {
		tb.Errorf("mirror diverged from the committed view\n--- mirror\n%s--- view\n%s", mirror, view)
	}
}
