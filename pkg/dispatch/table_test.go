package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/listkit/pkg/errors"
	"github.com/go-drift/listkit/pkg/section"
)

func constant(v any) Handler[string] {
	return func(Context[string]) any { return v }
}

func TestResolvePrecedence(t *testing.T) {
	tbl := NewTable[string]()
	require.NoError(t, tbl.Register(KindRowHeight, Sections("inbox"), constant("named")))
	require.NoError(t, tbl.Register(KindRowHeight, DynamicSections[string](), constant("dynamic")))
	require.NoError(t, tbl.Register(KindRowHeight, AnySection[string](), constant("catchall")))

	got, ok := tbl.Dispatch(KindRowHeight, "inbox", true, Context[string]{})
	require.True(t, ok)
	assert.Equal(t, "named", got)

	got, ok = tbl.Dispatch(KindRowHeight, "runtime-section", false, Context[string]{})
	require.True(t, ok)
	assert.Equal(t, "dynamic", got, "undeclared sections fall through to the dynamic handler")

	got, ok = tbl.Dispatch(KindRowHeight, "declared-other", true, Context[string]{})
	require.True(t, ok)
	assert.Equal(t, "catchall", got, "declared sections skip the dynamic handler")
}

func TestDynamicServesOnlyUndeclared(t *testing.T) {
	tbl := NewTable[string]()
	require.NoError(t, tbl.Register(KindRowContent, DynamicSections[string](), constant("dynamic")))

	_, ok := tbl.Resolve(KindRowContent, "declared", true)
	assert.False(t, ok, "row content has no catchall, so a declared key misses")

	got, ok := tbl.Dispatch(KindRowContent, "discovered", false, Context[string]{})
	require.True(t, ok)
	assert.Equal(t, "dynamic", got)
}

func TestAnySectionRejectedForContentKinds(t *testing.T) {
	tbl := NewTable[string]()
	for _, kind := range []Kind{KindRowContent, KindHeaderContent, KindFooterContent} {
		err := tbl.Register(kind, AnySection[string](), constant("x"))
		require.Error(t, err, kind.String())

		var le *errors.Error
		require.ErrorAs(t, err, &le)
		assert.Equal(t, errors.KindConfig, le.Kind)

		var scope *errors.ScopeNotAllowed
		require.ErrorAs(t, err, &scope)
		assert.Equal(t, kind.String(), scope.Kind)
	}
}

func TestAnySectionAcceptedForNotifications(t *testing.T) {
	tbl := NewTable[string]()
	for _, kind := range []Kind{KindRowHeight, KindRowDeleted, KindRowInserted, KindRowMoved} {
		require.NoError(t, tbl.Register(kind, AnySection[string](), constant("x")), kind.String())
	}
}

func TestRegisterConflicts(t *testing.T) {
	t.Run("named key taken", func(t *testing.T) {
		tbl := NewTable[string]()
		require.NoError(t, tbl.Register(KindRowContent, Sections("a"), constant("1")))

		err := tbl.Register(KindRowContent, Sections("a"), constant("2"))
		var already *errors.AlreadyRegistered
		require.ErrorAs(t, err, &already)
		assert.Equal(t, "row-content", already.Kind)
	})

	t.Run("overlapping keys fail atomically", func(t *testing.T) {
		tbl := NewTable[string]()
		require.NoError(t, tbl.Register(KindRowContent, Sections("a", "b"), constant("1")))
		require.Error(t, tbl.Register(KindRowContent, Sections("b", "c"), constant("2")))

		_, ok := tbl.Resolve(KindRowContent, "c", true)
		assert.False(t, ok, "a failed registration binds nothing")
	})

	t.Run("same key for different kinds is fine", func(t *testing.T) {
		tbl := NewTable[string]()
		require.NoError(t, tbl.Register(KindRowContent, Sections("a"), constant("1")))
		require.NoError(t, tbl.Register(KindRowHeight, Sections("a"), constant("2")))
	})

	t.Run("dynamic taken", func(t *testing.T) {
		tbl := NewTable[string]()
		require.NoError(t, tbl.Register(KindRowContent, DynamicSections[string](), constant("1")))
		require.Error(t, tbl.Register(KindRowContent, DynamicSections[string](), constant("2")))
	})

	t.Run("catchall taken", func(t *testing.T) {
		tbl := NewTable[string]()
		require.NoError(t, tbl.Register(KindRowMoved, AnySection[string](), constant("1")))
		require.Error(t, tbl.Register(KindRowMoved, AnySection[string](), constant("2")))
	})
}

func TestRegisterRejectsBadInput(t *testing.T) {
	tbl := NewTable[string]()

	err := tbl.Register(KindRowContent, Sections("a"), nil)
	require.Error(t, err)
	var le *errors.Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, errors.KindConfig, le.Kind)

	err = tbl.Register(KindRowContent, Sections[string](), constant("x"))
	require.Error(t, err, "a named scope needs at least one key")
}

func TestDispatchMissIsNotAnError(t *testing.T) {
	tbl := NewTable[string]()
	got, ok := tbl.Dispatch(KindRowContent, "anything", false, Context[string]{})
	assert.False(t, ok)
	assert.Nil(t, got)
}

type journalEntry struct {
	ID   int
	Text string
}

func TestForModel(t *testing.T) {
	handler := ForModel(func(ctx Context[string], e journalEntry) any {
		return e.Text
	})

	got := handler(Context[string]{
		Key: "notes",
		Row: section.Backed("display", journalEntry{ID: 1, Text: "typed"}),
	})
	assert.Equal(t, "typed", got)
}

type mismatchCapture struct {
	mismatches []*errors.TypeMismatch
}

func (c *mismatchCapture) HandleError(*errors.Error) {}

func (c *mismatchCapture) HandlePanic(*errors.PanicError) {}

func (c *mismatchCapture) HandleMismatch(m *errors.TypeMismatch) {
	c.mismatches = append(c.mismatches, m)
}

func TestForModelMismatchSkipsAndReports(t *testing.T) {
	sink := &mismatchCapture{}
	errors.SetHandler(sink)
	t.Cleanup(func() { errors.SetHandler(nil) })

	handler := ForModel(func(ctx Context[string], e journalEntry) any {
		t.Fatal("handler must not run for a mismatched model")
		return nil
	})

	got := handler(Context[string]{
		Key: "notes",
		Row: section.Backed("display", "just a string"),
	})
	assert.Nil(t, got)

	require.Len(t, sink.mismatches, 1)
	assert.Equal(t, "dispatch.journalEntry", sink.mismatches[0].Want)
	assert.Equal(t, "string", sink.mismatches[0].Got)
	assert.Equal(t, "dispatch.ForModel", sink.mismatches[0].Op)
}
