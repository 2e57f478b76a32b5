package diff

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/listkit/pkg/section"
)

type item struct {
	ID    int
	Title string
}

// entry builds a row whose identity is the integer itself.
func entry(id int) section.Row {
	return section.Backed(fmt.Sprintf("item %d", id), id)
}

// taskRow builds a row identified by ID, so title edits show up as content
// changes rather than new rows.
func taskRow(id int, title string) section.Row {
	return section.BackedBy(title, item{ID: id, Title: title}, section.Strategy[item]{
		Same: func(a, b item) bool { return a.ID == b.ID },
	})
}

type fixture struct {
	order   []string
	rows    map[string][]section.Row
	headers map[string]any
	footers map[string]any
}

func (f fixture) snapshot(t *testing.T) section.Snapshot[string] {
	t.Helper()
	s := section.NewStore[string]()
	require.NoError(t, s.Declare(f.order...))
	for _, key := range f.order {
		if rows, ok := f.rows[key]; ok {
			s.SetRows(key, rows...)
		}
		if h, ok := f.headers[key]; ok {
			s.SetHeader(key, h)
		}
		if ft, ok := f.footers[key]; ok {
			s.SetFooter(key, ft)
		}
	}
	return s.Snapshot()
}

func TestComputeNoChanges(t *testing.T) {
	f := fixture{
		order: []string{"inbox", "archive"},
		rows: map[string][]section.Row{
			"inbox":   {entry(1), entry(2)},
			"archive": {entry(3)},
		},
	}
	ops := Compute(f.snapshot(t), f.snapshot(t))
	assert.Empty(t, ops)
}

func TestComputeIsDeterministic(t *testing.T) {
	prev := fixture{
		order: []string{"a", "b", "c"},
		rows: map[string][]section.Row{
			"a": {entry(1), entry(2)},
			"b": {entry(3)},
			"c": {entry(4), entry(5)},
		},
	}.snapshot(t)
	next := fixture{
		order: []string{"c", "a", "d"},
		rows: map[string][]section.Row{
			"c": {entry(5), entry(1)},
			"a": {entry(2)},
			"d": {entry(6)},
		},
	}.snapshot(t)

	want := Script(Compute(prev, next))
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, Script(Compute(prev, next)))
	}
}

func TestComputeCrossSectionMove(t *testing.T) {
	prev := fixture{
		order: []string{"inbox", "archive"},
		rows: map[string][]section.Row{
			"inbox":   {entry(1), entry(2), entry(3)},
			"archive": {entry(4), entry(5)},
		},
	}.snapshot(t)
	next := fixture{
		order: []string{"inbox", "archive"},
		rows: map[string][]section.Row{
			"inbox":   {entry(2), entry(3)},
			"archive": {entry(1), entry(4), entry(5)},
		},
	}.snapshot(t)

	ops := Compute(prev, next)
	require.Len(t, ops, 2)

	del := ops[0]
	assert.Equal(t, OpRowDelete, del.Kind)
	assert.Equal(t, "inbox", del.Section)
	assert.Equal(t, 0, del.SectionIndex)
	assert.Equal(t, 0, del.Row)
	assert.Equal(t, ReasonMove, del.Reason.Kind)
	assert.Equal(t, "archive", del.Reason.Section)
	assert.Equal(t, 0, del.Reason.Row)

	ins := ops[1]
	assert.Equal(t, OpRowInsert, ins.Kind)
	assert.Equal(t, "archive", ins.Section)
	assert.Equal(t, 1, ins.SectionIndex)
	assert.Equal(t, 0, ins.Row)
	assert.Equal(t, ReasonMove, ins.Reason.Kind)
	assert.Equal(t, "inbox", ins.Reason.Section)
	assert.Equal(t, 0, ins.Reason.Row)
}

func TestComputeAdjacentSectionSwap(t *testing.T) {
	prev := fixture{
		order: []string{"todo", "done"},
		rows: map[string][]section.Row{
			"todo": {entry(1)},
			"done": {entry(2)},
		},
	}.snapshot(t)
	next := fixture{
		order: []string{"done", "todo"},
		rows: map[string][]section.Row{
			"todo": {entry(1)},
			"done": {entry(2)},
		},
	}.snapshot(t)

	ops := Compute(prev, next)
	require.Len(t, ops, 1, "a swap is one move, not delete+insert and not two moves")
	assert.Equal(t, OpSectionMove, ops[0].Kind)
	assert.Equal(t, "done", ops[0].Section)
	assert.Equal(t, 1, ops[0].FromIndex)
	assert.Equal(t, 0, ops[0].SectionIndex)
}

func TestComputeFromEmpty(t *testing.T) {
	prev := fixture{}.snapshot(t)
	next := fixture{
		order: []string{"a", "b"},
		rows: map[string][]section.Row{
			"a": {entry(1), entry(2)},
			"b": {entry(3)},
		},
	}.snapshot(t)

	ops := Compute(prev, next)
	require.Len(t, ops, 2, "rows travel with inserted sections")
	assert.Equal(t, OpSectionInsert, ops[0].Kind)
	assert.Equal(t, "a", ops[0].Section)
	assert.Equal(t, 0, ops[0].SectionIndex)
	assert.Equal(t, OpSectionInsert, ops[1].Kind)
	assert.Equal(t, "b", ops[1].Section)
	assert.Equal(t, 1, ops[1].SectionIndex)
}

func TestComputeToEmpty(t *testing.T) {
	prev := fixture{
		order: []string{"a", "b"},
		rows: map[string][]section.Row{
			"a": {entry(1)},
			"b": {entry(2)},
		},
	}.snapshot(t)
	next := fixture{}.snapshot(t)

	ops := Compute(prev, next)
	require.Len(t, ops, 2)
	assert.Equal(t, OpSectionDelete, ops[0].Kind)
	assert.Equal(t, "b", ops[0].Section, "deletes descend through the old order")
	assert.Equal(t, 1, ops[0].SectionIndex)
	assert.Equal(t, OpSectionDelete, ops[1].Kind)
	assert.Equal(t, "a", ops[1].Section)
	assert.Equal(t, 0, ops[1].SectionIndex)
}

func TestComputeSameSectionReorder(t *testing.T) {
	prev := fixture{
		order: []string{"list"},
		rows:  map[string][]section.Row{"list": {entry(1), entry(2), entry(3)}},
	}.snapshot(t)
	next := fixture{
		order: []string{"list"},
		rows:  map[string][]section.Row{"list": {entry(3), entry(1), entry(2)}},
	}.snapshot(t)

	ops := Compute(prev, next)
	require.Len(t, ops, 2, "one displaced row is one move pair")

	assert.Equal(t, OpRowDelete, ops[0].Kind)
	assert.Equal(t, 2, ops[0].Row)
	assert.Equal(t, ReasonMove, ops[0].Reason.Kind)
	assert.Equal(t, 0, ops[0].Reason.Row)

	assert.Equal(t, OpRowInsert, ops[1].Kind)
	assert.Equal(t, 0, ops[1].Row)
	assert.Equal(t, ReasonMove, ops[1].Reason.Kind)
	assert.Equal(t, 2, ops[1].Reason.Row)
}

func TestComputeRefreshOnlyForStableRows(t *testing.T) {
	t.Run("stable row with changed content refreshes", func(t *testing.T) {
		prev := fixture{
			order: []string{"list"},
			rows:  map[string][]section.Row{"list": {taskRow(1, "write"), taskRow(2, "review")}},
		}.snapshot(t)
		next := fixture{
			order: []string{"list"},
			rows:  map[string][]section.Row{"list": {taskRow(1, "write v2"), taskRow(2, "review")}},
		}.snapshot(t)

		ops := Compute(prev, next)
		require.Len(t, ops, 1)
		assert.Equal(t, OpRowRefresh, ops[0].Kind)
		assert.Equal(t, 0, ops[0].Row)
	})

	t.Run("moved row with changed content does not refresh", func(t *testing.T) {
		prev := fixture{
			order: []string{"list"},
			rows:  map[string][]section.Row{"list": {taskRow(1, "write"), taskRow(2, "review")}},
		}.snapshot(t)
		next := fixture{
			order: []string{"list"},
			rows:  map[string][]section.Row{"list": {taskRow(2, "review v2"), taskRow(1, "write")}},
		}.snapshot(t)

		ops := Compute(prev, next)
		require.Len(t, ops, 2, "the insert half re-pulls content, no refresh needed")
		assert.Equal(t, OpRowDelete, ops[0].Kind)
		assert.Equal(t, OpRowInsert, ops[1].Kind)
	})
}

func TestComputePlainRowsFallBackToDeleteInsert(t *testing.T) {
	f := fixture{
		order: []string{"list"},
		rows:  map[string][]section.Row{"list": {section.Plain("x"), section.Plain("y")}},
	}
	ops := Compute(f.snapshot(t), f.snapshot(t))

	require.Len(t, ops, 4, "rows without identity are conservatively replaced")
	assert.Equal(t, "delete row list[1]\ndelete row list[0]\ninsert row list[0]\ninsert row list[1]\n", Script(ops))
}

func TestComputeEmissionOrder(t *testing.T) {
	prev := fixture{
		order: []string{"alpha", "beta", "gamma"},
		rows: map[string][]section.Row{
			"alpha": {entry(11), entry(12)},
			"beta":  {entry(21)},
			"gamma": {entry(31), entry(32)},
		},
		headers: map[string]any{"alpha": "A"},
	}.snapshot(t)
	next := fixture{
		order: []string{"gamma", "alpha", "delta"},
		rows: map[string][]section.Row{
			"gamma": {entry(32)},
			"alpha": {entry(12), entry(31)},
			"delta": {entry(41)},
		},
		headers: map[string]any{"alpha": "A2"},
	}.snapshot(t)

	want := "delete section beta (old 1)\n" +
		"move section gamma (2 -> 0)\n" +
		"insert section delta (new 2)\n" +
		"delete row alpha[0]\n" +
		"delete row gamma[0] (moved to alpha[1])\n" +
		"insert row alpha[1] (moved from gamma[0])\n" +
		"refresh header alpha\n"
	assert.Equal(t, want, Script(Compute(prev, next)))
}

func TestComputeHeaderBeforeFooter(t *testing.T) {
	prev := fixture{
		order:   []string{"list"},
		rows:    map[string][]section.Row{"list": {entry(1)}},
		headers: map[string]any{"list": "old header"},
		footers: map[string]any{"list": "old footer"},
	}.snapshot(t)
	next := fixture{
		order:   []string{"list"},
		rows:    map[string][]section.Row{"list": {entry(1)}},
		headers: map[string]any{"list": "new header"},
		footers: map[string]any{"list": "new footer"},
	}.snapshot(t)

	ops := Compute(prev, next)
	require.Len(t, ops, 2)
	assert.Equal(t, OpHeaderRefresh, ops[0].Kind)
	assert.Equal(t, OpFooterRefresh, ops[1].Kind)
}

func TestComputeDeletedSectionKeepsItsRows(t *testing.T) {
	prev := fixture{
		order: []string{"stay", "go"},
		rows: map[string][]section.Row{
			"stay": {entry(1)},
			"go":   {entry(2), entry(3)},
		},
	}.snapshot(t)
	next := fixture{
		order: []string{"stay"},
		rows:  map[string][]section.Row{"stay": {entry(1)}},
	}.snapshot(t)

	ops := Compute(prev, next)
	require.Len(t, ops, 1, "no row deletes inside a deleted section")
	assert.Equal(t, OpSectionDelete, ops[0].Kind)
}

func TestComputeRowLeavingForDeletedSectionIsNotAMove(t *testing.T) {
	// Rows of a deleted section vanish with it; a surviving section picking
	// up an identical row gets a plain insert, not a move half.
	prev := fixture{
		order: []string{"keep", "drop"},
		rows: map[string][]section.Row{
			"keep": {entry(1)},
			"drop": {entry(9)},
		},
	}.snapshot(t)
	next := fixture{
		order: []string{"keep"},
		rows:  map[string][]section.Row{"keep": {entry(1), entry(9)}},
	}.snapshot(t)

	ops := Compute(prev, next)
	require.Len(t, ops, 2)
	assert.Equal(t, OpSectionDelete, ops[0].Kind)
	assert.Equal(t, OpRowInsert, ops[1].Kind)
	assert.Equal(t, ReasonEdit, ops[1].Reason.Kind)
}

func assertMovePairing(t *testing.T, ops []Op[string]) {
	t.Helper()
	targets := make(map[coord[string]]coord[string])
	for _, op := range ops {
		if op.Kind == OpRowDelete && op.Reason.Kind == ReasonMove {
			origin := coord[string]{key: op.Section, row: op.Row}
			_, dup := targets[origin]
			require.False(t, dup, "duplicate move delete %s", op)
			targets[origin] = coord[string]{key: op.Reason.Section, row: op.Reason.Row}
		}
	}
	consumed := make(map[coord[string]]bool)
	for _, op := range ops {
		if op.Kind == OpRowInsert && op.Reason.Kind == ReasonMove {
			origin := coord[string]{key: op.Reason.Section, row: op.Reason.Row}
			target, ok := targets[origin]
			require.True(t, ok, "insert %s has no delete half", op)
			require.Equal(t, coord[string]{key: op.Section, row: op.Row}, target, "halves disagree for %s", op)
			require.False(t, consumed[origin], "delete half consumed twice by %s", op)
			consumed[origin] = true
		}
	}
	require.Len(t, consumed, len(targets), "every move delete needs its insert")
}

func assertRowOrdering(t *testing.T, ops []Op[string]) {
	t.Helper()
	lastDelete := make(map[string]int)
	lastInsert := make(map[string]int)
	for _, op := range ops {
		switch op.Kind {
		case OpRowDelete:
			if prev, ok := lastDelete[op.Section]; ok {
				require.Less(t, op.Row, prev, "delete indices must descend, got %s", op)
			}
			lastDelete[op.Section] = op.Row
		case OpRowInsert:
			if prev, ok := lastInsert[op.Section]; ok {
				require.Greater(t, op.Row, prev, "insert indices must ascend, got %s", op)
			}
			lastInsert[op.Section] = op.Row
		}
	}
}

func TestComputeShuffleSoak(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	pool := []string{"a", "b", "c", "d"}

	build := func() section.Snapshot[string] {
		s := section.NewStore[string]()
		keys := slices.Clone(pool)
		r.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		keys = keys[:1+r.Intn(len(keys))]
		require.NoError(t, s.Declare(keys...))
		for _, id := range r.Perm(12)[:r.Intn(13)] {
			key := keys[r.Intn(len(keys))]
			rows, err := s.Rows(key)
			require.NoError(t, err)
			if r.Intn(8) == 0 {
				rows = append(rows, section.Plain(fmt.Sprintf("loose %d", id)))
			} else {
				rows = append(rows, entry(id))
			}
			s.SetRows(key, rows...)
		}
		for _, key := range keys {
			if r.Intn(3) == 0 {
				s.SetHeader(key, fmt.Sprintf("header %d", r.Intn(3)))
			}
		}
		return s.Snapshot()
	}

	for trial := 0; trial < 250; trial++ {
		prev := build()
		next := build()
		ops := Compute(prev, next)
		assertMovePairing(t, ops)
		assertRowOrdering(t, ops)

		got, err := Apply(StateOf(prev), ops, SnapshotSource(next))
		require.NoError(t, err, "trial %d\n%s", trial, Script(ops))
		require.True(t, got.Equal(StateOf(next)), "trial %d\n%s", trial, Script(ops))
	}
}

func TestTally(t *testing.T) {
	prev := fixture{
		order: []string{"a", "b", "d"},
		rows: map[string][]section.Row{
			"a": {entry(1), entry(2), entry(5)},
			"b": {entry(3)},
			"d": {entry(7)},
		},
	}.snapshot(t)
	next := fixture{
		order: []string{"a", "b", "c"},
		rows: map[string][]section.Row{
			"a": {entry(2)},
			"b": {entry(3), entry(1)},
			"c": {entry(4)},
		},
	}.snapshot(t)

	ops := Compute(prev, next)
	stats := Tally(ops)

	assert.Equal(t, 1, stats.SectionDeletes)
	assert.Equal(t, 1, stats.SectionInserts)
	assert.Equal(t, 1, stats.RowMoves, "entry 1 moves from a to b")
	assert.Equal(t, 1, stats.RowDeletes, "entry 5 vanishes with no destination")
	assert.Equal(t, stats.Total(), len(ops))
}
