package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type task struct {
	ID    int
	Title string
	Done  bool
}

func TestPlainRowsNeverIdentical(t *testing.T) {
	a := Plain("hello")
	b := Plain("hello")

	assert.False(t, a.SameItemAs(b))
	assert.False(t, a.SameItemAs(a))
	assert.True(t, a.ChangedFrom(b))
	assert.False(t, a.HasModel())
	assert.Equal(t, "hello", a.Display())
}

func TestBackedStructuralIdentity(t *testing.T) {
	a := Backed("row a", task{ID: 1, Title: "write tests"})
	same := Backed("row a'", task{ID: 1, Title: "write tests"})
	other := Backed("row b", task{ID: 2, Title: "ship"})

	assert.True(t, a.SameItemAs(same))
	assert.False(t, a.ChangedFrom(same))
	assert.False(t, a.SameItemAs(other))
}

func TestBackedByCustomIdentity(t *testing.T) {
	strategy := Strategy[task]{
		Same: func(a, b task) bool { return a.ID == b.ID },
	}
	before := BackedBy("buy milk", task{ID: 7, Title: "buy milk"}, strategy)
	after := BackedBy("buy milk!", task{ID: 7, Title: "buy milk", Done: true}, strategy)
	unrelated := BackedBy("walk dog", task{ID: 8, Title: "walk dog"}, strategy)

	assert.True(t, before.SameItemAs(after))
	assert.True(t, before.ChangedFrom(after), "default change detection is structural")
	assert.False(t, before.SameItemAs(unrelated))
}

func TestBackedByCustomChanged(t *testing.T) {
	strategy := Strategy[task]{
		Same:    func(a, b task) bool { return a.ID == b.ID },
		Changed: func(a, b task) bool { return a.Done != b.Done },
	}
	before := BackedBy("buy milk", task{ID: 7, Title: "buy milk"}, strategy)
	retitled := BackedBy("buy milk, please", task{ID: 7, Title: "buy milk, please"}, strategy)
	done := BackedBy("buy milk", task{ID: 7, Title: "buy milk", Done: true}, strategy)

	assert.False(t, before.ChangedFrom(retitled))
	assert.True(t, before.ChangedFrom(done))
}

func TestCrossTypeRowsNeverIdentical(t *testing.T) {
	number := Backed("one", 1)
	word := Backed("one", "one")

	assert.False(t, number.SameItemAs(word))
	assert.True(t, number.ChangedFrom(word))
}

func TestMixedPlainAndBacked(t *testing.T) {
	plain := Plain("loose")
	backed := Backed("bound", task{ID: 1})

	assert.False(t, plain.SameItemAs(backed))
	assert.False(t, backed.SameItemAs(plain))
	assert.True(t, backed.ChangedFrom(plain))
}

func TestModelAs(t *testing.T) {
	row := Backed("row", task{ID: 3, Title: "pack"})

	got, ok := ModelAs[task](row)
	require.True(t, ok)
	assert.Equal(t, 3, got.ID)

	_, ok = ModelAs[string](row)
	assert.False(t, ok)

	_, ok = ModelAs[task](Plain("row"))
	assert.False(t, ok)
}

func TestModelAccessors(t *testing.T) {
	row := Backed("row", task{ID: 3})

	model, ok := row.Model()
	require.True(t, ok)
	assert.Equal(t, task{ID: 3}, model)
	assert.Equal(t, "section.task", row.ModelType())

	_, ok = Plain("row").Model()
	assert.False(t, ok)
	assert.Equal(t, "", Plain("row").ModelType())
}
