package speeddial

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/hypergx/pkg/logging"
	"github.com/entrhq/hypergx/pkg/settings"
)

func newRegistry(t *testing.T, items ...Item) *Registry {
	t.Helper()
	store := settings.New(settings.WithLogger(logging.NewWithWriter("settings", io.Discard, logging.LevelError)))
	store.SetSpeedDial(items)
	return New(store)
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestRegistry_AddAppends(t *testing.T) {
	r := newRegistry(t, Item{ID: "a"}, Item{ID: "b"})
	r.Add(Item{ID: "c", Title: "C"})

	assert.Equal(t, []string{"a", "b", "c"}, ids(r.Items()))
}

func TestRegistry_AddExistingIDReplacesInPlace(t *testing.T) {
	r := newRegistry(t, Item{ID: "a", Title: "old"}, Item{ID: "b"})
	r.Add(Item{ID: "a", Title: "new"})

	items := r.Items()
	assert.Equal(t, []string{"a", "b"}, ids(items))
	assert.Equal(t, "new", items[0].Title)
}

func TestRegistry_Update(t *testing.T) {
	r := newRegistry(t, Item{ID: "a", URL: "https://a"})

	assert.True(t, r.Update(Item{ID: "a", URL: "https://a2"}))
	assert.False(t, r.Update(Item{ID: "zz"}))

	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "https://a2", got.URL)
	assert.Len(t, r.Items(), 1)
}

func TestRegistry_Remove(t *testing.T) {
	r := newRegistry(t, Item{ID: "a"}, Item{ID: "b"}, Item{ID: "c"})

	r.Remove("b")
	assert.Equal(t, []string{"a", "c"}, ids(r.Items()))

	r.Remove("missing")
	assert.Equal(t, []string{"a", "c"}, ids(r.Items()))
}

func TestRegistry_Reorder(t *testing.T) {
	r := newRegistry(t, Item{ID: "a"}, Item{ID: "b"}, Item{ID: "c"})
	r.Reorder([]Item{{ID: "c"}, {ID: "a"}, {ID: "b"}})

	assert.Equal(t, []string{"c", "a", "b"}, ids(r.Items()))
}

func TestRegistry_Move(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
		moved    bool
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}, true},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}, true},
		{"adjacent", 1, 2, []string{"a", "c", "b", "d"}, true},
		{"same", 1, 1, []string{"a", "b", "c", "d"}, false},
		{"out of range", 0, 9, []string{"a", "b", "c", "d"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRegistry(t, Item{ID: "a"}, Item{ID: "b"}, Item{ID: "c"}, Item{ID: "d"})
			assert.Equal(t, tt.moved, r.Move(tt.from, tt.to))
			assert.Equal(t, tt.want, ids(r.Items()))
		})
	}
}

func TestRegistry_PersistsThroughStore(t *testing.T) {
	r := newRegistry(t)
	r.Add(NewItem("Hacker News", "news.ycombinator.com", ""))

	exported, err := r.store.Export()
	require.NoError(t, err)
	assert.Contains(t, exported, `"id": "hacker-news"`)
}

func TestNewItem(t *testing.T) {
	it := NewItem("  My   Docs ", "docs.example.com", "")
	assert.Equal(t, "my-docs", it.ID)
	assert.Equal(t, "My   Docs", it.Title)
	assert.Equal(t, "https://docs.example.com", it.URL)
	assert.Equal(t, DefaultIcon, it.Icon)

	it = NewItem("Go", "http://go.dev", "/assets/icons/go.svg")
	assert.Equal(t, "http://go.dev", it.URL)
	assert.Equal(t, "/assets/icons/go.svg", it.Icon)
}
