// Package speeddial manages the ordered start-page shortcut tiles.
// The sequence lives in the settings store; this package only layers
// list operations on top of it.
package speeddial

import (
	"regexp"
	"strings"

	"github.com/entrhq/hypergx/pkg/settings"
	"github.com/entrhq/hypergx/pkg/weburl"
)

// Item is a speed-dial tile.
type Item = settings.SpeedDialItem

// DefaultIcon is used when a tile is added without an icon.
const DefaultIcon = "/assets/icons/chatgpt.svg"

// Registry is a view over the speed-dial list of a settings store.
type Registry struct {
	store *settings.Store
}

// New creates a registry backed by store.
func New(store *settings.Store) *Registry {
	return &Registry{store: store}
}

// Items returns the tiles in display order.
func (r *Registry) Items() []Item {
	return r.store.State().SpeedDial
}

// Get returns the tile with id.
func (r *Registry) Get(id string) (Item, bool) {
	for _, it := range r.Items() {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Add appends item. When an entry with the same id already exists it is
// replaced in place instead, so ids stay unique.
func (r *Registry) Add(item Item) {
	r.store.Update(func(st *settings.State) {
		for i := range st.SpeedDial {
			if st.SpeedDial[i].ID == item.ID {
				st.SpeedDial[i] = item
				return
			}
		}
		st.SpeedDial = append(st.SpeedDial, item)
	})
}

// Update replaces the entry whose id matches item. It reports whether an
// entry was found.
func (r *Registry) Update(item Item) bool {
	found := false
	r.store.Update(func(st *settings.State) {
		for i := range st.SpeedDial {
			if st.SpeedDial[i].ID == item.ID {
				st.SpeedDial[i] = item
				found = true
				return
			}
		}
	})
	return found
}

// Remove drops the entry with id. Absent ids are a no-op.
func (r *Registry) Remove(id string) {
	r.store.Update(func(st *settings.State) {
		kept := st.SpeedDial[:0]
		for _, it := range st.SpeedDial {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		st.SpeedDial = kept
	})
}

// Reorder replaces the sequence wholesale.
func (r *Registry) Reorder(items []Item) {
	r.store.SetSpeedDial(items)
}

// Move shifts the tile at from to position to, shifting the tiles in
// between. Out-of-range indices are ignored.
func (r *Registry) Move(from, to int) bool {
	items := r.Items()
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) || from == to {
		return false
	}
	r.Reorder(ArrayMove(items, from, to))
	return true
}

// ArrayMove returns a copy of items with the element at from moved to to.
func ArrayMove(items []Item, from, to int) []Item {
	out := make([]Item, 0, len(items))
	moved := items[from]
	for i, it := range items {
		if i == from {
			continue
		}
		out = append(out, it)
	}
	out = append(out, Item{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out
}

var slugSpaces = regexp.MustCompile(`\s+`)

// Slug derives a tile id from its title: lower case, whitespace runs
// replaced by a hyphen.
func Slug(title string) string {
	return slugSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
}

// NewItem builds a tile from form input. The id is derived from the
// title, the URL is normalized and a missing icon gets DefaultIcon.
func NewItem(title, rawURL, icon string) Item {
	title = strings.TrimSpace(title)
	icon = strings.TrimSpace(icon)
	if icon == "" {
		icon = DefaultIcon
	}
	return Item{
		ID:    Slug(title),
		Title: title,
		URL:   weburl.Normalize(rawURL),
		Icon:  icon,
	}
}
