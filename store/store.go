// Package store holds the ordered list of imported photographs and their
// rotation state.
//
// The store is a plain data structure: it never renders anything. A
// presentation layer that needs to refresh a preview subscribes to change
// events with [Store.Subscribe] and decides for itself what to redraw.
//
// Items are identified by position. All index-based operations are no-ops,
// not errors, when the index is out of range or the move would cross a
// boundary; they report whether anything changed.
//
// A Store is not safe for concurrent use.
package store

import "github.com/tsawler/photopages/model"

// noSelection is the event index when no single item is affected.
const noSelection = -1

// Store is an ordered list of items with an optional single selection.
// The zero value is an empty store with nothing selected.
type Store struct {
	items     []model.Item
	sel       int // Selected index + 1; 0 when nothing is selected
	listeners map[int]func(Event)
	nextID    int
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.items)
}

// At returns the item at index i.
func (s *Store) At(i int) (model.Item, bool) {
	if !s.inRange(i) {
		return model.Item{}, false
	}
	return s.items[i], true
}

// Items returns a copy of the items in display order.
func (s *Store) Items() []model.Item {
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Sources returns the source references in display order.
func (s *Store) Sources() []string {
	out := make([]string, len(s.items))
	for i, it := range s.items {
		out[i] = it.Source
	}
	return out
}

// ReplaceAll discards the current items and selection and appends one
// unrotated item per source, in order. Sources are neither deduplicated nor
// checked for decodability.
func (s *Store) ReplaceAll(sources []string) {
	s.items = make([]model.Item, 0, len(sources))
	for _, src := range sources {
		s.items = append(s.items, model.NewItem(src))
	}
	s.sel = 0
	s.emit(Event{Kind: Replaced, Index: noSelection})
}

// MoveUp swaps the item at i with the one before it.
func (s *Store) MoveUp(i int) bool {
	if !s.inRange(i) || i == 0 {
		return false
	}
	s.swap(i, i-1)
	s.emit(Event{Kind: Moved, Index: i - 1, From: i})
	return true
}

// MoveDown swaps the item at i with the one after it.
func (s *Store) MoveDown(i int) bool {
	if !s.inRange(i) || i == len(s.items)-1 {
		return false
	}
	s.swap(i, i+1)
	s.emit(Event{Kind: Moved, Index: i + 1, From: i})
	return true
}

// Remove deletes the item at i. Removing the selected item clears the
// selection; a selection after i follows its item down by one.
func (s *Store) Remove(i int) bool {
	if !s.inRange(i) {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	switch {
	case s.sel == i+1:
		s.sel = 0
	case s.sel > i+1:
		s.sel--
	}
	s.emit(Event{Kind: Removed, Index: i})
	return true
}

// Rotate advances the rotation of the item at i by 90 degrees clockwise.
func (s *Store) Rotate(i int) bool {
	if !s.inRange(i) {
		return false
	}
	s.items[i].Rotation = s.items[i].Rotation.Next()
	s.emit(Event{Kind: Rotated, Index: i})
	return true
}

// SetRotation sets the rotation of the item at i directly.
func (s *Store) SetRotation(i int, r model.Rotation) bool {
	if !s.inRange(i) || !r.Valid() || s.items[i].Rotation == r {
		return false
	}
	s.items[i].Rotation = r
	s.emit(Event{Kind: Rotated, Index: i})
	return true
}

// swap exchanges two items, keeping the selection on the item it was on.
func (s *Store) swap(a, b int) {
	s.items[a], s.items[b] = s.items[b], s.items[a]
	switch s.sel {
	case a + 1:
		s.sel = b + 1
	case b + 1:
		s.sel = a + 1
	}
}

func (s *Store) inRange(i int) bool {
	return i >= 0 && i < len(s.items)
}
