package store

// Select makes the item at i the current selection.
func (s *Store) Select(i int) bool {
	if !s.inRange(i) || s.sel == i+1 {
		return false
	}
	s.sel = i + 1
	s.emit(Event{Kind: Selected, Index: i})
	return true
}

// Selected returns the selected index.
func (s *Store) Selected() (int, bool) {
	if s.sel == 0 {
		return 0, false
	}
	return s.sel - 1, true
}

// MoveSelectedUp moves the selected item up. No-op without a selection.
func (s *Store) MoveSelectedUp() bool {
	i, ok := s.Selected()
	return ok && s.MoveUp(i)
}

// MoveSelectedDown moves the selected item down. No-op without a selection.
func (s *Store) MoveSelectedDown() bool {
	i, ok := s.Selected()
	return ok && s.MoveDown(i)
}

// RemoveSelected removes the selected item. No-op without a selection.
func (s *Store) RemoveSelected() bool {
	i, ok := s.Selected()
	return ok && s.Remove(i)
}

// RotateSelected rotates the selected item. No-op without a selection.
func (s *Store) RotateSelected() bool {
	i, ok := s.Selected()
	return ok && s.Rotate(i)
}
