package store

// EventKind identifies the mutation that produced an Event.
type EventKind int

// Event kinds.
const (
	Replaced EventKind = iota + 1
	Moved
	Removed
	Rotated
	Selected
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case Replaced:
		return "replaced"
	case Moved:
		return "moved"
	case Removed:
		return "removed"
	case Rotated:
		return "rotated"
	case Selected:
		return "selected"
	default:
		return "unknown"
	}
}

// Event describes a completed change to the store.
type Event struct {
	Kind  EventKind
	Index int // Affected index after the change; -1 when not applicable
	From  int // Original index for Moved events
	Len   int // Item count after the change
}

// Subscribe registers fn to be called synchronously after every change.
// No-op operations emit nothing. The returned function removes the
// subscription.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	if s.listeners == nil {
		s.listeners = make(map[int]func(Event))
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		delete(s.listeners, id)
	}
}

func (s *Store) emit(ev Event) {
	ev.Len = len(s.items)
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			fn(ev)
		}
	}
}
