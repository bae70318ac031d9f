package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/photopages/model"
	"github.com/tsawler/photopages/store"
)

// rotation is one -rotate value: a 1-based position and clockwise degrees.
type rotation struct {
	pos int
	rot model.Rotation
}

// rotationsFlag collects repeated -rotate N=DEG flags.
type rotationsFlag []rotation

func (f *rotationsFlag) String() string {
	parts := make([]string, len(*f))
	for i, r := range *f {
		parts[i] = fmt.Sprintf("%d=%d", r.pos, int(r.rot))
	}
	return strings.Join(parts, ",")
}

func (f *rotationsFlag) Set(s string) error {
	pos, deg, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("want N=DEGREES, got %q", s)
	}
	n, err := parsePosition(pos)
	if err != nil {
		return err
	}
	d, err := strconv.Atoi(strings.TrimSpace(deg))
	if err != nil {
		return fmt.Errorf("degrees %q: %w", deg, err)
	}
	r, err := model.Normalize(d)
	if err != nil {
		return err
	}
	*f = append(*f, rotation{pos: n, rot: r})
	return nil
}

type editKind string

const (
	editUp     editKind = "up"
	editDown   editKind = "down"
	editRemove editKind = "remove"
	editRotate editKind = "rotate"
)

type edit struct {
	kind editKind
	pos  int
}

// editsFlag collects repeated -edit OP:N flags, applied in order.
type editsFlag []edit

func (f *editsFlag) String() string {
	parts := make([]string, len(*f))
	for i, e := range *f {
		parts[i] = fmt.Sprintf("%s:%d", e.kind, e.pos)
	}
	return strings.Join(parts, ",")
}

func (f *editsFlag) Set(s string) error {
	op, pos, ok := strings.Cut(s, ":")
	if !ok {
		return fmt.Errorf("want OP:N, got %q", s)
	}
	kind := editKind(strings.ToLower(strings.TrimSpace(op)))
	switch kind {
	case editUp, editDown, editRemove, editRotate:
	default:
		return fmt.Errorf("unknown edit %q: want up, down, remove or rotate", op)
	}
	n, err := parsePosition(pos)
	if err != nil {
		return err
	}
	*f = append(*f, edit{kind: kind, pos: n})
	return nil
}

func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("position %q: %w", s, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("position %d: positions start at 1", n)
	}
	return n, nil
}

// applyEdits sets rotations by import position, then runs the edits in
// order against the current list. removed counts the removals.
func applyEdits(s *store.Store, rotations rotationsFlag, edits editsFlag) (removed int, err error) {
	for _, r := range rotations {
		if !s.SetRotation(r.pos-1, r.rot) {
			if _, ok := s.At(r.pos - 1); !ok {
				return removed, fmt.Errorf("-rotate %d: only %d images", r.pos, s.Len())
			}
		}
	}
	for _, e := range edits {
		i := e.pos - 1
		if _, ok := s.At(i); !ok {
			return removed, fmt.Errorf("-edit %s:%d: only %d images", e.kind, e.pos, s.Len())
		}
		switch e.kind {
		case editUp:
			s.MoveUp(i)
		case editDown:
			s.MoveDown(i)
		case editRemove:
			s.Remove(i)
			removed++
		case editRotate:
			s.Rotate(i)
		}
	}
	return removed, nil
}
