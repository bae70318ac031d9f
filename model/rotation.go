package model

import "fmt"

// Rotation is a clockwise rotation in degrees. Valid values are 0, 90, 180
// and 270.
type Rotation int

// Supported rotations.
const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// Normalize maps any multiple of 90 degrees (including negative values) onto
// the range [0, 360). It returns an error for angles that are not multiples
// of 90.
func Normalize(degrees int) (Rotation, error) {
	if degrees%90 != 0 {
		return 0, fmt.Errorf("rotation %d is not a multiple of 90", degrees)
	}
	d := degrees % 360
	if d < 0 {
		d += 360
	}
	return Rotation(d), nil
}

// Next returns the rotation advanced by a quarter turn.
func (r Rotation) Next() Rotation {
	return (r + 90) % 360
}

// Valid reports whether r is one of the four supported rotations.
func (r Rotation) Valid() bool {
	switch r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return true
	}
	return false
}

// SwapsAxes reports whether the rotation exchanges width and height.
func (r Rotation) SwapsAxes() bool {
	return r == Rotate90 || r == Rotate270
}

// Apply returns the bounding box of a size after rotation.
func (r Rotation) Apply(s Size) Size {
	if r.SwapsAxes() {
		return s.Swap()
	}
	return s
}

// String returns the rotation as "90°".
func (r Rotation) String() string {
	return fmt.Sprintf("%d°", int(r))
}
