package model

import "math"

// Size is a width/height pair in arbitrary units.
type Size struct {
	Width  float64
	Height float64
}

// IsValid returns true if both dimensions are positive
func (s Size) IsValid() bool {
	return s.Width > 0 && s.Height > 0
}

// Swap returns the size with width and height exchanged
func (s Size) Swap() Size {
	return Size{Width: s.Height, Height: s.Width}
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner
// (Y grows downward, matching raster canvases and Word page layout).
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewRect creates a rectangle from its origin and size
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Right returns the right edge X coordinate
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the bottom edge Y coordinate
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Size returns the rectangle's extent
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Contains reports whether other lies entirely inside r
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// Intersects checks if two rectangles overlap
func (r Rect) Intersects(other Rect) bool {
	return !(r.Right() <= other.X ||
		r.X >= other.Right() ||
		r.Bottom() <= other.Y ||
		r.Y >= other.Bottom())
}

// Intersection returns the overlapping part of two rectangles
func (r Rect) Intersection(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}

	x := math.Max(r.X, other.X)
	y := math.Max(r.Y, other.Y)
	right := math.Min(r.Right(), other.Right())
	bottom := math.Min(r.Bottom(), other.Bottom())

	return Rect{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Inset shrinks the rectangle by margin on all four sides
func (r Rect) Inset(margin float64) Rect {
	return Rect{
		X:      r.X + margin,
		Y:      r.Y + margin,
		Width:  r.Width - 2*margin,
		Height: r.Height - 2*margin,
	}
}
