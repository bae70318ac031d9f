package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrInvalidGeometry is returned when a page geometry cannot hold any content.
var ErrInvalidGeometry = errors.New("invalid page geometry")

// PageGeometry describes a physical page and its uniform margin, in
// millimetres.
type PageGeometry struct {
	Name   string  // Format name, informational only
	Width  float64 // Page width in mm
	Height float64 // Page height in mm
	Margin float64 // Margin applied to all four sides in mm
}

// Paper formats at the default 10 mm margin.
var (
	A3     = PageGeometry{Name: "A3", Width: 297, Height: 420, Margin: 10}
	A4     = PageGeometry{Name: "A4", Width: 210, Height: 297, Margin: 10}
	A5     = PageGeometry{Name: "A5", Width: 148, Height: 210, Margin: 10}
	Letter = PageGeometry{Name: "Letter", Width: 215.9, Height: 279.4, Margin: 10}
	Legal  = PageGeometry{Name: "Legal", Width: 215.9, Height: 355.6, Margin: 10}
)

var formats = map[string]PageGeometry{
	"a3":     A3,
	"a4":     A4,
	"a5":     A5,
	"letter": Letter,
	"legal":  Legal,
}

// DefaultGeometry returns the A4 page with a 10 mm margin.
func DefaultGeometry() PageGeometry {
	return A4
}

// LookupFormat finds a named paper format, ignoring case.
func LookupFormat(name string) (PageGeometry, bool) {
	g, ok := formats[strings.ToLower(strings.TrimSpace(name))]
	return g, ok
}

// FormatNames returns the known format names in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(formats))
	for _, g := range formats {
		names = append(names, g.Name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the margins leave a positive content area.
func (g PageGeometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: page %gx%g mm", ErrInvalidGeometry, g.Width, g.Height)
	}
	if g.Margin < 0 {
		return fmt.Errorf("%w: negative margin %g mm", ErrInvalidGeometry, g.Margin)
	}
	if 2*g.Margin >= g.Width || 2*g.Margin >= g.Height {
		return fmt.Errorf("%w: margin %g mm leaves no content area on %gx%g mm", ErrInvalidGeometry, g.Margin, g.Width, g.Height)
	}
	return nil
}

// WithMargin returns a copy of g with a different margin.
func (g PageGeometry) WithMargin(margin float64) PageGeometry {
	g.Margin = margin
	return g
}

// Size returns the page extent.
func (g PageGeometry) Size() Size {
	return Size{Width: g.Width, Height: g.Height}
}

// ContentBox returns the printable area inside the margins.
func (g PageGeometry) ContentBox() Rect {
	return NewRect(0, 0, g.Width, g.Height).Inset(g.Margin)
}

// ContentWidth returns the page width minus both side margins.
func (g PageGeometry) ContentWidth() float64 {
	return g.Width - 2*g.Margin
}

// MarginFraction returns the margin as a fraction of the page width. The
// layout calculator scales margins by this fraction so a preview canvas of
// any width keeps the page's proportions.
func (g PageGeometry) MarginFraction() float64 {
	if g.Width <= 0 {
		return 0
	}
	return g.Margin / g.Width
}

// CanvasFor returns a pixel canvas with the given width and the page's
// aspect ratio. A4 at 400 px wide yields 400x566.
func (g PageGeometry) CanvasFor(width int) (int, int) {
	if g.Width <= 0 {
		return width, 0
	}
	return width, int(math.Round(float64(width) * g.Height / g.Width))
}

// String returns a short description such as "A4 210x297 mm, margin 10 mm".
func (g PageGeometry) String() string {
	name := g.Name
	if name == "" {
		name = "custom"
	}
	return fmt.Sprintf("%s %gx%g mm, margin %g mm", name, g.Width, g.Height, g.Margin)
}
