package layout

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/tsawler/photopages/model"
)

// ErrInvalidSize is returned for non-positive image or canvas dimensions.
var ErrInvalidSize = errors.New("invalid size")

// FitMode selects which dimension constrains the rendered image.
type FitMode int

const (
	// FitWidth spans the full content width and lets tall images bleed.
	FitWidth FitMode = iota
	// FitPage shrinks tall images so they also fit the content height.
	FitPage
)

// String returns "width" or "page".
func (m FitMode) String() string {
	switch m {
	case FitPage:
		return "page"
	default:
		return "width"
	}
}

// ParseFitMode parses "width" or "page".
func ParseFitMode(s string) (FitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "width":
		return FitWidth, nil
	case "page", "height":
		return FitPage, nil
	default:
		return FitWidth, fmt.Errorf("unknown fit mode %q", s)
	}
}

// Frame is a placement in continuous units (millimetres at document scale).
type Frame struct {
	Canvas model.Size
	Margin float64
	Image  model.Rect // Rendered image rectangle, origin top-left
}

// Bleeds reports whether the image extends past the canvas vertically.
func (f Frame) Bleeds() bool {
	return f.Image.Height > f.Canvas.Height
}

// FitsContent reports whether the image lies inside the page margins.
func (f Frame) FitsContent(geom model.PageGeometry) bool {
	return geom.ContentBox().Contains(f.Image)
}

// Visible returns the part of the image that lands on the canvas.
func (f Frame) Visible() model.Rect {
	return model.NewRect(0, 0, f.Canvas.Width, f.Canvas.Height).Intersection(f.Image)
}

// Placement is a placement on a pixel canvas.
type Placement struct {
	Canvas       image.Point
	MarginPx     int
	RenderWidth  int
	RenderHeight int
	OffsetX      int
	OffsetY      int // Negative when the image bleeds
}

// Rect returns the rendered image rectangle on the canvas.
func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.OffsetX, p.OffsetY, p.OffsetX+p.RenderWidth, p.OffsetY+p.RenderHeight)
}

// Bleeds reports whether the image extends past the canvas vertically.
func (p Placement) Bleeds() bool {
	return p.RenderHeight > p.Canvas.Y
}

// Compute places an image of the given intrinsic size on a canvas measured in
// continuous units. No rounding is applied, so at document scale a 800x600
// image on an A4 page with 10 mm margins renders 190 x 142.5 mm.
func Compute(intrinsic model.Size, rot model.Rotation, canvas model.Size, marginFraction float64, mode FitMode) (Frame, error) {
	if !intrinsic.IsValid() {
		return Frame{}, fmt.Errorf("%w: image %gx%g", ErrInvalidSize, intrinsic.Width, intrinsic.Height)
	}
	if !canvas.IsValid() {
		return Frame{}, fmt.Errorf("%w: canvas %gx%g", ErrInvalidSize, canvas.Width, canvas.Height)
	}
	if marginFraction < 0 || marginFraction >= 0.5 {
		return Frame{}, fmt.Errorf("%w: margin fraction %g", ErrInvalidSize, marginFraction)
	}

	return frame(rot.Apply(intrinsic), canvas, marginFraction*canvas.Width, mode), nil
}

// frame lays out an already rotated size with an absolute margin.
func frame(src, canvas model.Size, margin float64, mode FitMode) Frame {
	w := canvas.Width - 2*margin
	h := w * src.Height / src.Width

	if mode == FitPage {
		if avail := canvas.Height - 2*margin; avail > 0 && h > avail {
			h = avail
			w = h * src.Width / src.Height
		}
	}

	x := margin
	if mode == FitPage {
		x = (canvas.Width - w) / 2
	}

	return Frame{
		Canvas: canvas,
		Margin: margin,
		Image:  model.NewRect(x, (canvas.Height-h)/2, w, h),
	}
}

// ComputePixels places an image on a pixel canvas, rounding half away from
// zero at each step:
//
//	marginPx     = round(marginFraction * canvasWidth)
//	renderWidth  = canvasWidth - 2*marginPx
//	renderHeight = round(renderWidth * height / width)
//	offsetX      = marginPx
//	offsetY      = round((canvasHeight - renderHeight) / 2)
//
// In FitWidth mode renderWidth + 2*marginPx always equals the canvas width.
func ComputePixels(intrinsic image.Point, rot model.Rotation, canvas image.Point, marginFraction float64, mode FitMode) (Placement, error) {
	if intrinsic.X <= 0 || intrinsic.Y <= 0 {
		return Placement{}, fmt.Errorf("%w: image %dx%d", ErrInvalidSize, intrinsic.X, intrinsic.Y)
	}
	if canvas.X <= 0 || canvas.Y <= 0 {
		return Placement{}, fmt.Errorf("%w: canvas %dx%d", ErrInvalidSize, canvas.X, canvas.Y)
	}
	if marginFraction < 0 || marginFraction >= 0.5 {
		return Placement{}, fmt.Errorf("%w: margin fraction %g", ErrInvalidSize, marginFraction)
	}

	w, h := intrinsic.X, intrinsic.Y
	if rot.SwapsAxes() {
		w, h = h, w
	}

	marginPx := round(marginFraction * float64(canvas.X))
	rw := canvas.X - 2*marginPx
	rh := round(float64(rw) * float64(h) / float64(w))
	ox := marginPx

	if mode == FitPage {
		if avail := canvas.Y - 2*marginPx; avail > 0 && rh > avail {
			rh = avail
			rw = round(float64(rh) * float64(w) / float64(h))
			ox = round(float64(canvas.X-rw) / 2)
		}
	}

	return Placement{
		Canvas:       canvas,
		MarginPx:     marginPx,
		RenderWidth:  rw,
		RenderHeight: rh,
		OffsetX:      ox,
		OffsetY:      round(float64(canvas.Y-rh) / 2),
	}, nil
}

// ForPage computes the document-scale frame of an image on a page. The
// geometry's margin is used as-is rather than round-tripped through
// MarginFraction, so an A4 page yields exactly 190 mm of content width.
func ForPage(intrinsic image.Point, rot model.Rotation, geom model.PageGeometry, mode FitMode) (Frame, error) {
	size := model.Size{Width: float64(intrinsic.X), Height: float64(intrinsic.Y)}
	if !size.IsValid() {
		return Frame{}, fmt.Errorf("%w: image %dx%d", ErrInvalidSize, intrinsic.X, intrinsic.Y)
	}
	if err := geom.Validate(); err != nil {
		return Frame{}, err
	}
	return frame(rot.Apply(size), geom.Size(), geom.Margin, mode), nil
}

// ForCanvas computes the pixel placement of an image on a preview canvas of
// the given width with the page's proportions.
func ForCanvas(intrinsic image.Point, rot model.Rotation, geom model.PageGeometry, width int, mode FitMode) (Placement, error) {
	cw, ch := geom.CanvasFor(width)
	return ComputePixels(intrinsic, rot, image.Pt(cw, ch), geom.MarginFraction(), mode)
}

func round(v float64) int {
	return int(math.Round(v))
}
