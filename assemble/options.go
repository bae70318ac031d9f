package assemble

import (
	"github.com/tsawler/photopages/docx"
	"github.com/tsawler/photopages/layout"
	"github.com/tsawler/photopages/model"
	"github.com/tsawler/photopages/observability"
	"github.com/tsawler/photopages/raster"
)

// Describer produces alternative text for an embedded picture from its
// encoded bytes.
type Describer interface {
	Describe(data []byte) (string, error)
}

// DescriberFunc adapts a function to the Describer interface.
type DescriberFunc func(data []byte) (string, error)

// Describe calls f(data).
func (f DescriberFunc) Describe(data []byte) (string, error) {
	return f(data)
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger (default: no-op).
func WithLogger(l observability.Logger) Option {
	return func(a *Assembler) {
		a.log = observability.OrNop(l)
	}
}

// WithFitMode selects how images are fitted to the page (default: FitWidth).
func WithFitMode(mode layout.FitMode) Option {
	return func(a *Assembler) {
		a.fit = mode
	}
}

// WithImageFormat sets the encoding of embedded pictures (default: PNG).
func WithImageFormat(f raster.Format) Option {
	return func(a *Assembler) {
		a.format = f
	}
}

// WithJPEGQuality sets the JPEG quality, 1-100 (default: 90).
func WithJPEGQuality(q int) Option {
	return func(a *Assembler) {
		a.quality = q
	}
}

// WithMaxPixelsPerInch downsamples pictures whose density at their placed
// size exceeds ppi. Zero disables downsampling.
func WithMaxPixelsPerInch(ppi float64) Option {
	return func(a *Assembler) {
		a.maxPPI = ppi
	}
}

// WithDescriber sets the alt-text provider. Pictures fall back to the source
// file name when it is nil or fails.
func WithDescriber(d Describer) Option {
	return func(a *Assembler) {
		a.describer = d
	}
}

// WithMetadata sets the document properties.
func WithMetadata(m model.Metadata) Option {
	return func(a *Assembler) {
		a.metadata = m
	}
}

// WithSectionStart sets how sections after the first begin. The first
// section always starts a new page.
func WithSectionStart(s docx.SectionStart) Option {
	return func(a *Assembler) {
		a.start = s
	}
}

// WithVerticalCentering controls whether each page centres its picture
// vertically, as the preview does (default: true).
func WithVerticalCentering(on bool) Option {
	return func(a *Assembler) {
		a.center = on
	}
}
