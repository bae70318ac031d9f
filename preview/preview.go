// Package preview renders page previews: a raster canvas with the page's
// proportions showing one photograph exactly as the document places it, and
// an HTML proof sheet listing rendered pages.
//
// Placement comes from the same layout calculator the document assembler
// uses, so the preview and the document differ only in scale.
package preview

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/tsawler/photopages/layout"
	"github.com/tsawler/photopages/model"
	"github.com/tsawler/photopages/raster"
)

// DefaultWidth is the preview canvas width in pixels.
const DefaultWidth = 400

// Background is the page colour behind the photograph.
var Background color.Color = color.White

// Render draws item on a white canvas width pixels wide with the page's
// aspect ratio. The photograph is rotated, scaled with a Lanczos filter and
// pasted at its computed offset; parts that bleed past the canvas are
// clipped.
//
// A decode failure is returned as a *raster.DecodeError.
func Render(dec raster.Decoder, item model.Item, geom model.PageGeometry, width int, mode layout.FitMode) (*image.NRGBA, layout.Placement, error) {
	if err := geom.Validate(); err != nil {
		return nil, layout.Placement{}, err
	}

	img, err := dec.Decode(item.Source)
	if err != nil {
		var de *raster.DecodeError
		if !errors.As(err, &de) {
			err = &raster.DecodeError{Source: item.Source, Err: err}
		}
		return nil, layout.Placement{}, err
	}

	p, err := layout.ForCanvas(raster.Size(img), item.Rotation, geom, width, mode)
	if err != nil {
		return nil, layout.Placement{}, err
	}

	rotated, err := raster.Rotate(img, item.Rotation)
	if err != nil {
		return nil, layout.Placement{}, err
	}

	canvas := imaging.New(p.Canvas.X, p.Canvas.Y, Background)
	scaled := raster.Resize(rotated, p.RenderWidth, p.RenderHeight)
	return imaging.Paste(canvas, scaled, p.Rect().Min), p, nil
}

// Blank returns an empty page canvas, shown when there is nothing to
// preview.
func Blank(geom model.PageGeometry, width int) *image.NRGBA {
	w, h := geom.CanvasFor(width)
	if h < 1 {
		h = 1
	}
	return imaging.New(w, h, Background)
}
