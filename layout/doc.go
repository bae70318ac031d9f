// Package layout computes where a photograph goes on a page.
//
// The same arithmetic serves the low-resolution preview and the final
// document, so both always show identical proportions:
//
//	// preview canvas, rounded to whole pixels
//	p, err := layout.ComputePixels(image.Pt(800, 600), model.Rotate90,
//	    image.Pt(400, 566), geom.MarginFraction(), layout.FitWidth)
//
//	// physical page in millimetres, unrounded
//	f, err := layout.Compute(model.Size{Width: 800, Height: 600}, model.Rotate90,
//	    geom.Size(), geom.MarginFraction(), layout.FitWidth)
//
// # Algorithm
//
//  1. A 90° or 270° rotation swaps the intrinsic width and height.
//  2. margin = marginFraction * canvasWidth
//  3. renderWidth = canvasWidth - 2*margin
//  4. renderHeight = renderWidth * height / width
//  5. offsetX = margin, offsetY = (canvasHeight - renderHeight) / 2
//
// Width is the binding constraint: a tall image may end up taller than the
// canvas, giving a negative offsetY. That bleed is accepted, not rejected.
// [FitPage] is an opt-in alternative that also limits the height to the
// content area.
package layout
