// Package assemble turns an ordered list of photographs into a word-processing
// document with one picture per page.
//
// Each item is decoded, rotated, laid out at document scale and embedded in a
// section of its own that restates the full page geometry. Items that fail
// are reported and skipped; the rest of the document is still produced.
package assemble

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"time"

	"github.com/tsawler/photopages/docx"
	"github.com/tsawler/photopages/layout"
	"github.com/tsawler/photopages/model"
	"github.com/tsawler/photopages/observability"
	"github.com/tsawler/photopages/raster"
)

// Assembler builds documents from items. It holds no per-run state and may be
// reused.
type Assembler struct {
	dec  raster.Decoder
	geom model.PageGeometry

	log       observability.Logger
	fit       layout.FitMode
	format    raster.Format
	quality   int
	maxPPI    float64
	describer Describer
	metadata  model.Metadata
	start     docx.SectionStart
	center    bool
	now       func() time.Time
}

// New creates an Assembler that decodes with dec and lays pages out with geom.
func New(dec raster.Decoder, geom model.PageGeometry, opts ...Option) *Assembler {
	a := &Assembler{
		dec:     dec,
		geom:    geom,
		log:     observability.NopLogger{},
		fit:     layout.FitWidth,
		format:  raster.PNG,
		quality: raster.DefaultJPEGQuality,
		start:   docx.StartNextPage,
		center:  true,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Geometry returns the page geometry every section uses.
func (a *Assembler) Geometry() model.PageGeometry {
	return a.geom
}

// Section describes one successfully assembled page.
type Section struct {
	Index    int // Position of the item in the input list
	Source   string
	Rotation model.Rotation
	Pixels   image.Point // Size after rotation, before any downsampling
	Embedded image.Point // Size of the embedded picture
	Frame    layout.Frame
	Geometry model.PageGeometry
}

// Document is the result of an assembly run.
type Document struct {
	doc      *docx.Document
	sections []Section
	failures ItemErrors
	log      observability.Logger
}

// Sections returns the assembled pages in document order.
func (d *Document) Sections() []Section {
	out := make([]Section, len(d.sections))
	copy(out, d.sections)
	return out
}

// Failures returns the items that produced no page.
func (d *Document) Failures() ItemErrors {
	return d.failures
}

// PageBreaks returns the number of explicit page breaks.
func (d *Document) PageBreaks() int {
	return d.doc.PageBreakCount()
}

// WriteTo serializes the document as .docx.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.doc.WriteTo(w)
}

// Bytes serializes the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	return d.doc.Bytes()
}

// Save writes the document to path atomically. On failure it returns a
// *SaveError, the destination is untouched and Save may be called again.
func (d *Document) Save(path string) error {
	if err := d.doc.Save(path); err != nil {
		d.log.Error("save failed", observability.String("path", path), observability.Error("error", err))
		return &SaveError{Path: path, Err: err}
	}
	d.log.Info("document saved",
		observability.String("path", path),
		observability.Int("sections", len(d.sections)))
	return nil
}

// Assemble builds a document from items in order. The returned document is
// never nil. The error is an ItemErrors value when at least one item failed;
// failed items produce no section, so successful sections are separated by
// exactly one page break each.
func (a *Assembler) Assemble(items []model.Item) (*Document, error) {
	doc := docx.New()
	if err := a.geom.Validate(); err != nil {
		return &Document{doc: doc, log: a.log}, err
	}

	meta := a.metadata
	if meta.Created.IsZero() {
		meta.Created = a.now()
	}
	if meta.Modified.IsZero() {
		meta.Modified = meta.Created
	}
	doc.SetMetadata(meta)

	out := &Document{doc: doc, log: a.log}
	a.log.Info("assembling document",
		observability.Int("items", len(items)),
		observability.String("page", a.geom.String()))

	for i, item := range items {
		log := a.log.With(observability.Int("index", i), observability.String("source", item.Source))

		sec, err := a.place(doc, i, item, log)
		if err != nil {
			var ae *AssemblyError
			if !errors.As(err, &ae) {
				ae = &AssemblyError{Index: i, Source: item.Source, Stage: StageEmbed, Err: err}
			}
			log.Warn("item skipped", observability.String("stage", string(ae.Stage)), observability.Error("error", ae.Err))
			out.failures = append(out.failures, ae)
			continue
		}
		out.sections = append(out.sections, sec)
	}

	a.log.Info("document assembled",
		observability.Int("sections", len(out.sections)),
		observability.Int("failed", len(out.failures)))

	if len(out.failures) > 0 {
		return out, out.failures
	}
	return out, nil
}

// place runs the pipeline for one item. Every fallible step happens before
// the document is touched, so a failed item leaves no trace.
func (a *Assembler) place(doc *docx.Document, index int, item model.Item, log observability.Logger) (Section, error) {
	fail := func(stage Stage, err error) (Section, error) {
		return Section{}, &AssemblyError{Index: index, Source: item.Source, Stage: stage, Err: err}
	}

	if a.dec == nil {
		return fail(StageDecode, &raster.DecodeError{Source: item.Source, Err: errors.New("no decoder")})
	}
	img, err := a.dec.Decode(item.Source)
	if err != nil {
		var de *raster.DecodeError
		if !errors.As(err, &de) {
			err = &raster.DecodeError{Source: item.Source, Err: err}
		}
		return fail(StageDecode, err)
	}
	intrinsic := raster.Size(img)

	frame, err := layout.ForPage(intrinsic, item.Rotation, a.geom, a.fit)
	if err != nil {
		return fail(StageLayout, err)
	}

	rotated, err := raster.Rotate(img, item.Rotation)
	if err != nil {
		return fail(StageRotate, err)
	}
	pixels := raster.Size(rotated)

	embedded := a.downsample(rotated, frame, log)
	data, err := raster.Encode(embedded, a.format, a.quality)
	if err != nil {
		return fail(StageEncode, err)
	}

	pic := docx.Picture{
		Data:        data,
		ContentType: a.format.ContentType(),
		Width:       model.MillimetresToEMU(frame.Image.Width),
		Height:      model.MillimetresToEMU(frame.Image.Height),
		Name:        item.Name(),
		Description: a.describe(data, item, log),
	}
	if err := pic.Validate(); err != nil {
		return fail(StageEmbed, err)
	}

	props := docx.SectionFromGeometry(a.geom)
	props.CenterPage = a.center
	if doc.SectionCount() > 0 {
		props.Start = a.start
	}

	breakAdded := false
	if doc.SectionCount() > 0 {
		if err := doc.AddPageBreak(); err != nil {
			return fail(StageEmbed, err)
		}
		breakAdded = true
	}
	doc.AddSection(props)
	if err := doc.AddPicture(pic); err != nil {
		doc.RemoveLastSection()
		if breakAdded {
			doc.RemoveLastPageBreak()
		}
		return fail(StageEmbed, err)
	}

	log.Debug("page added",
		observability.Float("width_mm", frame.Image.Width),
		observability.Float("height_mm", frame.Image.Height),
		observability.Int("bytes", len(data)))
	if !frame.FitsContent(a.geom) {
		log.Debug("image exceeds content area",
			observability.Float("visible_height_mm", frame.Visible().Height),
			observability.Float("page_height_mm", a.geom.Height))
	}

	return Section{
		Index:    index,
		Source:   item.Source,
		Rotation: item.Rotation,
		Pixels:   pixels,
		Embedded: raster.Size(embedded),
		Frame:    frame,
		Geometry: a.geom,
	}, nil
}

// downsample caps the density of img at its placed width. Images already at
// or below the cap are returned unchanged.
func (a *Assembler) downsample(img image.Image, frame layout.Frame, log observability.Logger) image.Image {
	if a.maxPPI <= 0 {
		return img
	}
	size := raster.Size(img)
	ppi := model.PixelsPerInch(size.X, frame.Image.Width)
	if ppi <= a.maxPPI {
		return img
	}

	w := int(math.Round(a.maxPPI * frame.Image.Width / model.MillimetresPerIn))
	if w >= size.X || w < 1 {
		return img
	}
	h := int(math.Round(float64(w) * float64(size.Y) / float64(size.X)))
	log.Debug("downsampling picture",
		observability.Float("ppi", ppi),
		observability.String("size", fmt.Sprintf("%dx%d -> %dx%d", size.X, size.Y, w, h)))
	return raster.Resize(img, w, h)
}

func (a *Assembler) describe(data []byte, item model.Item, log observability.Logger) string {
	if a.describer != nil {
		text, err := a.describer.Describe(data)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			log.Warn("describing picture failed", observability.Error("error", err))
		}
	}
	return item.Name()
}
