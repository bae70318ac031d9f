package photopages

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tsawler/photopages/assemble"
	"github.com/tsawler/photopages/config"
	"github.com/tsawler/photopages/format"
	"github.com/tsawler/photopages/layout"
	"github.com/tsawler/photopages/model"
	"github.com/tsawler/photopages/observability"
	"github.com/tsawler/photopages/ocr"
	"github.com/tsawler/photopages/preview"
	"github.com/tsawler/photopages/raster"
	"github.com/tsawler/photopages/store"
)

var (
	// ErrNoImages is returned when an import finds nothing to place, or a
	// preview is requested for an empty list.
	ErrNoImages = errors.New("no images")

	// ErrNoItem is returned for a list position that does not exist.
	ErrNoItem = errors.New("no such item")
)

// PreviewFailed is the message of warnings for pages WritePreviews could not
// render.
const PreviewFailed = "preview failed"

// Project ties the ordered item list to a configuration, the document
// assembler and the preview renderer.
//
// Configuration methods modify the project in place and return it for
// chaining. The first error from a chained call is kept and returned by the
// next terminal operation (Save, Bytes, Assemble, WritePreviews). A Project
// is not safe for concurrent use.
type Project struct {
	store     *store.Store
	cfg       config.Config
	dec       raster.Decoder
	describer assemble.Describer
	log       observability.Logger
	now       func() time.Time

	err      error
	warnings []Warning

	// unsaved is a document whose last Save failed. It is reused by the
	// next Save while the list and configuration stay as they were.
	unsaved *unsavedDocument
}

type unsavedDocument struct {
	doc      *assemble.Document
	warnings []Warning
	cfg      config.Config
}

// New creates an empty project. The configuration is validated here so that
// later operations only fail on input.
func New(cfg config.Config, opts ...Option) (*Project, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Project{
		store: store.New(),
		cfg:   cfg,
		dec:   raster.FileDecoder{AutoOrient: cfg.AutoOrient},
		log:   observability.NopLogger{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.store.Subscribe(func(ev store.Event) {
		if ev.Kind != store.Selected {
			p.unsaved = nil
		}
	})
	return p, nil
}

// Store returns the item list for direct editing.
func (p *Project) Store() *store.Store {
	return p.store
}

// Config returns the current configuration.
func (p *Project) Config() config.Config {
	return p.cfg
}

// Err returns the error recorded by a chained call, if any.
func (p *Project) Err() error {
	return p.err
}

// Warnings returns the warnings of the import that produced the current list.
func (p *Project) Warnings() []Warning {
	return append([]Warning(nil), p.warnings...)
}

// ============================================================================
// Import
// ============================================================================

// Load replaces the item list with the images found at paths. When nothing
// usable is found the list is left unchanged and ErrNoImages is returned.
func (p *Project) Load(paths ...string) ([]Warning, error) {
	if p.err != nil {
		return nil, p.err
	}
	sources, warnings := expand(paths)
	for _, w := range warnings {
		p.log.Warn("path skipped", observability.String("path", w.Source), observability.String("reason", w.Message))
	}
	if len(sources) == 0 {
		return warnings, ErrNoImages
	}
	p.store.ReplaceAll(sources)
	p.warnings = warnings
	p.log.Info("images imported", observability.Int("count", len(sources)))
	return warnings, nil
}

// expand turns files and directories into image sources. Directory entries
// are taken in name order; hidden files, subdirectories and files without an
// image extension are ignored.
func expand(paths []string) ([]string, []Warning) {
	var sources []string
	var warnings []Warning

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			warnings = append(warnings, pathWarning(path, "cannot read", err))
			continue
		}

		if !info.IsDir() {
			ok, err := isImage(path, info.Size())
			switch {
			case err != nil:
				warnings = append(warnings, pathWarning(path, "cannot read", err))
			case !ok:
				warnings = append(warnings, pathWarning(path, "not a supported image", nil))
			default:
				sources = append(sources, path)
			}
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			warnings = append(warnings, pathWarning(path, "cannot list directory", err))
			continue
		}
		found := 0
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, ".") || !format.IsImageFile(name) {
				continue
			}
			sources = append(sources, filepath.Join(path, name))
			found++
		}
		if found == 0 {
			warnings = append(warnings, pathWarning(path, "no images in directory", nil))
		}
	}
	return sources, warnings
}

// isImage accepts a known image extension outright and sniffs the content
// of anything else.
func isImage(path string, size int64) (bool, error) {
	if format.IsImageFile(path) {
		return true, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	ft, err := format.DetectFromReader(f, size)
	if err != nil {
		return false, nil
	}
	return ft.IsImage(), nil
}

// ============================================================================
// Configuration Methods (modify the project and return it)
// ============================================================================

// Configure replaces the whole configuration.
func (p *Project) Configure(cfg config.Config) *Project {
	if err := cfg.Validate(); err != nil {
		if p.err == nil {
			p.err = err
		}
		return p
	}
	p.cfg = cfg
	if fd, ok := p.dec.(raster.FileDecoder); ok {
		fd.AutoOrient = cfg.AutoOrient
		p.dec = fd
	}
	return p
}

// Page selects a named paper format such as "A4" or "Letter".
func (p *Project) Page(name string) *Project {
	p.cfg.Page = name
	p.cfg.WidthMM, p.cfg.HeightMM = 0, 0
	return p
}

// PageSize sets a custom page size in millimetres.
func (p *Project) PageSize(width, height float64) *Project {
	p.cfg.WidthMM, p.cfg.HeightMM = width, height
	return p
}

// Margin sets the margin on all four sides in millimetres.
func (p *Project) Margin(mm float64) *Project {
	p.cfg.MarginMM = mm
	return p
}

// Landscape turns the page sideways.
func (p *Project) Landscape() *Project {
	p.cfg.Landscape = true
	return p
}

// Fit selects how photographs are scaled.
func (p *Project) Fit(mode layout.FitMode) *Project {
	p.cfg.Fit = mode.String()
	return p
}

// ImageFormat selects the encoding of embedded pictures.
func (p *Project) ImageFormat(f raster.Format) *Project {
	p.cfg.ImageFormat = f.String()
	return p
}

// MaxPPI caps the resolution of embedded pictures; 0 keeps the original.
func (p *Project) MaxPPI(ppi float64) *Project {
	p.cfg.MaxPPI = ppi
	return p
}

// Title sets the document title.
func (p *Project) Title(title string) *Project {
	p.cfg.Title = title
	return p
}

// Rotate sets the clockwise rotation of the item at index i.
func (p *Project) Rotate(i, degrees int) *Project {
	if p.err != nil {
		return p
	}
	r, err := model.Normalize(degrees)
	if err != nil {
		p.err = fmt.Errorf("item %d: %w", i, err)
		return p
	}
	if _, ok := p.store.At(i); !ok {
		p.err = fmt.Errorf("rotate: %w: %d", ErrNoItem, i)
		return p
	}
	p.store.SetRotation(i, r)
	return p
}

// Edit runs fn against the item list.
func (p *Project) Edit(fn func(s *store.Store)) *Project {
	if p.err == nil {
		fn(p.store)
	}
	return p
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Assemble builds the document from the current list. Items that fail are
// reported as warnings carrying their list position; the document holds a
// page for every other item.
func (p *Project) Assemble() (*assemble.Document, []Warning, error) {
	warnings := p.Warnings()
	if p.err != nil {
		return nil, warnings, p.err
	}
	if err := p.cfg.Validate(); err != nil {
		return nil, warnings, err
	}
	geom, err := p.cfg.Geometry()
	if err != nil {
		return nil, warnings, err
	}

	opts, release, extra := p.assemblerOptions()
	defer release()
	warnings = append(warnings, extra...)

	doc, err := assemble.New(p.dec, geom, opts...).Assemble(p.store.Items())
	if failed, ok := itemWarnings(err); ok {
		return doc, append(warnings, failed...), nil
	}
	if err != nil {
		return nil, warnings, err
	}
	return doc, warnings, nil
}

// assemblerOptions translates the configuration. The release function frees
// the OCR engine when one was started.
func (p *Project) assemblerOptions() ([]assemble.Option, func(), []Warning) {
	fit, _ := p.cfg.FitMode()
	f, _ := p.cfg.Format()
	start, _ := p.cfg.Start()

	opts := []assemble.Option{
		assemble.WithLogger(p.log),
		assemble.WithFitMode(fit),
		assemble.WithImageFormat(f),
		assemble.WithJPEGQuality(p.cfg.JPEGQuality),
		assemble.WithMaxPixelsPerInch(p.cfg.MaxPPI),
		assemble.WithSectionStart(start),
		assemble.WithMetadata(model.Metadata{
			Title:   p.cfg.Title,
			Author:  p.cfg.Author,
			Created: p.now(),
		}),
	}

	release := func() {}
	var warnings []Warning

	switch {
	case p.describer != nil:
		opts = append(opts, assemble.WithDescriber(p.describer))
	case p.cfg.OCR:
		client, err := ocr.New()
		if err != nil {
			warnings = append(warnings, Warning{Index: -1, Message: "alt text from OCR unavailable", Err: err})
			break
		}
		if err := client.SetLanguage(p.cfg.OCRLang); err != nil {
			warnings = append(warnings, Warning{Index: -1, Message: "OCR language " + p.cfg.OCRLang, Err: err})
		}
		opts = append(opts, assemble.WithDescriber(client))
		release = func() { client.Close() }
	}
	return opts, release, warnings
}

// Bytes assembles the document and returns the .docx archive.
func (p *Project) Bytes() ([]byte, []Warning, error) {
	doc, warnings, err := p.Assemble()
	if err != nil {
		return nil, warnings, err
	}
	data, err := doc.Bytes()
	return data, warnings, err
}

// Save assembles the document and writes it to path. A write failure is an
// *assemble.SaveError; the file is either complete or absent. The document
// is kept after a failed write, so calling Save again without changing the
// list or configuration only retries the write.
func (p *Project) Save(path string) ([]Warning, error) {
	if u := p.unsaved; u != nil && p.err == nil && u.cfg == p.cfg {
		p.log.Debug("retrying save", observability.String("path", path))
		return u.warnings, p.save(u.doc, u.warnings, path)
	}
	doc, warnings, err := p.Assemble()
	if err != nil {
		return warnings, err
	}
	return warnings, p.save(doc, warnings, path)
}

func (p *Project) save(doc *assemble.Document, warnings []Warning, path string) error {
	if err := doc.Save(path); err != nil {
		p.unsaved = &unsavedDocument{doc: doc, warnings: warnings, cfg: p.cfg}
		return err
	}
	p.unsaved = nil
	return nil
}

// Preview renders the page of the item at index i.
func (p *Project) Preview(i int) (*image.NRGBA, layout.Placement, error) {
	if p.err != nil {
		return nil, layout.Placement{}, p.err
	}
	if p.store.Len() == 0 {
		return nil, layout.Placement{}, ErrNoImages
	}
	item, ok := p.store.At(i)
	if !ok {
		return nil, layout.Placement{}, fmt.Errorf("%w: %d", ErrNoItem, i)
	}
	geom, err := p.cfg.Geometry()
	if err != nil {
		return nil, layout.Placement{}, err
	}
	fit, _ := p.cfg.FitMode()
	return preview.Render(p.dec, item, geom, p.cfg.PreviewWidth, fit)
}

// PreviewSelected renders the page of the selected item, or a blank page
// when nothing is selected.
func (p *Project) PreviewSelected() (*image.NRGBA, layout.Placement, error) {
	i, ok := p.store.Selected()
	if !ok {
		geom, err := p.cfg.Geometry()
		if err != nil {
			return nil, layout.Placement{}, err
		}
		return preview.Blank(geom, p.cfg.PreviewWidth), layout.Placement{}, nil
	}
	return p.Preview(i)
}

// WritePreviews renders every page into dir as page-001.png, page-002.png
// and so on, with an index.html proof sheet. Pages that cannot be rendered
// are listed on the sheet and reported as warnings.
func (p *Project) WritePreviews(dir string) ([]Warning, error) {
	warnings := p.Warnings()
	if p.err != nil {
		return warnings, p.err
	}
	if p.store.Len() == 0 {
		return warnings, ErrNoImages
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return warnings, fmt.Errorf("creating preview directory: %w", err)
	}

	entries := make([]preview.SheetEntry, 0, p.store.Len())
	for i, item := range p.store.Items() {
		entry := preview.SheetEntry{Caption: item.Name(), Rotation: item.Rotation}

		img, placement, err := p.Preview(i)
		if err == nil {
			entry.File = fmt.Sprintf("page-%03d.png", i+1)
			entry.Bleeds = placement.Bleeds()
			err = writePNG(filepath.Join(dir, entry.File), img)
		}
		if err != nil {
			entry.File = ""
			entry.Err = err.Error()
			warnings = append(warnings, Warning{Index: i, Source: item.Source, Message: PreviewFailed, Err: err})
			p.log.Warn("preview failed", observability.Int("index", i), observability.Error("error", err))
		}
		entries = append(entries, entry)
	}

	title := p.cfg.Title
	if title == "" {
		title = "photopages"
	}
	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return warnings, fmt.Errorf("creating proof sheet: %w", err)
	}
	if err := preview.WriteSheet(f, title, entries); err != nil {
		f.Close()
		return warnings, err
	}
	if err := f.Close(); err != nil {
		return warnings, fmt.Errorf("closing proof sheet: %w", err)
	}
	p.log.Info("previews written", observability.String("dir", dir), observability.Int("pages", len(entries)))
	return warnings, nil
}

func writePNG(path string, img image.Image) error {
	data, err := raster.Encode(img, raster.PNG, 0)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
