package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tsawler/photopages/model"
)

// Relationship and content types used by the writer.
const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"

	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsExtended      = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsDCTerms       = "http://purl.org/dc/terms/"
	nsXSI           = "http://www.w3.org/2001/XMLSchema-instance"

	ctMain     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctRels     = "application/vnd.openxmlformats-package.relationships+xml"
	ctCore     = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtended = "application/vnd.openxmlformats-officedocument.extended-properties+xml"

	uriPicture = "http://schemas.openxmlformats.org/drawingml/2006/picture"
)

// Errors returned by the writer.
var (
	ErrNoSection    = errors.New("no section to add content to")
	ErrEmptyPicture = errors.New("picture has no data")
)

// SectionStart controls how a section begins relative to the previous one.
type SectionStart string

// Section start types.
const (
	StartNextPage   SectionStart = "nextPage"
	StartContinuous SectionStart = "continuous"
)

// SectionProperties describes the page of one section, in millimetres.
type SectionProperties struct {
	PageWidth    float64
	PageHeight   float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
	Start        SectionStart // Defaults to StartNextPage
	CenterPage   bool         // Centre content vertically on the page
}

// SectionFromGeometry returns properties restating the full page geometry.
func SectionFromGeometry(g model.PageGeometry) SectionProperties {
	return SectionProperties{
		PageWidth:    g.Width,
		PageHeight:   g.Height,
		MarginTop:    g.Margin,
		MarginRight:  g.Margin,
		MarginBottom: g.Margin,
		MarginLeft:   g.Margin,
		Start:        StartNextPage,
	}
}

// Picture is an image to embed inline.
type Picture struct {
	Data        []byte
	ContentType string // image/png or image/jpeg
	Width       int64  // Display width in EMU
	Height      int64  // Display height in EMU
	Name        string
	Description string // Alt text
}

// Validate checks that the picture can be embedded.
func (p Picture) Validate() error {
	if len(p.Data) == 0 {
		return ErrEmptyPicture
	}
	if extensionFor(p.ContentType) == "" {
		return fmt.Errorf("unsupported picture content type %q", p.ContentType)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid picture extent %dx%d EMU", p.Width, p.Height)
	}
	return nil
}

type blockKind int

const (
	blockPicture blockKind = iota
	blockPageBreak
)

type block struct {
	kind    blockKind
	picture int // index into Document.media
}

type section struct {
	props  SectionProperties
	blocks []block
}

type mediaPart struct {
	relID  string
	target string // relative to word/
	pic    Picture
	docPr  int
}

// Document is an in-memory OOXML word-processing document built one section
// at a time. Content is always appended to the most recently added section.
type Document struct {
	sections []*section
	media    []mediaPart
	metadata model.Metadata
}

// New creates an empty document with no sections.
func New() *Document {
	return &Document{}
}

// SetMetadata sets the document properties written to docProps.
func (d *Document) SetMetadata(m model.Metadata) {
	d.metadata = m
}

// Metadata returns the document properties.
func (d *Document) Metadata() model.Metadata {
	return d.metadata
}

// AddSection starts a new section and returns its index. Every section
// carries its own complete page geometry.
func (d *Document) AddSection(props SectionProperties) int {
	if props.Start == "" {
		props.Start = StartNextPage
	}
	d.sections = append(d.sections, &section{props: props})
	return len(d.sections) - 1
}

// RemoveLastSection discards the most recently added section and any
// pictures it holds.
func (d *Document) RemoveLastSection() bool {
	if len(d.sections) == 0 {
		return false
	}
	last := d.sections[len(d.sections)-1]
	d.sections = d.sections[:len(d.sections)-1]

	first := len(d.media)
	for _, b := range last.blocks {
		if b.kind == blockPicture && b.picture < first {
			first = b.picture
		}
	}
	d.media = d.media[:first]
	return true
}

// AddPicture appends an inline picture in its own paragraph to the current
// section.
func (d *Document) AddPicture(p Picture) error {
	sec := d.current()
	if sec == nil {
		return ErrNoSection
	}
	if err := p.Validate(); err != nil {
		return err
	}

	n := len(d.media) + 1
	d.media = append(d.media, mediaPart{
		relID:  fmt.Sprintf("rId%d", n),
		target: fmt.Sprintf("media/image%d.%s", n, extensionFor(p.ContentType)),
		pic:    p,
		docPr:  n,
	})
	sec.blocks = append(sec.blocks, block{kind: blockPicture, picture: n - 1})
	return nil
}

// AddPageBreak appends a paragraph holding an explicit page break to the
// current section.
func (d *Document) AddPageBreak() error {
	sec := d.current()
	if sec == nil {
		return ErrNoSection
	}
	sec.blocks = append(sec.blocks, block{kind: blockPageBreak})
	return nil
}

// RemoveLastPageBreak removes the final block of the current section if it
// is a page break.
func (d *Document) RemoveLastPageBreak() bool {
	sec := d.current()
	if sec == nil || len(sec.blocks) == 0 || sec.blocks[len(sec.blocks)-1].kind != blockPageBreak {
		return false
	}
	sec.blocks = sec.blocks[:len(sec.blocks)-1]
	return true
}

// SectionCount returns the number of sections.
func (d *Document) SectionCount() int {
	return len(d.sections)
}

// PictureCount returns the number of embedded pictures.
func (d *Document) PictureCount() int {
	return len(d.media)
}

// PageBreakCount returns the number of explicit page breaks.
func (d *Document) PageBreakCount() int {
	n := 0
	for _, s := range d.sections {
		for _, b := range s.blocks {
			if b.kind == blockPageBreak {
				n++
			}
		}
	}
	return n
}

func (d *Document) current() *section {
	if len(d.sections) == 0 {
		return nil
	}
	return d.sections[len(d.sections)-1]
}

// WriteTo serializes the document as a .docx package.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	parts := []struct {
		name string
		v    interface{}
	}{
		{"[Content_Types].xml", d.contentTypes()},
		{"_rels/.rels", packageRels()},
		{"docProps/core.xml", d.coreProperties()},
		{"docProps/app.xml", d.appProperties()},
		{"word/document.xml", d.documentXML()},
		{"word/_rels/document.xml.rels", d.documentRels()},
	}
	for _, p := range parts {
		if err := writeXMLPart(zw, p.name, p.v); err != nil {
			return cw.n, err
		}
	}

	for _, m := range d.media {
		// Image data is already compressed.
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: "word/" + m.target, Method: zip.Store})
		if err != nil {
			return cw.n, fmt.Errorf("creating %s: %w", m.target, err)
		}
		if _, err := fw.Write(m.pic.Data); err != nil {
			return cw.n, fmt.Errorf("writing %s: %w", m.target, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("finishing archive: %w", err)
	}
	return cw.n, nil
}

// Bytes serializes the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the document to path atomically: the package is written to a
// temporary file in the same directory and renamed over path only once it is
// complete. On failure no file is left behind and the document is unchanged.
func (d *Document) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := d.WriteTo(tmp); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

// documentXML builds word/document.xml. A section's properties are stored in
// the pPr of its last paragraph, except for the final section whose sectPr
// is the last child of the body.
func (d *Document) documentXML() *wDocument {
	doc := &wDocument{
		XmlnsW:   nsW,
		XmlnsR:   nsR,
		XmlnsWP:  nsWP,
		XmlnsA:   nsA,
		XmlnsPic: nsPic,
	}

	for i, sec := range d.sections {
		start := len(doc.Body.Paragraphs)
		for _, b := range sec.blocks {
			switch b.kind {
			case blockPicture:
				doc.Body.Paragraphs = append(doc.Body.Paragraphs, pictureParagraph(d.media[b.picture]))
			case blockPageBreak:
				doc.Body.Paragraphs = append(doc.Body.Paragraphs, wParagraph{
					Runs: []wRun{{Break: &wBreak{Type: "page"}}},
				})
			}
		}

		sectPr := sectionXML(sec.props)
		if i == len(d.sections)-1 {
			doc.Body.SectPr = sectPr
			continue
		}
		if len(doc.Body.Paragraphs) == start {
			doc.Body.Paragraphs = append(doc.Body.Paragraphs, wParagraph{})
		}
		last := &doc.Body.Paragraphs[len(doc.Body.Paragraphs)-1]
		if last.Props == nil {
			last.Props = &wParagraphProps{}
		}
		last.Props.SectPr = sectPr
	}

	// A body needs at least one paragraph to open in word processors.
	if len(doc.Body.Paragraphs) == 0 {
		doc.Body.Paragraphs = append(doc.Body.Paragraphs, wParagraph{})
	}
	return doc
}

func sectionXML(p SectionProperties) *wSectPr {
	s := &wSectPr{
		Type: &wVal{Val: string(p.Start)},
		PgSz: wPgSz{
			W: model.MillimetresToTwips(p.PageWidth),
			H: model.MillimetresToTwips(p.PageHeight),
		},
		PgMar: wPgMar{
			Top:    model.MillimetresToTwips(p.MarginTop),
			Right:  model.MillimetresToTwips(p.MarginRight),
			Bottom: model.MillimetresToTwips(p.MarginBottom),
			Left:   model.MillimetresToTwips(p.MarginLeft),
		},
	}
	if p.PageWidth > p.PageHeight {
		s.PgSz.Orient = "landscape"
	}
	if p.CenterPage {
		s.VAlign = &wVal{Val: "center"}
	}
	return s
}

func pictureParagraph(m mediaPart) wParagraph {
	return wParagraph{
		Props: &wParagraphProps{
			Spacing: &wSpacing{},
			Jc:      &wVal{Val: "center"},
		},
		Runs: []wRun{{
			Drawing: &wDrawing{Inline: wpInline{
				Extent: wpExtent{Cx: m.pic.Width, Cy: m.pic.Height},
				DocPr:  wpDocPr{ID: m.docPr, Name: pictureName(m), Descr: m.pic.Description},
				FramePr: wpCNvGraphicFramePr{
					Locks: aGraphicFrameLocks{NoChangeAspect: 1},
				},
				Graphic: aGraphic{Data: aGraphicData{
					URI: uriPicture,
					Pic: picPic{
						NvPicPr: picNvPicPr{
							CNvPr: picCNvPr{ID: 0, Name: pictureName(m), Descr: m.pic.Description},
						},
						BlipFill: picBlipFill{Blip: aBlip{Embed: m.relID}},
						SpPr: picSpPr{
							Xfrm:     aXfrm{Ext: aSize{Cx: m.pic.Width, Cy: m.pic.Height}},
							PrstGeom: aPrstGeom{Prst: "rect"},
						},
					},
				}},
			}},
		}},
	}
}

func pictureName(m mediaPart) string {
	if m.pic.Name != "" {
		return m.pic.Name
	}
	return fmt.Sprintf("Picture %d", m.docPr)
}

func (d *Document) contentTypes() *ctTypes {
	ct := &ctTypes{
		Xmlns: nsContentTypes,
		Defaults: []ctDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []ctOverride{
			{PartName: "/word/document.xml", ContentType: ctMain},
			{PartName: "/docProps/core.xml", ContentType: ctCore},
			{PartName: "/docProps/app.xml", ContentType: ctExtended},
		},
	}
	seen := make(map[string]bool)
	for _, m := range d.media {
		ext := extensionFor(m.pic.ContentType)
		if !seen[ext] {
			seen[ext] = true
			ct.Defaults = append(ct.Defaults, ctDefault{Extension: ext, ContentType: m.pic.ContentType})
		}
	}
	return ct
}

func packageRels() *relsXML {
	return &relsXML{
		Xmlns: nsRelationships,
		Relationships: []relXML{
			{ID: "rId1", Type: relOfficeDocument, Target: "word/document.xml"},
			{ID: "rId2", Type: relCoreProps, Target: "docProps/core.xml"},
			{ID: "rId3", Type: relExtendedProps, Target: "docProps/app.xml"},
		},
	}
}

func (d *Document) documentRels() *relsXML {
	rels := &relsXML{Xmlns: nsRelationships, Relationships: []relXML{}}
	for _, m := range d.media {
		rels.Relationships = append(rels.Relationships, relXML{ID: m.relID, Type: relImage, Target: m.target})
	}
	return rels
}

func (d *Document) coreProperties() *cpCoreProperties {
	m := d.metadata
	cp := &cpCoreProperties{
		XmlnsCP:     nsCP,
		XmlnsDC:     nsDC,
		XmlnsDCTerm: nsDCTerms,
		XmlnsXSI:    nsXSI,
		Title:       m.Title,
		Subject:     m.Subject,
		Creator:     m.Author,
		Keywords:    strings.Join(m.Keywords, ", "),
	}
	if !m.Created.IsZero() {
		cp.Created = &dcW3CDate{Type: "dcterms:W3CDTF", Value: m.Created.UTC().Format(time.RFC3339)}
	}
	if !m.Modified.IsZero() {
		cp.Modified = &dcW3CDate{Type: "dcterms:W3CDTF", Value: m.Modified.UTC().Format(time.RFC3339)}
	}
	return cp
}

func (d *Document) appProperties() *appProperties {
	app := d.metadata.Creator
	if app == "" {
		app = "photopages"
	}
	return &appProperties{Xmlns: nsExtended, Application: app, Pages: len(d.sections)}
}

func writeXMLPart(zw *zip.Writer, name string, v interface{}) error {
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := io.WriteString(fw, xml.Header); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := xml.NewEncoder(fw).Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpeg"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/tiff":
		return "tiff"
	default:
		return ""
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
