// Package docx writes and reads the subset of Office Open XML word-processing
// documents used for photo pages: one section per page, each holding inline
// pictures and explicit page breaks.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/tsawler/photopages/model"
)

// Reader provides access to DOCX document content.
type Reader struct {
	closer    io.Closer
	files     []*zip.File
	document  *documentXML
	rels      *relationshipsXML
	coreProps *corePropertiesXML
	appProps  *appPropertiesXML
	sections  []SectionInfo
}

// SectionInfo describes one section of a parsed document. Lengths are in
// millimetres.
type SectionInfo struct {
	Start         SectionStart
	PageWidth     float64
	PageHeight    float64
	MarginTop     float64
	MarginRight   float64
	MarginBottom  float64
	MarginLeft    float64
	Landscape     bool
	VerticalAlign string
	Pictures      []PictureInfo
	PageBreaks    int
}

// PictureInfo describes an inline or anchored picture.
type PictureInfo struct {
	Width       int64 // EMU
	Height      int64 // EMU
	Name        string
	Description string
	RelID       string
	Target      string // Part name inside the package, e.g. word/media/image1.png
	Centered    bool
}

// Open opens a DOCX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r, err := newReader(zr.File)
	if err != nil {
		zr.Close()
		return nil, err
	}
	r.closer = zr
	return r, nil
}

// OpenBytes parses a DOCX package held in memory.
func OpenBytes(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return newReader(zr.File)
}

func newReader(files []*zip.File) (*Reader, error) {
	r := &Reader{files: files}

	// Validate required files exist
	if err := r.validate(); err != nil {
		return nil, err
	}

	// Parse relationships first (needed to resolve pictures)
	if err := r.parseRelationships(); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}

	if err := r.parseDocument(); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	// Metadata is optional
	r.parseCoreProperties()
	r.parseAppProperties()

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// validate checks that required DOCX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"word/document.xml",
	}

	for _, name := range required {
		if r.getFile(name) == nil {
			return fmt.Errorf("missing required file: %s", name)
		}
	}
	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f := r.getFile(name)
	if f == nil {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// getFile returns a zip.File by name.
func (r *Reader) getFile(name string) *zip.File {
	for _, f := range r.files {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Sections returns the sections of the document in order.
func (r *Reader) Sections() []SectionInfo {
	out := make([]SectionInfo, len(r.sections))
	copy(out, r.sections)
	return out
}

// PageBreakCount returns the number of explicit page breaks in the body.
func (r *Reader) PageBreakCount() int {
	n := 0
	for _, s := range r.sections {
		n += s.PageBreaks
	}
	return n
}

// Pictures returns every picture in document order.
func (r *Reader) Pictures() []PictureInfo {
	var out []PictureInfo
	for _, s := range r.sections {
		out = append(out, s.Pictures...)
	}
	return out
}

// Media returns the bytes of a package part such as a picture Target.
func (r *Reader) Media(target string) ([]byte, error) {
	return r.getFileContent(target)
}

// Text extracts the text content of the document, one line per paragraph.
func (r *Reader) Text() (string, error) {
	if r.document == nil || r.document.Body == nil {
		return "", fmt.Errorf("document not parsed")
	}

	var lines []string
	for _, p := range r.document.Body.Paragraphs {
		var sb strings.Builder
		for _, run := range p.Runs {
			sb.WriteString(extractRunText(run))
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n"), nil
}

// Metadata returns document metadata.
func (r *Reader) Metadata() model.Metadata {
	meta := model.Metadata{}
	if r.coreProps != nil {
		meta.Title = r.coreProps.Title
		meta.Author = r.coreProps.Creator
		meta.Subject = r.coreProps.Subject
		if r.coreProps.Keywords != "" {
			meta.Keywords = strings.Split(r.coreProps.Keywords, ",")
			for i, kw := range meta.Keywords {
				meta.Keywords[i] = strings.TrimSpace(kw)
			}
		}
		meta.Created = parseW3CDate(r.coreProps.Created)
		meta.Modified = parseW3CDate(r.coreProps.Modified)
	}
	if r.appProps != nil {
		meta.Creator = r.appProps.Application
	}
	return meta
}

// parseRelationships parses the document relationships file.
func (r *Reader) parseRelationships() error {
	data, err := r.getFileContent("word/_rels/document.xml.rels")
	if err != nil {
		// Relationships file is optional
		return nil
	}

	r.rels = &relationshipsXML{}
	return xml.Unmarshal(data, r.rels)
}

// parseDocument parses the main document content and splits it into
// sections.
func (r *Reader) parseDocument() error {
	data, err := r.getFileContent("word/document.xml")
	if err != nil {
		return err
	}

	r.document = &documentXML{}
	if err := xml.Unmarshal(data, r.document); err != nil {
		return fmt.Errorf("unmarshaling document.xml: %w", err)
	}

	r.processSections()
	return nil
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}

	props := &corePropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		r.coreProps = props
	}
}

// parseAppProperties parses application metadata.
func (r *Reader) parseAppProperties() {
	data, err := r.getFileContent("docProps/app.xml")
	if err != nil {
		return
	}

	props := &appPropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		r.appProps = props
	}
}

// processSections walks the body paragraphs. A paragraph whose properties
// carry a sectPr closes the current section; the body-level sectPr closes
// the last one. Pictures or breaks after the last paragraph-level sectPr
// with no body sectPr are kept as a section with default properties.
func (r *Reader) processSections() {
	r.sections = nil
	if r.document == nil || r.document.Body == nil {
		return
	}

	var cur SectionInfo
	for _, p := range r.document.Body.Paragraphs {
		for _, run := range p.Runs {
			for _, br := range run.Breaks {
				if br.Type == "page" {
					cur.PageBreaks++
				}
			}
			for _, d := range run.Drawing {
				if pic, ok := r.pictureInfo(d); ok {
					pic.Centered = p.Properties.Justification.Val == "center"
					cur.Pictures = append(cur.Pictures, pic)
				}
			}
		}
		if p.Properties.SectPr != nil {
			applySectPr(&cur, p.Properties.SectPr)
			r.sections = append(r.sections, cur)
			cur = SectionInfo{}
		}
	}

	if sp := r.document.Body.SectPr; sp != nil {
		applySectPr(&cur, sp)
		r.sections = append(r.sections, cur)
	} else if len(cur.Pictures) > 0 || cur.PageBreaks > 0 {
		cur.Start = StartNextPage
		r.sections = append(r.sections, cur)
	}
}

func (r *Reader) pictureInfo(d drawingXML) (PictureInfo, bool) {
	var ext extentXML
	var pr docPrXML
	var blip *blipXML
	switch {
	case d.Inline != nil:
		ext, pr, blip = d.Inline.Extent, d.Inline.DocPr, d.Inline.Blip
	case d.Anchor != nil:
		ext, pr, blip = d.Anchor.Extent, d.Anchor.DocPr, d.Anchor.Blip
	default:
		return PictureInfo{}, false
	}

	pic := PictureInfo{
		Width:       parseInt64(ext.CX),
		Height:      parseInt64(ext.CY),
		Name:        pr.Name,
		Description: pr.Descr,
	}
	if blip != nil {
		pic.RelID = blip.Embed
		pic.Target = r.resolveTarget(blip.Embed)
	}
	return pic, true
}

// resolveTarget maps a relationship ID to a package part name.
func (r *Reader) resolveTarget(id string) string {
	if r.rels == nil || id == "" {
		return ""
	}
	for _, rel := range r.rels.Relationships {
		if rel.ID != id {
			continue
		}
		if rel.TargetMode == "External" {
			return rel.Target
		}
		if strings.HasPrefix(rel.Target, "/") {
			return strings.TrimPrefix(rel.Target, "/")
		}
		return path.Join("word", rel.Target)
	}
	return ""
}

func applySectPr(s *SectionInfo, sp *sectPrXML) {
	s.Start = SectionStart(sp.Type.Val)
	if s.Start == "" {
		s.Start = StartNextPage
	}
	s.PageWidth = twipsAttr(sp.PgSz.W)
	s.PageHeight = twipsAttr(sp.PgSz.H)
	s.Landscape = sp.PgSz.Orient == "landscape"
	s.MarginTop = twipsAttr(sp.PgMar.Top)
	s.MarginRight = twipsAttr(sp.PgMar.Right)
	s.MarginBottom = twipsAttr(sp.PgMar.Bottom)
	s.MarginLeft = twipsAttr(sp.PgMar.Left)
	s.VerticalAlign = sp.VAlign.Val
}

// extractRunText extracts text from a run element.
func extractRunText(run runXML) string {
	var parts []string

	for _, t := range run.Text {
		parts = append(parts, t.Value)
	}

	// Handle tab characters
	for range run.Tabs {
		parts = append(parts, "\t")
	}

	return strings.Join(parts, "")
}

func twipsAttr(s string) float64 {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return model.TwipsToMillimetres(v)
}

func parseInt64(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseW3CDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
