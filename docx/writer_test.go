package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tsawler/photopages/model"
)

// ============================================================================
// Helpers
// ============================================================================

func testPicture(name string) Picture {
	return Picture{
		Data:        []byte("\x89PNG\r\n\x1a\n" + name),
		ContentType: "image/png",
		Width:       model.MillimetresToEMU(190),
		Height:      model.MillimetresToEMU(142.5),
		Name:        name,
	}
}

// partContent reads one part of a serialized package.
func partContent(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(b)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

// buildPages builds n one-picture sections. Every section but the last ends
// with a page break after its picture.
func buildPages(t *testing.T, n int) *Document {
	t.Helper()
	doc := New()
	props := SectionFromGeometry(model.DefaultGeometry())
	for i := 0; i < n; i++ {
		if i > 0 {
			if err := doc.AddPageBreak(); err != nil {
				t.Fatalf("AddPageBreak: %v", err)
			}
		}
		doc.AddSection(props)
		if err := doc.AddPicture(testPicture(string(rune('a'+i)) + ".png")); err != nil {
			t.Fatalf("AddPicture: %v", err)
		}
	}
	return doc
}

// ============================================================================
// Writer Tests
// ============================================================================

func TestWriter_Empty(t *testing.T) {
	doc := New()
	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	r, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}
	if n := len(r.Sections()); n != 0 {
		t.Errorf("empty document has %d sections", n)
	}

	body := partContent(t, data, "word/document.xml")
	if strings.Contains(body, "w:sectPr") {
		t.Error("empty document should not carry section properties")
	}
	if !strings.Contains(body, "<w:p></w:p>") {
		t.Error("empty document should hold one empty paragraph")
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	const n = 3
	doc := buildPages(t, n)

	if doc.SectionCount() != n || doc.PictureCount() != n || doc.PageBreakCount() != n-1 {
		t.Fatalf("counts = %d sections, %d pictures, %d breaks",
			doc.SectionCount(), doc.PictureCount(), doc.PageBreakCount())
	}

	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	r, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}

	sections := r.Sections()
	if len(sections) != n {
		t.Fatalf("len(Sections()) = %d, want %d", len(sections), n)
	}
	if r.PageBreakCount() != n-1 {
		t.Errorf("PageBreakCount() = %d, want %d", r.PageBreakCount(), n-1)
	}

	for i, s := range sections {
		if s.Start != StartNextPage {
			t.Errorf("section %d start = %q", i, s.Start)
		}
		if !approx(s.PageWidth, 210, 0.05) || !approx(s.PageHeight, 297, 0.05) {
			t.Errorf("section %d page = %vx%v", i, s.PageWidth, s.PageHeight)
		}
		for _, m := range []float64{s.MarginTop, s.MarginRight, s.MarginBottom, s.MarginLeft} {
			if !approx(m, 10, 0.05) {
				t.Errorf("section %d margin = %v, want 10", i, m)
			}
		}
		if len(s.Pictures) != 1 {
			t.Fatalf("section %d has %d pictures", i, len(s.Pictures))
		}
		pic := s.Pictures[0]
		if pic.Width != 6840000 || pic.Height != 5130000 {
			t.Errorf("section %d extent = %dx%d", i, pic.Width, pic.Height)
		}
		if !pic.Centered {
			t.Errorf("section %d picture is not centred", i)
		}
		want := testPicture(string(rune('a'+i)) + ".png")
		if pic.Name != want.Name {
			t.Errorf("section %d picture name = %q, want %q", i, pic.Name, want.Name)
		}
		got, err := r.Media(pic.Target)
		if err != nil {
			t.Fatalf("Media(%q) error = %v", pic.Target, err)
		}
		if !bytes.Equal(got, want.Data) {
			t.Errorf("section %d media bytes differ", i)
		}
	}
}

func TestWriter_SectionPropertiesPlacement(t *testing.T) {
	doc := buildPages(t, 2)
	data, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	body := partContent(t, data, "word/document.xml")

	// The first section closes in the properties of its last paragraph,
	// which holds the page break.
	first := `<w:p><w:pPr><w:sectPr><w:type w:val="nextPage"></w:type>` +
		`<w:pgSz w:w="11906" w:h="16838"></w:pgSz>` +
		`<w:pgMar w:top="567" w:right="567" w:bottom="567" w:left="567" w:header="0" w:footer="0" w:gutter="0"></w:pgMar>` +
		`</w:sectPr></w:pPr><w:r><w:br w:type="page"></w:br></w:r></w:p>`
	if !strings.Contains(body, first) {
		t.Errorf("document.xml missing paragraph-level sectPr:\n%s", body)
	}
	// The final section is the last child of the body.
	if !strings.HasSuffix(body, "</w:sectPr></w:body></w:document>") {
		t.Errorf("document.xml does not end with a body-level sectPr")
	}
	if strings.Count(body, "<w:sectPr>") != 2 {
		t.Errorf("expected 2 sectPr elements, got %d", strings.Count(body, "<w:sectPr>"))
	}
	if strings.Count(body, `<w:br w:type="page"></w:br>`) != 1 {
		t.Errorf("expected 1 page break")
	}

	types := partContent(t, data, "[Content_Types].xml")
	if !strings.Contains(types, `Extension="png" ContentType="image/png"`) {
		t.Errorf("content types missing png default: %s", types)
	}
	rels := partContent(t, data, "word/_rels/document.xml.rels")
	if !strings.Contains(rels, `Target="media/image2.png"`) {
		t.Errorf("relationships missing second image: %s", rels)
	}
}

func TestWriter_SectionOptions(t *testing.T) {
	doc := New()
	props := SectionFromGeometry(model.A4.WithMargin(0))
	props.PageWidth, props.PageHeight = props.PageHeight, props.PageWidth
	props.Start = StartContinuous
	props.CenterPage = true
	doc.AddSection(props)

	data, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	r, err := OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	s := r.Sections()
	if len(s) != 1 {
		t.Fatalf("len(Sections()) = %d", len(s))
	}
	if s[0].Start != StartContinuous || !s[0].Landscape || s[0].VerticalAlign != "center" {
		t.Errorf("section = %+v", s[0])
	}
	if s[0].MarginLeft != 0 {
		t.Errorf("MarginLeft = %v, want 0", s[0].MarginLeft)
	}
}

func TestWriter_RequiresSection(t *testing.T) {
	doc := New()
	if err := doc.AddPicture(testPicture("a.png")); !errors.Is(err, ErrNoSection) {
		t.Errorf("AddPicture() error = %v, want ErrNoSection", err)
	}
	if err := doc.AddPageBreak(); !errors.Is(err, ErrNoSection) {
		t.Errorf("AddPageBreak() error = %v, want ErrNoSection", err)
	}
}

func TestPicture_Validate(t *testing.T) {
	good := testPicture("a.png")

	tests := []struct {
		name    string
		mutate  func(p *Picture)
		wantErr bool
	}{
		{"valid", func(p *Picture) {}, false},
		{"jpeg", func(p *Picture) { p.ContentType = "image/jpeg" }, false},
		{"no data", func(p *Picture) { p.Data = nil }, true},
		{"unknown type", func(p *Picture) { p.ContentType = "image/heic" }, true},
		{"zero width", func(p *Picture) { p.Width = 0 }, true},
		{"negative height", func(p *Picture) { p.Height = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := good
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriter_RemoveLastSection(t *testing.T) {
	doc := buildPages(t, 2)
	if !doc.RemoveLastSection() {
		t.Fatal("RemoveLastSection() = false")
	}
	if doc.SectionCount() != 1 || doc.PictureCount() != 1 || doc.PageBreakCount() != 1 {
		t.Errorf("after remove: %d sections, %d pictures, %d breaks",
			doc.SectionCount(), doc.PictureCount(), doc.PageBreakCount())
	}
	if !doc.RemoveLastPageBreak() || doc.PageBreakCount() != 0 {
		t.Errorf("RemoveLastPageBreak() left %d breaks", doc.PageBreakCount())
	}
	if doc.RemoveLastPageBreak() {
		t.Error("RemoveLastPageBreak() removed a picture paragraph")
	}

	// Relationship IDs continue from the surviving media.
	doc.AddSection(SectionFromGeometry(model.DefaultGeometry()))
	if err := doc.AddPicture(testPicture("c.png")); err != nil {
		t.Fatal(err)
	}
	data, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if rels := partContent(t, data, "word/_rels/document.xml.rels"); strings.Count(rels, "<Relationship ") != 2 {
		t.Errorf("relationships = %s", rels)
	}

	empty := New()
	if empty.RemoveLastSection() {
		t.Error("RemoveLastSection() on empty document = true")
	}
}

func TestWriter_Metadata(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	doc := buildPages(t, 1)
	doc.SetMetadata(model.Metadata{
		Title:    "Holiday",
		Author:   "Photographer",
		Keywords: []string{"sea", "sun"},
		Created:  created,
		Modified: created,
	})

	data, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	r, err := OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	meta := r.Metadata()
	if meta.Title != "Holiday" || meta.Author != "Photographer" {
		t.Errorf("Metadata() = %+v", meta)
	}
	if len(meta.Keywords) != 2 || meta.Keywords[1] != "sun" {
		t.Errorf("Keywords = %v", meta.Keywords)
	}
	if !meta.Created.Equal(created) {
		t.Errorf("Created = %v, want %v", meta.Created, created)
	}
	if meta.Creator != "photopages" {
		t.Errorf("Creator = %q, want photopages", meta.Creator)
	}
}

// ============================================================================
// Save Tests
// ============================================================================

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.docx")

	doc := buildPages(t, 2)
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()
	if len(r.Sections()) != 2 {
		t.Errorf("saved document has %d sections", len(r.Sections()))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the document", len(entries))
	}

	// Saving again overwrites.
	if err := New().Save(path); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
}

func TestSave_Failure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "out.docx")

	doc := buildPages(t, 1)
	if err := doc.Save(path); err == nil {
		t.Fatal("Save() into a missing directory should fail")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("failed save left a file behind: %v", err)
	}

	// The document is unchanged and can be saved elsewhere.
	if err := doc.Save(filepath.Join(dir, "ok.docx")); err != nil {
		t.Errorf("retry Save() error = %v", err)
	}
}

func BenchmarkWriteTo(b *testing.B) {
	doc := New()
	pic := Picture{Data: bytes.Repeat([]byte{1}, 64<<10), ContentType: "image/jpeg", Width: 1, Height: 1}
	for i := 0; i < 20; i++ {
		doc.AddSection(SectionProperties{PageWidth: 210, PageHeight: 297})
		doc.AddPicture(pic)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := doc.WriteTo(io.Discard); err != nil {
			b.Fatal(err)
		}
	}
}
