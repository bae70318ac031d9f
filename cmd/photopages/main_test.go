package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tsawler/photopages/docx"
	"github.com/tsawler/photopages/model"
	"github.com/tsawler/photopages/store"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

// photos writes a.png (800x600), b.png (400x300) and c.png (600x300).
func photos(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 800, 600)
	writePNG(t, filepath.Join(dir, "b.png"), 400, 300)
	writePNG(t, filepath.Join(dir, "c.png"), 600, 300)
	return dir
}

func runCmd(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

// ============================================================================
// Commands
// ============================================================================

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no command", nil, exitUsage},
		{"unknown command", []string{"publish"}, exitUsage},
		{"help", []string{"help"}, exitOK},
		{"build help", []string{"build", "-h"}, exitOK},
		{"build without images", []string{"build"}, exitUsage},
		{"preview without images", []string{"preview"}, exitUsage},
		{"bad flag", []string{"build", "-nope"}, exitUsage},
		{"bad rotate", []string{"build", "-rotate", "1=45", "x.png"}, exitUsage},
		{"bad edit", []string{"build", "-edit", "left:1", "x.png"}, exitUsage},
		{"bad page", []string{"build", "-page", "B9", "x.png"}, exitUsage},
		{"inspect without file", []string{"inspect"}, exitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runCmd(tt.args...); code != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, code, tt.want)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	dir := photos(t)
	out := filepath.Join(t.TempDir(), "album.docx")

	code, stdout, stderr := runCmd("build", "-o", out, "-title", "Trip", dir)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "Loaded 3 images") || !strings.Contains(stdout, out) {
		t.Errorf("stdout = %q", stdout)
	}

	r, err := docx.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if n := len(r.Sections()); n != 3 {
		t.Errorf("sections = %d, want 3", n)
	}
	if r.Metadata().Title != "Trip" {
		t.Errorf("title = %q", r.Metadata().Title)
	}
}

func TestBuild_EditsAndRotation(t *testing.T) {
	dir := photos(t)
	out := filepath.Join(t.TempDir(), "edited.docx")

	code, stdout, stderr := runCmd("build", "-o", out,
		"-rotate", "1=90",
		"-edit", "down:1",
		"-edit", "remove:3",
		"-lang", "ru",
		dir)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "Загружено 3 изображения") || !strings.Contains(stdout, "Осталось: 2") {
		t.Errorf("stdout = %q", stdout)
	}

	r, err := docx.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	sections := r.Sections()
	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}
	// b.png first, then a.png turned upright.
	if h := model.EMUToMillimetres(sections[0].Pictures[0].Height); h < 142.4 || h > 142.6 {
		t.Errorf("first picture height = %g mm, want 142.5", h)
	}
	if h := model.EMUToMillimetres(sections[1].Pictures[0].Height); h < 253.2 || h > 253.4 {
		t.Errorf("second picture height = %g mm, want 253.3", h)
	}
}

func TestBuild_Partial(t *testing.T) {
	dir := photos(t)
	if err := os.WriteFile(filepath.Join(dir, "b.png"), []byte("corrupt"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "partial.docx")

	code, _, stderr := runCmd("build", "-o", out, dir)
	if code != exitPartial {
		t.Fatalf("exit = %d, want %d; stderr:\n%s", code, exitPartial, stderr)
	}
	if !strings.Contains(stderr, "Could not process") || !strings.Contains(stderr, "1 of 3 images were skipped") {
		t.Errorf("stderr = %q", stderr)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("document not written: %v", err)
	}
}

func TestBuild_SaveError(t *testing.T) {
	dir := photos(t)
	out := filepath.Join(t.TempDir(), "no", "such", "dir", "x.docx")

	code, _, stderr := runCmd("build", "-o", out, dir)
	if code != exitSave {
		t.Fatalf("exit = %d, want %d", code, exitSave)
	}
	if !strings.Contains(stderr, "Could not save file") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestBuild_ConfigFile(t *testing.T) {
	dir := photos(t)
	cfgPath := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(cfgPath, []byte(`{"page": "A5", "margin_mm": 5, "title": "From file"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "a5.docx")

	code, _, stderr := runCmd("build", "-config", cfgPath, "-margin", "8", "-o", out, filepath.Join(dir, "a.png"))
	if code != exitOK {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}

	r, err := docx.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	sec := r.Sections()[0]
	if sec.PageWidth < 147.9 || sec.PageWidth > 148.1 {
		t.Errorf("PageWidth = %g, want A5", sec.PageWidth)
	}
	if sec.MarginLeft < 7.9 || sec.MarginLeft > 8.1 {
		t.Errorf("MarginLeft = %g, want the flag's 8 mm", sec.MarginLeft)
	}
	if r.Metadata().Title != "From file" {
		t.Errorf("title = %q", r.Metadata().Title)
	}

	if code, _, _ := runCmd("build", "-config", filepath.Join(t.TempDir(), "missing.json"), dir); code != exitUsage {
		t.Errorf("missing config exit = %d", code)
	}
}

func TestPreview(t *testing.T) {
	dir := photos(t)
	out := filepath.Join(t.TempDir(), "proof")

	code, stdout, stderr := runCmd("preview", "-o", out, "-width", "200", dir)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "Preview written to") {
		t.Errorf("stdout = %q", stdout)
	}
	for _, name := range []string{"page-001.png", "page-002.png", "page-003.png", "index.html"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	f, err := os.Open(filepath.Join(out, "page-001.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 200 || cfg.Height != 283 {
		t.Errorf("preview size = %dx%d, want 200x283", cfg.Width, cfg.Height)
	}
}

func TestInspect(t *testing.T) {
	dir := photos(t)
	out := filepath.Join(t.TempDir(), "album.docx")
	if code, _, stderr := runCmd("build", "-o", out, dir); code != exitOK {
		t.Fatalf("build exit = %d, stderr:\n%s", code, stderr)
	}

	code, stdout, stderr := runCmd("inspect", out)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}
	for _, want := range []string{
		"210.0 x 297.0",
		"10.0/10.0/10.0/10.0",
		"190.0 x 142.5",
		"190.0 x 95.0",
		"3 sections, 3 pictures, 2 page breaks",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("inspect output missing %q:\n%s", want, stdout)
		}
	}

	if code, _, _ := runCmd("inspect", filepath.Join(dir, "a.png")); code != exitUsage {
		t.Errorf("inspect of a PNG exit = %d", code)
	}
}

// ============================================================================
// Flags
// ============================================================================

func TestRotationsFlag(t *testing.T) {
	var f rotationsFlag
	for _, s := range []string{"1=90", "3=-90", "2=360"} {
		if err := f.Set(s); err != nil {
			t.Fatalf("Set(%q) error = %v", s, err)
		}
	}
	if got := f.String(); got != "1=90,3=270,2=0" {
		t.Errorf("String() = %q", got)
	}
	for _, bad := range []string{"1", "0=90", "x=90", "1=abc", "1=45"} {
		if err := f.Set(bad); err == nil {
			t.Errorf("Set(%q) should fail", bad)
		}
	}
}

func TestEditsFlag(t *testing.T) {
	var f editsFlag
	for _, s := range []string{"up:2", "DOWN:1", "remove:3", "rotate:1"} {
		if err := f.Set(s); err != nil {
			t.Fatalf("Set(%q) error = %v", s, err)
		}
	}
	if got := f.String(); got != "up:2,down:1,remove:3,rotate:1" {
		t.Errorf("String() = %q", got)
	}
	for _, bad := range []string{"up", "left:1", "up:0"} {
		if err := f.Set(bad); err == nil {
			t.Errorf("Set(%q) should fail", bad)
		}
	}
}

func TestApplyEdits(t *testing.T) {
	s := store.New()
	s.ReplaceAll([]string{"a", "b", "c"})

	removed, err := applyEdits(s,
		rotationsFlag{{pos: 3, rot: model.Rotate180}},
		editsFlag{{editUp, 3}, {editRemove, 1}, {editRotate, 1}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed = %d", removed)
	}
	items := s.Items()
	if len(items) != 2 || items[0].Source != "c" || items[1].Source != "b" {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Rotation != model.Rotate270 {
		t.Errorf("rotation = %v, want 270°", items[0].Rotation)
	}

	if _, err := applyEdits(s, nil, editsFlag{{editDown, 5}}); err == nil {
		t.Error("out-of-range edit should fail")
	}
	if _, err := applyEdits(s, rotationsFlag{{pos: 9, rot: model.Rotate90}}, nil); err == nil {
		t.Error("out-of-range rotation should fail")
	}
}

func TestDefaultOutput(t *testing.T) {
	now := time.Date(2024, 3, 7, 9, 5, 1, 0, time.UTC)
	if got := defaultOutput(now); got != "file_07032024090501.docx" {
		t.Errorf("defaultOutput() = %q", got)
	}
}
