package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/photopages/docx"
	"github.com/tsawler/photopages/layout"
	"github.com/tsawler/photopages/model"
	"github.com/tsawler/photopages/raster"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	g, err := cfg.Geometry()
	if err != nil {
		t.Fatal(err)
	}
	if g != model.DefaultGeometry() {
		t.Errorf("Geometry() = %+v, want A4 10 mm", g)
	}
	if m, _ := cfg.FitMode(); m != layout.FitWidth {
		t.Errorf("FitMode() = %v", m)
	}
	if f, _ := cfg.Format(); f != raster.PNG {
		t.Errorf("Format() = %v", f)
	}
	if s, _ := cfg.Start(); s != docx.StartNextPage {
		t.Errorf("Start() = %q", s)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		check    func(t *testing.T, c Config)
		parseErr bool
	}{
		{
			name: "empty object keeps defaults",
			json: `{}`,
			check: func(t *testing.T, c Config) {
				if c != Default() {
					t.Errorf("config = %+v", c)
				}
			},
		},
		{
			name: "zero margin is honoured",
			json: `{"margin_mm": 0}`,
			check: func(t *testing.T, c Config) {
				g, err := c.Geometry()
				if err != nil || g.Margin != 0 {
					t.Errorf("Geometry() = %+v, %v", g, err)
				}
			},
		},
		{
			name: "zero quality falls back",
			json: `{"jpeg_quality": 0, "preview_width": 0}`,
			check: func(t *testing.T, c Config) {
				if c.JPEGQuality != raster.DefaultJPEGQuality || c.PreviewWidth != 400 {
					t.Errorf("config = %+v", c)
				}
			},
		},
		{
			name: "letter landscape",
			json: `{"page": "letter", "landscape": true, "fit": "page"}`,
			check: func(t *testing.T, c Config) {
				g, err := c.Geometry()
				if err != nil {
					t.Fatal(err)
				}
				if g.Width != 279.4 || g.Height != 215.9 {
					t.Errorf("Geometry() = %+v", g)
				}
				if m, _ := c.FitMode(); m != layout.FitPage {
					t.Errorf("FitMode() = %v", m)
				}
			},
		},
		{
			name: "custom size",
			json: `{"width_mm": 100, "height_mm": 150, "margin_mm": 5}`,
			check: func(t *testing.T, c Config) {
				g, err := c.Geometry()
				if err != nil {
					t.Fatal(err)
				}
				if g.Name != "Custom" || g.Width != 100 || g.Height != 150 || g.Margin != 5 {
					t.Errorf("Geometry() = %+v", g)
				}
			},
		},
		{
			name:     "unknown field",
			json:     `{"colour": "red"}`,
			parseErr: true,
		},
		{
			name:     "malformed",
			json:     `{"page": `,
			parseErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.json))
			if tt.parseErr {
				if !errors.Is(err, ErrInvalid) {
					t.Fatalf("Parse() error = %v, want ErrInvalid", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"unknown page", func(c *Config) { c.Page = "B7" }, "unknown page format"},
		{"margin too wide", func(c *Config) { c.MarginMM = 105 }, "no content area"},
		{"negative margin", func(c *Config) { c.MarginMM = -1 }, "negative margin"},
		{"half custom size", func(c *Config) { c.WidthMM = 100 }, "page 100x0"},
		{"fit", func(c *Config) { c.Fit = "stretch" }, "fit"},
		{"format", func(c *Config) { c.ImageFormat = "gif" }, "image_format"},
		{"quality", func(c *Config) { c.JPEGQuality = 101 }, "jpeg_quality"},
		{"ppi", func(c *Config) { c.MaxPPI = -3 }, "max_ppi"},
		{"section start", func(c *Config) { c.SectionStart = "oddPage" }, "section_start"},
		{"preview width", func(c *Config) { c.PreviewWidth = 4 }, "preview_width"},
		{"lang", func(c *Config) { c.Lang = "de" }, "lang"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if err == nil {
				t.Fatal("Validate() = nil")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.want)
			}
		})
	}

	// Geometry problems keep their own sentinel.
	c := Default()
	c.MarginMM = 200
	if err := c.Validate(); !errors.Is(err, model.ErrInvalidGeometry) {
		t.Errorf("Validate() = %v, want ErrInvalidGeometry in chain", err)
	}

	// Several problems are reported together.
	c = Default()
	c.Fit, c.Lang = "x", "y"
	if err := c.Validate(); !strings.Contains(err.Error(), "fit") || !strings.Contains(err.Error(), "lang") {
		t.Errorf("Validate() = %v, want both problems", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photopages.json")
	if err := os.WriteFile(path, []byte(`{"page": "A5", "image_format": "jpeg", "jpeg_quality": 80}`), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Page != "A5" || c.JPEGQuality != 80 || c.MarginMM != 10 {
		t.Errorf("Load() = %+v", c)
	}
	if f, _ := c.Format(); f != raster.JPEG {
		t.Errorf("Format() = %v", f)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v", err)
	}
}
