// Package config loads photopages settings from a JSON file.
//
// Values missing from the file keep their defaults, so a file only needs the
// settings it changes:
//
//	{
//	  "page": "Letter",
//	  "margin_mm": 12.7,
//	  "image_format": "jpeg",
//	  "max_ppi": 300
//	}
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tsawler/photopages/docx"
	"github.com/tsawler/photopages/layout"
	"github.com/tsawler/photopages/model"
	"github.com/tsawler/photopages/raster"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every setting of a build or preview run.
type Config struct {
	Page         string  `json:"page"`                // Named format: A3, A4, A5, Letter, Legal
	WidthMM      float64 `json:"width_mm,omitempty"`  // Custom page width; overrides Page with HeightMM
	HeightMM     float64 `json:"height_mm,omitempty"` // Custom page height
	MarginMM     float64 `json:"margin_mm"`
	Landscape    bool    `json:"landscape"`
	Fit          string  `json:"fit"`           // width or page
	ImageFormat  string  `json:"image_format"`  // png or jpeg
	JPEGQuality  int     `json:"jpeg_quality"`  // 1-100
	MaxPPI       float64 `json:"max_ppi"`       // 0 disables downsampling
	AutoOrient   bool    `json:"auto_orient"`   // Apply EXIF orientation on decode
	SectionStart string  `json:"section_start"` // nextPage or continuous
	PreviewWidth int     `json:"preview_width"` // Preview canvas width in pixels
	Lang         string  `json:"lang"`          // Message language: en or ru
	OCR          bool    `json:"ocr"`           // Describe pictures with OCR
	OCRLang      string  `json:"ocr_lang"`      // Tesseract languages, e.g. eng+rus
	Title        string  `json:"title"`
	Author       string  `json:"author"`
}

// Default returns the built-in settings: A4 with 10 mm margins, fit to
// width, PNG pictures.
func Default() Config {
	return Config{
		Page:         "A4",
		MarginMM:     10,
		Fit:          "width",
		ImageFormat:  "png",
		JPEGQuality:  raster.DefaultJPEGQuality,
		SectionStart: string(docx.StartNextPage),
		PreviewWidth: 400,
		Lang:         "en",
		OCRLang:      "eng",
	}
}

// Load reads a JSON configuration file on top of the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes JSON configuration on top of the defaults. Unknown fields
// are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cfg.ensureDefaults()
	return cfg, nil
}

// ensureDefaults fills zero values that have no meaning of their own.
func (c *Config) ensureDefaults() {
	if c.JPEGQuality <= 0 {
		c.JPEGQuality = raster.DefaultJPEGQuality
	}
	if c.PreviewWidth <= 0 {
		c.PreviewWidth = 400
	}
	if c.Page == "" {
		c.Page = "A4"
	}
	if c.SectionStart == "" {
		c.SectionStart = string(docx.StartNextPage)
	}
	if c.Lang == "" {
		c.Lang = "en"
	}
	if c.OCRLang == "" {
		c.OCRLang = "eng"
	}
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...))
	}

	if _, err := c.Geometry(); err != nil {
		errs = append(errs, err)
	}
	if _, err := layout.ParseFitMode(c.Fit); err != nil {
		add("fit: %v", err)
	}
	if _, err := raster.ParseFormat(c.ImageFormat); err != nil {
		add("image_format: %v", err)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		add("jpeg_quality %d outside 1-100", c.JPEGQuality)
	}
	if c.MaxPPI < 0 {
		add("max_ppi %g is negative", c.MaxPPI)
	}
	if _, err := c.Start(); err != nil {
		errs = append(errs, err)
	}
	if c.PreviewWidth < 16 || c.PreviewWidth > 10000 {
		add("preview_width %d outside 16-10000", c.PreviewWidth)
	}
	switch strings.ToLower(c.Lang) {
	case "en", "ru":
	default:
		add("lang %q: want en or ru", c.Lang)
	}

	return errors.Join(errs...)
}

// Geometry returns the page geometry described by the configuration.
func (c Config) Geometry() (model.PageGeometry, error) {
	var g model.PageGeometry
	switch {
	case c.WidthMM != 0 || c.HeightMM != 0:
		g = model.PageGeometry{Name: "Custom", Width: c.WidthMM, Height: c.HeightMM}
	default:
		named, ok := model.LookupFormat(c.Page)
		if !ok {
			return model.PageGeometry{}, fmt.Errorf("%w: unknown page format %q (known: %s)",
				ErrInvalid, c.Page, strings.Join(model.FormatNames(), ", "))
		}
		g = named
	}
	g.Margin = c.MarginMM

	if c.Landscape && g.Width < g.Height {
		g.Width, g.Height = g.Height, g.Width
	}
	if err := g.Validate(); err != nil {
		return model.PageGeometry{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return g, nil
}

// FitMode returns the parsed fit mode.
func (c Config) FitMode() (layout.FitMode, error) {
	return layout.ParseFitMode(c.Fit)
}

// Format returns the parsed picture encoding.
func (c Config) Format() (raster.Format, error) {
	return raster.ParseFormat(c.ImageFormat)
}

// Start returns the parsed section start type.
func (c Config) Start() (docx.SectionStart, error) {
	switch strings.ToLower(strings.TrimSpace(c.SectionStart)) {
	case "", "nextpage", "next-page":
		return docx.StartNextPage, nil
	case "continuous":
		return docx.StartContinuous, nil
	default:
		return docx.StartNextPage, fmt.Errorf("%w: section_start %q: want nextPage or continuous", ErrInvalid, c.SectionStart)
	}
}
