// Package raster decodes, rotates, resizes and encodes photographs.
//
// Decoding is done through a [Decoder] so callers can supply images from
// somewhere other than the file system. [FileDecoder] reads JPEG, PNG, GIF,
// BMP, TIFF and WebP files.
package raster

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/photopages/model"
)

// DecodeError reports a source that could not be read or decoded.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder turns a source reference into pixels.
type Decoder interface {
	Decode(source string) (image.Image, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(source string) (image.Image, error)

// Decode calls f(source).
func (f DecoderFunc) Decode(source string) (image.Image, error) {
	return f(source)
}

// FileDecoder decodes image files from disk.
type FileDecoder struct {
	// AutoOrient applies the EXIF orientation tag of JPEG files before the
	// image is returned. Off by default: the stored pixel orientation is what
	// the user rotates.
	AutoOrient bool
}

// Decode opens and decodes the file at path.
func (d FileDecoder) Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(d.AutoOrient))
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	return img, nil
}

// Dimensions reads only the image header and returns the pixel size.
func Dimensions(path string) (image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Point{}, &DecodeError{Source: path, Err: err}
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Point{}, &DecodeError{Source: path, Err: err}
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}

// Size returns the pixel dimensions of img.
func Size(img image.Image) image.Point {
	return img.Bounds().Size()
}

// Rotate turns img clockwise by r. Quarter turns only move pixels, so the
// result has exactly the source pixels with width and height swapped for 90
// and 270 degrees.
func Rotate(img image.Image, r model.Rotation) (image.Image, error) {
	switch r {
	case model.Rotate0:
		return img, nil
	case model.Rotate90:
		return imaging.Rotate270(img), nil // imaging rotates counter-clockwise
	case model.Rotate180:
		return imaging.Rotate180(img), nil
	case model.Rotate270:
		return imaging.Rotate90(img), nil
	default:
		return nil, fmt.Errorf("unsupported rotation %d", int(r))
	}
}

// Resize scales img to exactly w x h using a Lanczos filter.
func Resize(img image.Image, w, h int) *image.NRGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// Format is an output encoding for embedded pictures.
type Format int

const (
	PNG Format = iota
	JPEG
)

// ParseFormat parses "png" or "jpeg"/"jpg".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	default:
		return PNG, fmt.Errorf("unsupported image format %q", s)
	}
}

// String returns "png" or "jpeg".
func (f Format) String() string {
	if f == JPEG {
		return "jpeg"
	}
	return "png"
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	if f == JPEG {
		return "jpeg"
	}
	return "png"
}

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// DefaultJPEGQuality is used when a quality of 0 is requested.
const DefaultJPEGQuality = 90

// Encode serializes img. quality applies to JPEG only.
func Encode(img image.Image, f Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case JPEG:
		if quality <= 0 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		err = imaging.Encode(&buf, img, imaging.PNG)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", f, err)
	}
	return buf.Bytes(), nil
}
