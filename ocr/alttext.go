package ocr

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// ErrNoText is returned by Describe when nothing legible was recognized.
var ErrNoText = errors.New("no text recognized")

// MaxAltTextLength is the longest alternative text Describe returns, in runes.
const MaxAltTextLength = 200

// AltText turns raw recognized text into a single line of at most
// MaxAltTextLength runes, cut at a word boundary where possible.
func AltText(raw string) (string, error) {
	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		return "", ErrNoText
	}
	if utf8.RuneCountInString(text) <= MaxAltTextLength {
		return text, nil
	}

	runes := []rune(text)[:MaxAltTextLength-1]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…", nil
}
