package model

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Item is one photograph in the ordered list.
type Item struct {
	Source   string   // Opaque source reference, usually a file path
	Rotation Rotation // Clockwise quarter turns applied before layout
}

// NewItem returns an unrotated item for source.
func NewItem(source string) Item {
	return Item{Source: source}
}

// Name returns the display name of the item: the last path element of the
// source, normalized to NFC so names from decomposing file systems compare
// and render consistently.
func (i Item) Name() string {
	src := strings.ReplaceAll(i.Source, "\\", "/")
	base := filepath.Base(filepath.FromSlash(src))
	if base == "." || base == string(filepath.Separator) {
		base = i.Source
	}
	return norm.NFC.String(base)
}
