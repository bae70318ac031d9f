// Package photopages turns an ordered list of photographs into a Word
// document with one photograph per page.
//
// Basic usage:
//
//	warnings, err := photopages.Import("holiday/").Save("holiday.docx")
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", photopages.FormatWarnings(warnings))
//	}
//
// With options:
//
//	warnings, err := photopages.Import("a.jpg", "b.jpg", "c.jpg").
//	    Page("Letter").
//	    Margin(12.7).
//	    Rotate(1, 90).
//	    Fit(layout.FitPage).
//	    Save("album.docx")
//
// The store, layout, assemble, docx and preview packages are available for
// finer control.
package photopages

import (
	"github.com/tsawler/photopages/config"
)

// Import expands paths into a Project with the default configuration.
// Directories contribute their image files sorted by name; other files are
// accepted when their extension or content identifies an image.
//
// Errors are deferred to the Project's terminal operations, so the call can
// be chained:
//
//	warnings, err := photopages.Import("scans/").Save("scans.docx")
func Import(paths ...string) *Project {
	p, err := New(config.Default())
	if err != nil {
		return &Project{err: err}
	}
	// A fresh project has no list yet, so a failed import keeps its
	// warnings for the terminal call to report.
	if warnings, err := p.Load(paths...); err != nil {
		p.err = err
		p.warnings = warnings
	}
	return p
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	p := photopages.Must(photopages.New(cfg))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustWarn is like Must for calls that also return warnings, which are
// discarded.
//
// Example:
//
//	data := photopages.MustWarn(photopages.Import("a.jpg").Bytes())
func MustWarn[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
