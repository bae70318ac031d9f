package assemble

import (
	"fmt"
	"strings"
)

// Stage names the step of the per-item pipeline that failed.
type Stage string

// Pipeline stages, in order.
const (
	StageDecode Stage = "decode"
	StageRotate Stage = "rotate"
	StageLayout Stage = "layout"
	StageEncode Stage = "encode"
	StageEmbed  Stage = "embed"
)

// AssemblyError reports one item that could not be placed in the document.
// The item contributes no section.
type AssemblyError struct {
	Index  int    // Position of the item in the input list
	Source string // Item source reference
	Stage  Stage
	Err    error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("item %d (%s): %s: %v", e.Index, e.Source, e.Stage, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// ItemErrors collects the per-item failures of one assembly run.
type ItemErrors []*AssemblyError

func (e ItemErrors) Error() string {
	switch len(e) {
	case 0:
		return "no errors"
	case 1:
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d items failed: %s", len(e), strings.Join(msgs, "; "))
}

// Unwrap exposes every item error to errors.Is and errors.As.
func (e ItemErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// Indexes returns the input positions of the failed items.
func (e ItemErrors) Indexes() []int {
	idx := make([]int, len(e))
	for i, err := range e {
		idx[i] = err.Index
	}
	return idx
}

// SaveError reports a document that could not be written. The destination is
// left as it was and the document can be saved again.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("saving %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}
