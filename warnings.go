package photopages

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/photopages/assemble"
)

// Warning is a non-fatal problem: a path that was skipped on import, a
// photograph that could not be placed, or an optional feature that was
// unavailable.
type Warning struct {
	Index   int    // Position in the list, -1 when not tied to an item
	Source  string // Path or source reference, if any
	Message string
	Err     error
}

// String formats the warning on one line.
func (w Warning) String() string {
	var sb strings.Builder
	if w.Index >= 0 {
		fmt.Fprintf(&sb, "item %d: ", w.Index)
	}
	if w.Source != "" {
		sb.WriteString(w.Source)
		sb.WriteString(": ")
	}
	sb.WriteString(w.Message)
	if w.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(w.Err.Error())
	}
	return sb.String()
}

// FormatWarnings joins warnings into a single line.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

// Skipped returns the list positions of items that produced no page.
func Skipped(warnings []Warning) []int {
	var out []int
	for _, w := range warnings {
		if w.Index >= 0 {
			out = append(out, w.Index)
		}
	}
	return out
}

// itemWarnings converts per-item assembly failures.
func itemWarnings(err error) ([]Warning, bool) {
	var failures assemble.ItemErrors
	if !errors.As(err, &failures) {
		return nil, false
	}
	out := make([]Warning, len(failures))
	for i, f := range failures {
		out[i] = Warning{
			Index:   f.Index,
			Source:  f.Source,
			Message: string(f.Stage) + " failed",
			Err:     f.Err,
		}
	}
	return out, true
}

func pathWarning(path, msg string, err error) Warning {
	return Warning{Index: -1, Source: path, Message: msg, Err: err}
}
