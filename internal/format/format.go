// Package format renders query ResultSets for display.
//
// Formats mirror the shell tool's historical surface: aligned
// (space-padded columns), csv, null (NUL-delimited, for scripting), auto
// (repeated leading values grouped away), plus table (bordered ASCII
// table). Formatters receive an immutable ResultSet and never see a
// zero-row result; the caller handles the nil case.
package format

import (
	"io"
	"sort"

	"github.com/roach88/ash/internal/store"
)

// Formatter writes a ResultSet to an output stream.
type Formatter interface {
	Name() string
	Description() string
	Format(rs *store.ResultSet, w io.Writer) error
}

// gutter is the number of spaces between aligned columns.
const gutter = 4

// maxCellWidth caps the width contribution of very wide cells in aligned
// output.
const maxCellWidth = 80

// Lookup returns the named formatter, configured to show or hide column
// headings. The second return is false for an unknown name.
func Lookup(name string, showHeadings bool) (Formatter, bool) {
	switch name {
	case "aligned":
		return &alignedFormatter{showHeadings: showHeadings}, true
	case "csv":
		return &csvFormatter{showHeadings: showHeadings}, true
	case "null":
		return &delimitedFormatter{
			name:         "null",
			description:  "Columns are null separated.",
			delimiter:    "\x00",
			showHeadings: showHeadings,
		}, true
	case "auto":
		return &groupedFormatter{showHeadings: showHeadings}, true
	case "table":
		return &tableFormatter{showHeadings: showHeadings}, true
	}
	return nil, false
}

// Descriptions maps each format name to its one-line description.
func Descriptions() map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		f, _ := Lookup(name, true)
		out[name] = f.Description()
	}
	return out
}

// Names returns the available format names, sorted.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}

var names = []string{"aligned", "csv", "null", "auto", "table"}
