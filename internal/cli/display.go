package cli

import (
	"fmt"
	"io"
	"sort"
)

// writeCatalog prints a two-column name/description listing with aligned
// columns, used for --list-queries and --list-formats.
func writeCatalog(w io.Writer, title string, entries map[string]string) {
	const gutter = 4

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	width := len(title) + gutter
	for _, name := range names {
		if len(name)+gutter > width {
			width = len(name) + gutter
		}
	}

	fmt.Fprintf(w, "%-*s%s\n", width, title, "Description")
	for _, name := range names {
		fmt.Fprintf(w, "%-*s%s\n", width, name, entries[name])
	}
}
