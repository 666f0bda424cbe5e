package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/ash/internal/store"
)

// groupedFormatter collapses repeated values in the leading columns,
// printing each distinct value once as a group header with the remaining
// columns indented beneath it.
type groupedFormatter struct {
	showHeadings bool
}

func (f *groupedFormatter) Name() string { return "auto" }

func (f *groupedFormatter) Description() string {
	return "Automatically group redundant values."
}

func (f *groupedFormatter) Format(rs *store.ResultSet, w io.Writer) error {
	widths := columnWidths(rs, f.showHeadings)
	levels := groupedLevelCount(rs, widths)
	cols := rs.Columns()

	var b strings.Builder
	writeIndent := func(depth int) {
		for i := 0; i < depth; i++ {
			b.WriteString("    ")
		}
	}

	if f.showHeadings {
		for c, h := range rs.Headers() {
			if c < levels {
				b.WriteString(h)
				b.WriteByte('\n')
				writeIndent(c + 1)
			} else if c < cols-1 {
				fmt.Fprintf(&b, "%-*s", widths[c], h)
			} else {
				b.WriteString(h)
			}
		}
		b.WriteByte('\n')
	}

	prev := make([]string, levels)
	for r := 0; r < rs.Rows(); r++ {
		for c := 0; c < cols; c++ {
			value := rs.Cell(r, c)
			if c < levels {
				if value != prev[c] || r == 0 {
					b.WriteString(value)
					if c < cols-1 {
						b.WriteByte('\n')
						writeIndent(c + 1)
						// A new group invalidates every nested group below it.
						for i := c; i < levels; i++ {
							prev[i] = ""
						}
					}
					prev[c] = value
				} else {
					b.WriteString("    ")
				}
			} else if c < cols-1 {
				fmt.Fprintf(&b, "%-*s", widths[c], value)
			} else {
				b.WriteString(value)
			}
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// groupedLevelCount decides how many leading columns to group. Grouping a
// column trades rows for width: each distinct run of values adds a line,
// while the grouped column's width leaves the regular grid. The simulated
// printed area is computed for each successive grouping depth and the
// rightmost depth with the minimum area wins; depth 0 means grouping does
// not pay at all.
func groupedLevelCount(rs *store.ResultSet, widths []int) int {
	width := 0
	for _, cw := range widths {
		width += cw
	}
	length := rs.Rows()
	minArea := length * width

	areas := make([]int, rs.Columns())
	for i := range areas {
		areas[i] = width * length
	}

	for c := 0; c < rs.Columns(); c++ {
		prev := ""
		for r := 0; r < rs.Rows(); r++ {
			if prev != rs.Cell(r, c) {
				length++
				prev = rs.Cell(r, c)
			}
		}
		if width-widths[c] > widths[c] {
			width -= widths[c]
		} else {
			width = widths[c]
		}
		width += gutter * (c + 1)
		if area := length * width; area < minArea {
			minArea = area
		}
		if c < rs.Columns()-1 {
			areas[c+1] = width * length
		}
	}

	for c := rs.Columns(); c > 0; c-- {
		if areas[c-1] == minArea {
			return c - 1
		}
	}
	return 0
}
