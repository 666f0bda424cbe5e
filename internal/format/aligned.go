package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/ash/internal/store"
)

type alignedFormatter struct {
	showHeadings bool
}

func (f *alignedFormatter) Name() string { return "aligned" }

func (f *alignedFormatter) Description() string {
	return "Columns are aligned and separated with spaces."
}

func (f *alignedFormatter) Format(rs *store.ResultSet, w io.Writer) error {
	widths := columnWidths(rs, f.showHeadings)

	if f.showHeadings {
		if err := writeAligned(w, rs.Headers(), widths); err != nil {
			return err
		}
	}
	for r := 0; r < rs.Rows(); r++ {
		if err := writeAligned(w, rs.Row(r), widths); err != nil {
			return err
		}
	}
	return nil
}

// writeAligned pads every cell but the last to its column width, so no row
// carries trailing spaces.
func writeAligned(w io.Writer, cells []string, widths []int) error {
	var b strings.Builder
	for c, cell := range cells {
		if c < len(cells)-1 {
			fmt.Fprintf(&b, "%-*s", widths[c], cell)
		} else {
			b.WriteString(cell)
		}
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// columnWidths computes per-column widths: the widest cell plus the
// gutter, capped for very wide cells, and including the heading when shown.
func columnWidths(rs *store.ResultSet, showHeadings bool) []int {
	widths := make([]int, rs.Columns())
	for c, h := range rs.Headers() {
		if showHeadings {
			widths[c] = gutter + len(h)
		} else {
			widths[c] = gutter
		}
	}
	for r := 0; r < rs.Rows(); r++ {
		for c := 0; c < rs.Columns(); c++ {
			w := gutter + len(rs.Cell(r, c))
			if w > gutter+maxCellWidth {
				w = gutter + maxCellWidth
			}
			if w > widths[c] {
				widths[c] = w
			}
		}
	}
	return widths
}
