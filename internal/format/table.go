package format

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/roach88/ash/internal/store"
)

// tableFormatter renders a bordered ASCII table.
type tableFormatter struct {
	showHeadings bool
}

func (f *tableFormatter) Name() string { return "table" }

func (f *tableFormatter) Description() string {
	return "Rows are rendered in a bordered table."
}

func (f *tableFormatter) Format(rs *store.ResultSet, w io.Writer) error {
	table := tablewriter.NewWriter(w)
	if f.showHeadings {
		table.SetHeader(rs.Headers())
	}
	for r := 0; r < rs.Rows(); r++ {
		table.Append(rs.Row(r))
	}
	table.Render()
	return nil
}
