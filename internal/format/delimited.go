package format

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/roach88/ash/internal/store"
)

// delimitedFormatter joins columns with a fixed delimiter, one line per
// row. Used for the null format, whose NUL delimiter cannot appear in
// stored values (unprintable bytes are stripped at quoting time).
type delimitedFormatter struct {
	name         string
	description  string
	delimiter    string
	showHeadings bool
}

func (f *delimitedFormatter) Name() string        { return f.name }
func (f *delimitedFormatter) Description() string { return f.description }

func (f *delimitedFormatter) Format(rs *store.ResultSet, w io.Writer) error {
	if f.showHeadings {
		if _, err := io.WriteString(w, strings.Join(rs.Headers(), f.delimiter)+"\n"); err != nil {
			return err
		}
	}
	for r := 0; r < rs.Rows(); r++ {
		if _, err := io.WriteString(w, strings.Join(rs.Row(r), f.delimiter)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// csvFormatter emits RFC 4180 CSV, quoting cells that need it.
type csvFormatter struct {
	showHeadings bool
}

func (f *csvFormatter) Name() string { return "csv" }

func (f *csvFormatter) Description() string {
	return "Columns are comma separated with strings quoted."
}

func (f *csvFormatter) Format(rs *store.ResultSet, w io.Writer) error {
	cw := csv.NewWriter(w)
	if f.showHeadings {
		if err := cw.Write(rs.Headers()); err != nil {
			return err
		}
	}
	for r := 0; r < rs.Rows(); r++ {
		if err := cw.Write(rs.Row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
