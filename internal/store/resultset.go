package store

// ResultSet is an immutable snapshot of a completed query: ordered column
// headers plus ordered rows of string cells. A ResultSet is never
// constructed for a zero-row result; callers receive nil instead, which is
// intentionally indistinguishable from "the query produced nothing".
type ResultSet struct {
	headers []string
	data    [][]string
}

// NewResultSet snapshots headers and rows. The executor is the only
// producer inside this package; the constructor is exported for
// collaborators that need to fabricate result sets, tests chiefly.
func NewResultSet(headers []string, data [][]string) *ResultSet {
	h := make([]string, len(headers))
	copy(h, headers)
	d := make([][]string, len(data))
	for i, row := range data {
		d[i] = make([]string, len(row))
		copy(d[i], row)
	}
	return &ResultSet{headers: h, data: d}
}

// Headers returns a copy of the column names, in the order the engine
// reported them for the first fetched row.
func (rs *ResultSet) Headers() []string {
	out := make([]string, len(rs.headers))
	copy(out, rs.headers)
	return out
}

// Rows returns the number of rows in the snapshot.
func (rs *ResultSet) Rows() int {
	return len(rs.data)
}

// Columns returns the number of columns in the snapshot.
func (rs *ResultSet) Columns() int {
	return len(rs.headers)
}

// Row returns a copy of row i.
func (rs *ResultSet) Row(i int) []string {
	out := make([]string, len(rs.data[i]))
	copy(out, rs.data[i])
	return out
}

// Cell returns the value at row i, column j.
func (rs *ResultSet) Cell(i, j int) string {
	return rs.data[i][j]
}
