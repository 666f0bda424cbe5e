package store

import (
	"fmt"
	"sort"
	"strings"
)

// Record is the capability every persistable row exposes: a table name and
// a column-to-literal mapping. Values in the map are pre-quoted SQL
// literals, escaped via Quote at construction time, never raw input. A
// Record is built immediately before insertion and not reused afterwards.
type Record interface {
	TableName() string
	Columns() map[string]string
}

// InsertSQL renders rec as a single-row INSERT statement.
//
// Column names are sorted before rendering so the generated SQL is
// reproducible. The order is cosmetic: the INSERT binds by explicit column
// name, not position, so any order would work as long as names and values
// line up.
func InsertSQL(rec Record) string {
	columns := rec.Columns()
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]string, len(names))
	for i, name := range names {
		values[i] = columns[name]
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s); ",
		rec.TableName(), strings.Join(names, ", "), strings.Join(values, ", "))
}
