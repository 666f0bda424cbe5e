package store

import (
	"strings"
	"unicode"
)

// Quote renders a raw value as a SQL string literal suitable for direct
// inclusion in a statement.
//
// An empty input becomes the bare null keyword. Otherwise the value is
// wrapped in single quotes, embedded single quotes are doubled, and runes
// that are not printable are dropped. Tab and newline are the exception:
// both pass through unescaped and unmodified.
//
// Record kinds quote every field at construction time, so a column map
// never holds a raw, unescaped value.
func Quote(raw string) string {
	if raw == "" {
		return "null"
	}
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range raw {
		switch r {
		case '\n', '\t':
			b.WriteRune(r)
		case '\'':
			b.WriteString("''")
		default:
			if unicode.IsPrint(r) {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}
