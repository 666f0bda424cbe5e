// Package record defines the persistable record kinds: one shell session
// and one executed command. Each kind maps onto exactly one table and
// builds its column map once, at construction time, with every field
// already rendered as a SQL literal. Records are inserted immediately after
// construction and never mutated or reused.
package record
