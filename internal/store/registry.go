package store

import "strings"

// Registry maps table names to the DDL statements that create them.
//
// Each record kind registers its table during process start-up, before the
// first Database is opened. Schema bootstrap runs once, at open time, by
// comparing the registry against the tables already present in the file, so
// a registry mutated after Open would never be reconciled.
type Registry struct {
	names []string
	ddl   map[string]string
}

// NewRegistry returns an empty table registry.
func NewRegistry() *Registry {
	return &Registry{ddl: make(map[string]string)}
}

// Register adds a table and its creation statement, preserving registration
// order. Registering a name that is already present is a no-op.
func (r *Registry) Register(name, createSQL string) {
	if _, ok := r.ddl[name]; ok {
		return
	}
	r.names = append(r.names, name)
	r.ddl[name] = createSQL
}

// Names returns the registered table names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered tables.
func (r *Registry) Len() int {
	return len(r.names)
}

// CreateScript returns the script that bootstraps a fresh store: every
// registered creation statement, wrapped in a single transaction with
// foreign-key checks disabled. The schema is intentionally flat; no
// cross-table constraints are enforced at the engine level.
func (r *Registry) CreateScript() string {
	var b strings.Builder
	b.WriteString("PRAGMA foreign_keys=OFF;\n")
	b.WriteString("BEGIN TRANSACTION;\n")
	for _, name := range r.names {
		b.WriteString(r.ddl[name])
		b.WriteString(";\n")
	}
	b.WriteString("COMMIT;\n")
	return b.String()
}
