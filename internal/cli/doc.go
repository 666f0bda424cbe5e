// Package cli defines the cobra commands behind the two binaries: ashlog,
// which shell hooks invoke to record sessions and commands, and ashquery,
// which runs saved or ad-hoc queries against the history database and
// renders the results.
//
// The store's contract is binary (a ResultSet or a fatal diagnostic that
// has already terminated the process), so errors surfacing here are the
// recoverable kind: missing configuration, unknown query or format names,
// unreadable query files. They are returned to main, printed, and mapped
// to a nonzero exit status.
package cli
