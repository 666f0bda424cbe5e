package record

import (
	"os"
	"strconv"

	"github.com/roach88/ash/internal/store"
)

// RegisterTables registers every record kind's table with reg. It must run
// before the first store.Open so that schema bootstrap sees the complete
// registry.
func RegisterTables(reg *store.Registry) {
	reg.Register(SessionsTable, sessionsDDL)
	reg.Register(CommandsTable, commandsDDL)
}

// envLit renders an environment variable as a quoted SQL literal; an unset
// or empty variable becomes null.
func envLit(key string) string {
	return store.Quote(os.Getenv(key))
}

// envIntLit renders an environment variable as a bare integer literal, or
// null when it is unset or not a number.
func envIntLit(key string) string {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return "null"
	}
	return strconv.Itoa(n)
}
