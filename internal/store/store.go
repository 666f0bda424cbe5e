package store

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Options configure a Database. The zero value gives the defaults: five
// retries, no delay and no jitter between them, diagnostics to the
// standard logger.
type Options struct {
	// MaxRetries bounds how often a contended statement is retried before
	// the process gives up. Values below one fall back to 5.
	MaxRetries int

	// FixedDelay is slept before every retry.
	FixedDelay time.Duration

	// MaxJitter adds a random duration in [0, MaxJitter) on top of
	// FixedDelay to desynchronize competing processes.
	MaxJitter time.Duration

	Log logrus.FieldLogger
}

// Database owns the single connection to the backing SQLite file for the
// lifetime of the process. It is not shared: the concurrency model is one
// connection per process, one process per shell hook invocation.
type Database struct {
	path       string
	db         *sql.DB
	maxRetries int
	backoff    *Backoff
	log        logrus.FieldLogger
}

// Open creates the backing file if needed, opens a connection to it and
// bootstraps the schema from reg when tables are missing. A file that can
// neither be created nor opened is fatal: a history logger without a
// writable store has no useful behavior, so there is no recovery path.
//
// The connection pool is pinned to a single connection so that
// last_insert_rowid() is coherent with the preceding insert, and the
// driver's own busy handler is disabled so the retry layer here owns all
// contention handling.
func Open(path string, reg *Registry, opts Options) *Database {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}

	if _, err := os.Stat(path); err != nil {
		f, err := os.Create(path)
		if err != nil {
			log.Fatalf("failed to create new store file %s: %v", path, err)
			return nil
		}
		f.Close()
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=0")
	if err != nil {
		log.Fatalf("failed to open %s: %v", path, err)
		return nil
	}
	if err := db.Ping(); err != nil {
		db.Close()
		log.Fatalf("failed to open %s: %v", path, err)
		return nil
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &Database{
		path:       path,
		db:         db,
		maxRetries: maxRetries,
		backoff:    NewBackoff(opts.FixedDelay, opts.MaxJitter, maxRetries, log),
		log:        log,
	}
	// A fatal diagnostic anywhere in the process must still release the
	// connection before exiting.
	logrus.DeferExitHandler(d.Close)

	d.bootstrap(reg)
	return d
}

// Close releases the connection. It is idempotent and safe to call on an
// already-closed Database.
func (d *Database) Close() {
	if d.db != nil {
		d.db.Close()
		d.db = nil
	}
}

// Path returns the backing file path.
func (d *Database) Path() string {
	return d.path
}

// bootstrap counts how many registered tables already exist and creates the
// full schema when some are missing. A store with more matching tables than
// the registry knows about has drifted (written by an older or newer
// version); that only warrants a warning.
func (d *Database) bootstrap(reg *Registry) {
	if reg == nil || reg.Len() == 0 {
		return
	}

	names := reg.Names()
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = Quote(name)
	}
	query := fmt.Sprintf(
		"select count(*) as table_count from sqlite_master "+
			"where type = 'table' and tbl_name in (%s);",
		strings.Join(quoted, ", "))

	defined := 0
	if rs := d.Exec(query, 0, false); rs != nil && rs.Rows() == 1 {
		defined, _ = strconv.Atoi(rs.Cell(0, 0))
	}

	switch {
	case defined == reg.Len():
		// Steady state.
	case defined < reg.Len():
		script := reg.CreateScript()
		if _, err := d.db.Exec(script); err != nil {
			d.log.Errorf("failed to create tables:\n%s\nerror: %v", script, err)
		}
	default:
		d.log.Warnf("expected %d tables to be defined, found %d instead", reg.Len(), defined)
	}
}

// Insert writes rec and returns the engine-assigned identifier of the new
// row. The identifier read is coherent because the pool holds exactly one
// connection.
func (d *Database) Insert(rec Record) int64 {
	if rec == nil {
		return 0
	}
	d.Exec(InsertSQL(rec), 0, false)

	rs := d.Exec("select last_insert_rowid();", 0, false)
	if rs == nil || rs.Rows() != 1 {
		return 0
	}
	id, err := strconv.ParseInt(rs.Cell(0, 0), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
