package store

import (
	"database/sql"
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// execState tracks progress of a single Exec call. The retry logic is an
// explicit state machine: contention sends the executor through Retrying
// back to Preparing with the row buffer discarded, so a partial result
// gathered before a lock error is never surfaced.
type execState int

const (
	statePreparing execState = iota
	stateFetching
	stateRetrying
	stateDone
)

// isContention reports whether the engine signalled busy or locked, the
// transient condition produced by another process holding the file lock.
func isContention(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrBusy || serr.Code == sqlite3.ErrLocked
	}
	return false
}

// isConstraint reports whether the engine rejected the statement for a
// constraint violation. This is a data-level error; retrying cannot help.
func isConstraint(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrConstraint
	}
	return false
}

// prepare compiles query into an executable statement. While the engine
// reports contention the compile is retried, up to the configured budget;
// exhausting the budget is fatal. Any other compile failure indicates
// malformed SQL rather than a transient condition and is immediately fatal.
func (d *Database) prepare(query string) *sql.Stmt {
	tries := d.maxRetries
	for {
		stmt, err := d.db.Prepare(query)
		if err == nil {
			return stmt
		}
		if !isContention(err) {
			d.log.WithField("sql", query).Fatalf("unexpected error preparing statement: %v", err)
			return nil
		}
		d.log.Debug("store is busy while preparing a statement")
		if tries--; tries <= 0 {
			d.log.Fatalf("failed to prepare statement after %d failed attempts", d.maxRetries)
			return nil
		}
		d.backoff.Wait()
	}
}

// Exec runs query to completion and materializes the produced rows.
//
// When limit is positive, fetching stops once limit rows are buffered;
// limit <= 0 means unlimited. When reverse is set, the collected rows are
// reversed after limit truncation, not before. A nil return means no rows:
// either the query produced none or it failed a constraint check, and the
// two are deliberately indistinguishable.
//
// Contention discards any buffered rows, backs off, re-prepares the same
// SQL from scratch and resumes, up to the configured retry budget. Budget
// exhaustion and every unclassified engine response are fatal.
func (d *Database) Exec(query string, limit int, reverse bool) *ResultSet {
	tries := d.maxRetries

	var (
		stmt    *sql.Stmt
		rows    *sql.Rows
		headers []string
		data    [][]string
	)
	release := func() {
		if rows != nil {
			rows.Close()
			rows = nil
		}
		if stmt != nil {
			stmt.Close()
			stmt = nil
		}
	}
	defer release()

	for state := statePreparing; state != stateDone; {
		switch state {
		case statePreparing:
			if stmt = d.prepare(query); stmt == nil {
				return nil
			}
			var err error
			if rows, err = stmt.Query(); err != nil {
				switch {
				case isContention(err):
					state = stateRetrying
				case isConstraint(err):
					d.log.Debugf("constraint violation executing %q", query)
					state = stateDone
				default:
					release()
					d.log.WithField("sql", query).Fatalf("unexpected engine response: %v", err)
					return nil
				}
				break
			}
			state = stateFetching

		case stateFetching:
			if limit > 0 && len(data) >= limit {
				state = stateDone
				break
			}
			if !rows.Next() {
				err := rows.Err()
				switch {
				case err == nil:
					state = stateDone
				case isContention(err):
					state = stateRetrying
				case isConstraint(err):
					d.log.Debugf("constraint violation executing %q", query)
					state = stateDone
				default:
					release()
					d.log.WithField("sql", query).Fatalf("unexpected engine response: %v", err)
					return nil
				}
				break
			}
			if headers == nil {
				cols, err := rows.Columns()
				if err != nil {
					release()
					d.log.WithField("sql", query).Fatalf("failed to read column names: %v", err)
					return nil
				}
				headers = cols
			}
			cells, err := scanRow(rows, len(headers))
			if err != nil {
				release()
				d.log.WithField("sql", query).Fatalf("failed to scan row: %v", err)
				return nil
			}
			data = append(data, cells)

		case stateRetrying:
			release()
			headers, data = nil, nil
			if tries--; tries <= 0 {
				d.log.WithField("sql", query).Fatalf(
					"failed to unlock store: gave up after %d failures", d.maxRetries)
				return nil
			}
			d.backoff.Wait()
			d.log.Warnf("store was locked, tries remaining: %d", tries)
			state = statePreparing
		}
	}
	release()

	if len(data) == 0 {
		return nil
	}
	if reverse {
		for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
			data[i], data[j] = data[j], data[i]
		}
	}
	return NewResultSet(headers, data)
}

// scanRow reads the current row as text cells. NULL scans to the empty
// string, matching how absent values were quoted on the way in.
func scanRow(rows *sql.Rows, columns int) ([]string, error) {
	vals := make([]sql.NullString, columns)
	ptrs := make([]any, columns)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	cells := make([]string, columns)
	for i, v := range vals {
		if v.Valid {
			cells[i] = v.String
		}
	}
	return cells, nil
}
