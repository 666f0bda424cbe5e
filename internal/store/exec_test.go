package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func seedWidgets(t *testing.T, db *Database, names ...string) {
	t.Helper()
	for _, name := range names {
		if id := db.Insert(&testRecord{table: "widgets", cols: map[string]string{"name": Quote(name)}}); id == 0 {
			t.Fatalf("failed to seed widget %q", name)
		}
	}
}

func TestExec_ZeroRowsReturnsNil(t *testing.T) {
	db, exits := openTestDB(t)

	rs := db.Exec("select * from widgets;", 0, false)
	if rs != nil {
		t.Errorf("Exec() on empty table = %v, want nil", rs)
	}
	if *exits != 0 {
		t.Errorf("Exec() hit %d fatal exits", *exits)
	}
}

func TestExec_HeadersMatchColumnOrder(t *testing.T) {
	db, _ := openTestDB(t)
	seedWidgets(t, db, "a")

	rs := db.Exec("select note, name, id from widgets;", 0, false)
	if rs == nil {
		t.Fatal("Exec() returned nil")
	}
	want := []string{"note", "name", "id"}
	got := rs.Headers()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Headers() = %v, want %v", got, want)
		}
	}
}

func TestExec_LimitTruncates(t *testing.T) {
	db, _ := openTestDB(t)
	seedWidgets(t, db, "a", "b", "c", "d", "e")

	rs := db.Exec("select name from widgets order by id;", 2, false)
	if rs == nil || rs.Rows() != 2 {
		t.Fatalf("Exec(limit=2) returned %v", rs)
	}
	if rs.Cell(0, 0) != "a" || rs.Cell(1, 0) != "b" {
		t.Errorf("rows = %q, %q, want a, b", rs.Cell(0, 0), rs.Cell(1, 0))
	}
}

func TestExec_ReverseAppliesAfterLimit(t *testing.T) {
	db, _ := openTestDB(t)
	seedWidgets(t, db, "a", "b", "c", "d", "e")

	rs := db.Exec("select name from widgets order by id;", 2, true)
	if rs == nil || rs.Rows() != 2 {
		t.Fatalf("Exec(limit=2, reverse) returned %v", rs)
	}
	// The first two collected rows, reversed; never the last two.
	if rs.Cell(0, 0) != "b" || rs.Cell(1, 0) != "a" {
		t.Errorf("rows = %q, %q, want b, a", rs.Cell(0, 0), rs.Cell(1, 0))
	}
}

func TestExec_UnlimitedWhenLimitNonPositive(t *testing.T) {
	db, _ := openTestDB(t)
	seedWidgets(t, db, "a", "b", "c")

	for _, limit := range []int{0, -1} {
		rs := db.Exec("select name from widgets;", limit, false)
		if rs == nil || rs.Rows() != 3 {
			t.Errorf("Exec(limit=%d) returned %v, want 3 rows", limit, rs)
		}
	}
}

func TestExec_ConstraintViolationIsSilentlyNoResult(t *testing.T) {
	db, exits := openTestDB(t)
	seedWidgets(t, db, "dup")

	rs := db.Exec("INSERT INTO widgets (name) VALUES ('dup');", 0, false)
	if rs != nil {
		t.Errorf("constraint violation returned %v, want nil", rs)
	}
	if *exits != 0 {
		t.Errorf("constraint violation caused %d fatal exits, want 0", *exits)
	}
	// The original row is untouched.
	rs = db.Exec("select count(*) from widgets where name = 'dup';", 0, false)
	if rs == nil || rs.Cell(0, 0) != "1" {
		t.Errorf("duplicate row count = %v, want 1", rs)
	}
}

func TestExec_MalformedSQLIsFatal(t *testing.T) {
	db, exits := openTestDB(t)

	rs := db.Exec("select * from no_such_table;", 0, false)
	if rs != nil {
		t.Errorf("malformed SQL returned %v", rs)
	}
	if *exits == 0 {
		t.Error("malformed SQL did not record a fatal exit")
	}
}

// lockStore opens a second connection to path and takes the write lock,
// simulating another logger process in the middle of a write. The returned
// release func commits and closes.
func lockStore(t *testing.T, path string) (release func()) {
	t.Helper()
	raw, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open locking connection: %v", err)
	}
	conn, err := raw.Conn(context.Background())
	if err != nil {
		t.Fatalf("failed to pin locking connection: %v", err)
	}
	if _, err := conn.ExecContext(context.Background(), "BEGIN IMMEDIATE;"); err != nil {
		t.Fatalf("failed to take write lock: %v", err)
	}
	return func() {
		conn.ExecContext(context.Background(), "COMMIT;")
		conn.Close()
		raw.Close()
	}
}

func TestExec_RetriesThroughContention(t *testing.T) {
	log, exits := newTestLogger()
	path := filepath.Join(t.TempDir(), "history.db")
	db := Open(path, widgetsRegistry(), Options{
		MaxRetries: 20,
		FixedDelay: 10 * time.Millisecond,
		Log:        log,
	})
	defer db.Close()

	release := lockStore(t, path)
	go func() {
		time.Sleep(50 * time.Millisecond)
		release()
	}()

	db.Exec("INSERT INTO widgets (name) VALUES ('contended');", 0, false)
	if *exits != 0 {
		t.Fatalf("contended insert hit %d fatal exits", *exits)
	}

	rs := db.Exec("select count(*) from widgets where name = 'contended';", 0, false)
	if rs == nil || rs.Cell(0, 0) != "1" {
		t.Errorf("contended insert did not land: %v", rs)
	}
}

func TestExec_ContentionExhaustionIsFatal(t *testing.T) {
	log, exits := newTestLogger()
	path := filepath.Join(t.TempDir(), "history.db")
	db := Open(path, widgetsRegistry(), Options{
		MaxRetries: 2,
		FixedDelay: time.Millisecond,
		Log:        log,
	})
	defer db.Close()

	release := lockStore(t, path)
	defer release()

	rs := db.Exec("INSERT INTO widgets (name) VALUES ('starved');", 0, false)
	if rs != nil {
		t.Errorf("exhausted insert returned %v", rs)
	}
	if *exits == 0 {
		t.Error("retry exhaustion did not record a fatal exit")
	}
}

func TestExec_InsertThenSelectByID(t *testing.T) {
	db, _ := openTestDB(t)

	id := db.Insert(&testRecord{table: "gadgets", cols: map[string]string{"label": Quote("probe")}})
	rs := db.Exec(fmt.Sprintf("select label from gadgets where id = %d;", id), 0, false)
	if rs == nil || rs.Rows() != 1 || rs.Cell(0, 0) != "probe" {
		t.Errorf("select by inserted id returned %v", rs)
	}
}
