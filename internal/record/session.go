package record

import (
	"fmt"
	"strconv"

	"github.com/roach88/ash/internal/osinfo"
	"github.com/roach88/ash/internal/store"
)

// SessionsTable backs Session records.
const SessionsTable = "sessions"

const sessionsDDL = `CREATE TABLE IF NOT EXISTS sessions (
  id integer primary key autoincrement,
  hostname varchar(128),
  host_ip varchar(40),
  ppid int(5) not null,
  pid int(5) not null,
  time_zone str(3) not null,
  start_time integer not null,
  end_time integer,
  duration integer,
  tty varchar(20) not null,
  uid int(16) not null,
  euid int(16) not null,
  logname varchar(48),
  shell varchar(50) not null,
  sudo_user varchar(48),
  sudo_uid int(16),
  ssh_client varchar(60),
  ssh_connection varchar(100)
)`

// Session is one interactive shell session, captured at session start.
// end_time and duration stay null until the session is closed.
type Session struct {
	cols map[string]string
}

// NewSession gathers host and process metadata for a session that is
// starting now.
func NewSession() *Session {
	return &Session{cols: map[string]string{
		"time_zone":      store.Quote(osinfo.TimeZone()),
		"start_time":     strconv.FormatInt(osinfo.Time(), 10),
		"ppid":           strconv.Itoa(osinfo.ShellPPID()),
		"pid":            strconv.Itoa(osinfo.ShellPID()),
		"tty":            store.Quote(osinfo.TTY()),
		"uid":            strconv.Itoa(osinfo.UID()),
		"euid":           strconv.Itoa(osinfo.EUID()),
		"logname":        store.Quote(osinfo.LoginName()),
		"hostname":       store.Quote(osinfo.Hostname()),
		"host_ip":        store.Quote(osinfo.HostIP()),
		"shell":          store.Quote(osinfo.Shell()),
		"sudo_user":      envLit("SUDO_USER"),
		"sudo_uid":       envIntLit("SUDO_UID"),
		"ssh_client":     envLit("SSH_CLIENT"),
		"ssh_connection": envLit("SSH_CONNECTION"),
	}}
}

// TableName returns the backing table.
func (s *Session) TableName() string { return SessionsTable }

// Columns returns the column-to-literal mapping. The map must not be
// mutated by callers.
func (s *Session) Columns() map[string]string { return s.cols }

// CloseSessionSQL returns the statement that finalizes session id: stamping
// its end time and computed duration.
func CloseSessionSQL(id int64) string {
	now := osinfo.Time()
	return fmt.Sprintf(
		"UPDATE sessions SET end_time = %d, duration = %d - start_time WHERE id == %d; ",
		now, now, id)
}
