package record

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/ash/internal/osinfo"
	"github.com/roach88/ash/internal/store"
)

// CommandsTable backs Command records.
const CommandsTable = "commands"

const commandsDDL = `CREATE TABLE IF NOT EXISTS commands (
  id integer primary key autoincrement,
  session_id integer not null,
  shell_level integer not null,
  command_no integer,
  tty varchar(20) not null,
  euid int(16) not null,
  cwd varchar(256) not null,
  rval int(5) not null,
  start_time integer not null,
  end_time integer not null,
  duration integer not null,
  pipe_cnt int(3),
  pipe_vals varchar(80),
  command varchar(1000) not null,
UNIQUE(session_id, command_no)
)`

// CommandInfo carries the facts the shell hook reports about one executed
// command. PipeStatus is the pipeline's exit codes joined with underscores,
// e.g. "0_1_0".
type CommandInfo struct {
	Command    string
	ExitCode   int
	StartTime  int64
	EndTime    int64
	Number     int
	PipeStatus string
}

// Command is one executed shell command, tied to its session via the
// ASH_SESSION_ID environment variable the hooks export.
type Command struct {
	cols map[string]string
}

// NewCommand builds a Command from the shell-reported info plus process
// metadata. Command text is NFC-normalized before quoting so equivalent
// input sequences store identically.
func NewCommand(info CommandInfo) *Command {
	command := norm.NFC.String(info.Command)

	// A successful cd has already changed this process's directory by the
	// time the hook fires; the directory the command ran in is OLDPWD.
	var cwd string
	if info.ExitCode == 0 && strings.HasPrefix(command, "cd") {
		cwd = os.Getenv("OLDPWD")
	} else {
		cwd = osinfo.CWD()
	}

	pipeCount := strings.Count(info.PipeStatus, "_") + 1

	return &Command{cols: map[string]string{
		"session_id":  envIntLit("ASH_SESSION_ID"),
		"shell_level": envIntLit("SHLVL"),
		"command_no":  strconv.Itoa(info.Number),
		"tty":         store.Quote(osinfo.TTY()),
		"euid":        strconv.Itoa(osinfo.EUID()),
		"cwd":         store.Quote(cwd),
		"rval":        strconv.Itoa(info.ExitCode),
		"start_time":  strconv.FormatInt(info.StartTime, 10),
		"end_time":    strconv.FormatInt(info.EndTime, 10),
		"duration":    strconv.FormatInt(info.EndTime-info.StartTime, 10),
		"pipe_cnt":    strconv.Itoa(pipeCount),
		"pipe_vals":   store.Quote(info.PipeStatus),
		"command":     store.Quote(command),
	}}
}

// TableName returns the backing table.
func (c *Command) TableName() string { return CommandsTable }

// Columns returns the column-to-literal mapping. The map must not be
// mutated by callers.
func (c *Command) Columns() map[string]string { return c.cols }
