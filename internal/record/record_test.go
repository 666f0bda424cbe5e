package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ash/internal/store"
)

func TestRegisterTables(t *testing.T) {
	reg := store.NewRegistry()
	RegisterTables(reg)

	assert.Equal(t, []string{SessionsTable, CommandsTable}, reg.Names())

	script := reg.CreateScript()
	assert.Contains(t, script, "CREATE TABLE IF NOT EXISTS sessions")
	assert.Contains(t, script, "CREATE TABLE IF NOT EXISTS commands")
	assert.Contains(t, script, "UNIQUE(session_id, command_no)")
}

func TestRegisterTables_Idempotent(t *testing.T) {
	reg := store.NewRegistry()
	RegisterTables(reg)
	RegisterTables(reg)
	assert.Equal(t, 2, reg.Len())
}

func TestEnvLit(t *testing.T) {
	t.Setenv("ASH_TEST_VALUE", "o'brien")
	assert.Equal(t, "'o''brien'", envLit("ASH_TEST_VALUE"))

	t.Setenv("ASH_TEST_VALUE", "")
	assert.Equal(t, "null", envLit("ASH_TEST_VALUE"))
}

func TestEnvIntLit(t *testing.T) {
	t.Setenv("ASH_TEST_INT", "42")
	assert.Equal(t, "42", envIntLit("ASH_TEST_INT"))

	t.Setenv("ASH_TEST_INT", "not a number")
	assert.Equal(t, "null", envIntLit("ASH_TEST_INT"))

	t.Setenv("ASH_TEST_INT", "")
	assert.Equal(t, "null", envIntLit("ASH_TEST_INT"))
}

func TestNewSession_Columns(t *testing.T) {
	t.Setenv("SUDO_USER", "")
	t.Setenv("SSH_CLIENT", "10.0.0.5 50000 22")

	s := NewSession()
	cols := s.Columns()

	assert.Equal(t, SessionsTable, s.TableName())
	for _, name := range []string{
		"time_zone", "start_time", "ppid", "pid", "tty", "uid", "euid",
		"logname", "hostname", "host_ip", "shell", "sudo_user", "sudo_uid",
		"ssh_client", "ssh_connection",
	} {
		assert.Contains(t, cols, name)
	}

	assert.Regexp(t, `^\d+$`, cols["start_time"])
	assert.Regexp(t, `^\d+$`, cols["uid"])
	assert.Equal(t, "null", cols["sudo_user"])
	assert.Equal(t, "'10.0.0.5 50000 22'", cols["ssh_client"])
}

func TestNewCommand_Columns(t *testing.T) {
	t.Setenv("ASH_SESSION_ID", "7")
	t.Setenv("SHLVL", "2")

	c := NewCommand(CommandInfo{
		Command:    "grep -r 'needle' . | wc -l",
		ExitCode:   1,
		StartTime:  1000,
		EndTime:    1003,
		Number:     512,
		PipeStatus: "1_0",
	})
	cols := c.Columns()

	assert.Equal(t, CommandsTable, c.TableName())
	assert.Equal(t, "7", cols["session_id"])
	assert.Equal(t, "2", cols["shell_level"])
	assert.Equal(t, "512", cols["command_no"])
	assert.Equal(t, "1", cols["rval"])
	assert.Equal(t, "1000", cols["start_time"])
	assert.Equal(t, "1003", cols["end_time"])
	assert.Equal(t, "3", cols["duration"])
	assert.Equal(t, "2", cols["pipe_cnt"])
	assert.Equal(t, "'1_0'", cols["pipe_vals"])
	assert.Equal(t, "'grep -r ''needle'' . | wc -l'", cols["command"])
}

func TestNewCommand_SuccessfulCdRecordsOldPwd(t *testing.T) {
	t.Setenv("OLDPWD", "/home/someone/src")

	c := NewCommand(CommandInfo{Command: "cd /tmp", ExitCode: 0})
	assert.Equal(t, "'/home/someone/src'", c.Columns()["cwd"])
}

func TestNewCommand_FailedCdRecordsCwd(t *testing.T) {
	t.Setenv("OLDPWD", "/home/someone/src")

	c := NewCommand(CommandInfo{Command: "cd /nope", ExitCode: 1})
	cwd := c.Columns()["cwd"]
	assert.NotEqual(t, "'/home/someone/src'", cwd)
	assert.True(t, strings.HasPrefix(cwd, "'"), "cwd should be a quoted literal: %q", cwd)
}

func TestCloseSessionSQL(t *testing.T) {
	sql := CloseSessionSQL(7)
	require.Contains(t, sql, "UPDATE sessions")
	assert.Contains(t, sql, "end_time = ")
	assert.Contains(t, sql, "duration = ")
	assert.Contains(t, sql, "WHERE id == 7")
}

func TestNewCommand_RendersSingleInsert(t *testing.T) {
	t.Setenv("ASH_SESSION_ID", "1")
	t.Setenv("SHLVL", "1")

	c := NewCommand(CommandInfo{Command: "ls", StartTime: 1, EndTime: 1})
	sql := store.InsertSQL(c)
	assert.True(t, strings.HasPrefix(sql, "INSERT INTO commands ("), sql)

	// Column names and values line up positionally: both lists are
	// rendered in the same sorted order.
	assert.Less(t, strings.Index(sql, "command,"), strings.Index(sql, "command_no"))
}
