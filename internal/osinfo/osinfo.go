// Package osinfo collects host and process metadata recorded alongside
// sessions and commands: hostname, tty, uids, working directory, the
// invoking shell, and so on. Values are returned raw; quoting for SQL
// happens where record fields are assigned. An empty string means the
// value could not be determined.
package osinfo

import (
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Hostname returns the machine's hostname.
func Hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}

// HostIP returns the first address the hostname resolves to.
func HostIP() string {
	addrs, err := net.LookupHost(Hostname())
	if err != nil || len(addrs) == 0 {
		return ""
	}
	return addrs[0]
}

// TTY returns the terminal device connected to stdin.
func TTY() string {
	tty, err := os.Readlink("/proc/self/fd/0")
	if err != nil {
		return ""
	}
	return tty
}

// UID returns the real user id of this process.
func UID() int {
	return os.Getuid()
}

// EUID returns the effective user id of this process.
func EUID() int {
	return os.Geteuid()
}

// ShellPID returns the pid of the invoking shell. The logger is spawned
// directly by a shell hook, so the parent process is the shell itself.
func ShellPID() int {
	return os.Getppid()
}

// ShellPPID returns the parent pid of the invoking shell, read from procfs.
func ShellPPID() int {
	ppid, err := strconv.Atoi(procStatField(ShellPID(), 3))
	if err != nil {
		return 0
	}
	return ppid
}

// Shell returns the name of the invoking shell: its comm from procfs when
// available, otherwise the basename of $SHELL.
func Shell() string {
	comm := procStatField(ShellPID(), 1)
	comm = strings.TrimSuffix(strings.TrimPrefix(comm, "("), ")")
	if comm != "" {
		return comm
	}
	return filepath.Base(os.Getenv("SHELL"))
}

// CWD returns the current working directory.
func CWD() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return dir
}

// LoginName returns the name of the logged-in user.
func LoginName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("LOGNAME")
}

// TimeZone returns the abbreviated local time zone name.
func TimeZone() string {
	return time.Now().Format("MST")
}

// Time returns the current time as epoch seconds.
func Time() int64 {
	return time.Now().Unix()
}

// procStatField returns the zero-based whitespace-separated field of
// /proc/<pid>/stat, or "" when procfs is unavailable (as on darwin).
func procStatField(pid, field int) string {
	raw, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat")
	if err != nil {
		return ""
	}
	fields := strings.Fields(string(raw))
	if field >= len(fields) {
		return ""
	}
	return fields[field]
}
