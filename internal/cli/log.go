package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/ash/internal/config"
	"github.com/roach88/ash/internal/logging"
	"github.com/roach88/ash/internal/record"
	"github.com/roach88/ash/internal/store"
)

// LogOptions holds the flags for the ashlog command.
type LogOptions struct {
	Alert         string
	Command       string
	CommandExit   int
	PipeStatus    string
	CommandStart  int64
	CommandFinish int64
	CommandNumber int
	Exit          int
	GetSessionID  bool
	EndSession    bool
	Version       bool
}

// NewLogCommand builds the ashlog root command. The returned options stay
// bound to the command's flags; main reads Exit from them after execution
// so hooks can preserve the original command's status.
func NewLogCommand() (*cobra.Command, *LogOptions) {
	opts := &LogOptions{}

	cmd := &cobra.Command{
		Use:   "ashlog",
		Short: "Record shell sessions and commands in the history database",
		Long: "ashlog is invoked by shell hooks to record session and command history\n" +
			"into the ASH_CFG_HISTORY_DB SQLite database. It is not intended to be\n" +
			"executed manually.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Alert, "alert", "a", "", "a message to display to the user")
	f.StringVarP(&opts.Command, "command", "c", "", "the command to log")
	f.IntVarP(&opts.CommandExit, "command-exit", "e", 0, "the exit code of the command to log")
	f.StringVarP(&opts.PipeStatus, "command-pipe-status", "p", "", "the pipe states of the command to log")
	f.Int64VarP(&opts.CommandStart, "command-start", "s", 0, "the timestamp when the command started")
	f.Int64VarP(&opts.CommandFinish, "command-finish", "f", 0, "the timestamp when the command stopped")
	f.IntVarP(&opts.CommandNumber, "command-number", "n", 0, "the builtin shell history command number")
	f.IntVarP(&opts.Exit, "exit", "x", 0, "the exit code to use when exiting")
	f.BoolVarP(&opts.GetSessionID, "get-session-id", "S", false, "emit the session id, creating one if needed")
	f.BoolVarP(&opts.EndSession, "end-session", "E", false, "end the current session")
	f.BoolVarP(&opts.Version, "version", "V", false, "print the version and exit")

	return cmd, opts
}

func runLog(cmd *cobra.Command, opts *LogOptions) error {
	// The kill switch for the whole pipeline: hooks stay installed but
	// nothing is recorded.
	if os.Getenv("ASH_DISABLED") != "" {
		return nil
	}

	cfg := config.FromEnvironment()
	log := logging.Init(cfg)

	if opts.Version {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
		return nil
	}
	if opts.Alert != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), opts.Alert)
	}

	flags := cmd.Flags()
	commandUsed := flags.Changed("command") ||
		flags.Changed("command-exit") ||
		flags.Changed("command-pipe-status") ||
		flags.Changed("command-start") ||
		flags.Changed("command-finish") ||
		flags.Changed("command-number")

	if !opts.GetSessionID && !commandUsed && !opts.EndSession {
		return nil
	}

	dbFile := cfg.GetString("HISTORY_DB", "")
	if dbFile == "" {
		return errors.New("expected ASH_CFG_HISTORY_DB to be defined")
	}

	reg := store.NewRegistry()
	record.RegisterTables(reg)
	db := store.Open(dbFile, reg, storeOptions(cfg, log))
	defer db.Close()

	if opts.GetSessionID {
		fmt.Fprintln(cmd.OutOrStdout(), sessionID(db, log))
	}

	if commandUsed {
		db.Insert(record.NewCommand(record.CommandInfo{
			Command:    opts.Command,
			ExitCode:   opts.CommandExit,
			StartTime:  opts.CommandStart,
			EndTime:    opts.CommandFinish,
			Number:     opts.CommandNumber,
			PipeStatus: opts.PipeStatus,
		}))
	}

	if opts.EndSession {
		if raw := os.Getenv("ASH_SESSION_ID"); raw == "" {
			log.Error("cannot end the current session: ASH_SESSION_ID undefined")
		} else if id, err := strconv.ParseInt(raw, 10, 64); err != nil {
			log.Errorf("cannot end the current session: ASH_SESSION_ID %q is not a number", raw)
		} else {
			db.Exec(record.CloseSessionSQL(id), 0, false)
		}
	}

	return nil
}

// sessionID returns the current session id. An id inherited from the
// environment is validated against still-open sessions; a missing or stale
// id gets a fresh session row instead, whose engine-assigned id becomes
// the new session id.
func sessionID(db *store.Database, log logrus.FieldLogger) int64 {
	if raw := os.Getenv("ASH_SESSION_ID"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			rs := db.Exec(fmt.Sprintf(
				"select count(*) as session_cnt from sessions "+
					"where id = %d and duration is null;", id), 0, false)
			if rs != nil && rs.Rows() == 1 && rs.Cell(0, 0) == "1" {
				return id
			}
		}
		log.Warnf("session id %q not found or stale, creating a new session", raw)
	}
	return db.Insert(record.NewSession())
}

// storeOptions maps the configuration keys the store consumes onto its
// Options.
func storeOptions(cfg *config.Config, log logrus.FieldLogger) store.Options {
	return store.Options{
		MaxRetries: cfg.GetInt("DB_MAX_RETRIES", 5),
		FixedDelay: time.Duration(cfg.GetInt("DB_FAIL_TIMEOUT", 0)) * time.Millisecond,
		MaxJitter:  time.Duration(cfg.GetInt("DB_FAIL_RANDOM_TIMEOUT", 0)) * time.Millisecond,
		Log:        log,
	}
}
