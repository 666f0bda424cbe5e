// Package logging configures the process diagnostics sink.
//
// Diagnostics go to a per-user log file (many shells append to it
// concurrently) or to stderr when no file is configured. A FATAL entry
// terminates the process after registered exit handlers have run, which is
// how every unrecoverable store condition is surfaced.
package logging

import (
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/roach88/ash/internal/config"
)

// Init configures the standard logger from ASH_CFG_LOG_FILE and
// ASH_CFG_LOG_LEVEL and returns an entry stamped with a fresh trace id.
// Every invocation is one short-lived process; the trace id lets the
// interleaved lines that concurrent shells append to a shared log file be
// told apart.
func Init(cfg *config.Config) logrus.FieldLogger {
	log := logrus.StandardLogger()
	log.SetLevel(parseLevel(cfg.GetString("LOG_LEVEL", "warning")))
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})

	if path := cfg.GetString("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			log.Warnf("failed to open log file %s, logging to stderr: %v", path, err)
		} else {
			log.SetOutput(f)
			logrus.DeferExitHandler(func() { f.Close() })
		}
	}

	return log.WithField("trace_id", uuid.Must(uuid.NewV7()).String())
}

func parseLevel(name string) logrus.Level {
	level, err := logrus.ParseLevel(strings.ToLower(name))
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}
