// Package log provides the diagnostic logger used across kioku.
// Everything goes to stderr so stdout carries nothing but the generated name.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide diagnostic logger.
var Logger = newLogger(os.Stderr)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	return l
}

// Initialize sets the diagnostic level and enables the debug file if KIOKU_DEBUG=1.
// An unknown level falls back to warning.
func Initialize(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Logger.Warnf("unknown log level %q, using warning", level)
		lvl = logrus.WarnLevel
	}
	Logger.SetLevel(lvl)
	InitDebug()
}

// Close flushes and closes any log files opened by Initialize.
func Close() {
	CloseDebug()
}

// SetOutput redirects the diagnostic logger. Used by tests.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}
