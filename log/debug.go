package log

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Debug mode configuration
var (
	DebugEnabled bool
	DebugLog     *logrus.Logger
	debugLogFile *os.File
)

var debugLogFileName = filepath.Join(os.TempDir(), "kioku-debug.log")

// InitDebug initializes debug logging if KIOKU_DEBUG=1 is set.
func InitDebug() {
	DebugLog = logrus.New()
	DebugLog.SetLevel(logrus.DebugLevel)

	if os.Getenv("KIOKU_DEBUG") != "1" {
		// keep a discarding logger so callers never see nil
		DebugEnabled = false
		DebugLog.SetOutput(io.Discard)
		return
	}

	f, err := os.OpenFile(debugLogFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		Logger.Errorf("could not open debug log file: %s", err)
		DebugLog.SetOutput(io.Discard)
		return
	}

	DebugEnabled = true
	DebugLog.SetOutput(f)
	DebugLog.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	debugLogFile = f

	DebugLog.Debugf("debug log: %s", debugLogFileName)
}

// CloseDebug closes the debug log file.
func CloseDebug() {
	if debugLogFile != nil {
		_ = debugLogFile.Close()
		debugLogFile = nil
	}
	DebugEnabled = false
}

// Debug logs a debug message if debug mode is enabled.
func Debug(format string, v ...interface{}) {
	if DebugEnabled && DebugLog != nil {
		DebugLog.Debugf(format, v...)
	}
}
