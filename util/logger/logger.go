package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path"
	"path/filepath"

	"github.com/op/go-logging"
)

var format = logging.MustStringFormatter("[%{level}] %{message}")

/*
InitLogger creates and returns a logger suitable for logging
human-readable message. Also returns the path to the log file.
*/
func InitLogger(logDir string, logLevel logging.Level) (*logging.Logger, string) {
	processName := path.Base(os.Args[0])
	filename := fmt.Sprintf("%s.log", processName)
	filename = filepath.Join(logDir, filename)
	writer, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open log file '%s': %v\n", filename, err)
		os.Exit(1)
	}
	return NewLogger(processName, writer, logLevel), filename
}

// NewLogger returns a logger that writes to w. Unlike InitLogger, it
// does not touch go-logging's global backend.
func NewLogger(module string, w io.Writer, logLevel logging.Level) *logging.Logger {
	log := logging.MustGetLogger(module)
	logBackend := logging.NewLogBackend(w, "", stdlog.LstdFlags|stdlog.LUTC)
	formatted := logging.NewBackendFormatter(logBackend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logLevel, module)
	log.SetBackend(leveled)
	return log
}

// DiscardLogger returns a logger that throws everything away.
func DiscardLogger(module string) *logging.Logger {
	return NewLogger(module, io.Discard, logging.CRITICAL)
}
