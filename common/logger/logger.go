// Package logger provides leveled logging for the siteseeker service.
// Components log through the package-level functions; the backend is a
// shared slog handler configured once at startup.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var backend atomic.Pointer[slog.Logger]

func init() {
	backend.Store(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
}

// Setup installs the process logger. level is one of debug, info, warn,
// error; anything else falls back to info.
func Setup(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	l := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	backend.Store(l)
	slog.SetDefault(l)
}

// Use replaces the backing logger. Tests install a capture or discard
// logger through this.
func Use(l *slog.Logger) {
	if l != nil {
		backend.Store(l)
	}
}

// Debugf logs a debug message.
func Debugf(format string, args ...any) {
	backend.Load().Debug(fmt.Sprintf(format, args...))
}

// Infof logs an info message.
func Infof(format string, args ...any) {
	backend.Load().Info(fmt.Sprintf(format, args...))
}

// Warnf logs a warning message.
func Warnf(format string, args ...any) {
	backend.Load().Warn(fmt.Sprintf(format, args...))
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	backend.Load().Error(fmt.Sprintf(format, args...))
}
