// Package logging holds the process-wide structured logger.
//
// L discards everything until Init enables it. Once enabled, records go to a
// dated JSON file and the standard library logger is pointed at the same
// file, so nothing is ever written over the terminal the editor draws on.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	logPrefix     = "mm-"
	logSuffix     = ".log"
	dateLayout    = "2006-01-02"
	retentionDays = 30
)

// Options configures Init.
type Options struct {
	Enabled bool
	LogDir  string // default ~/.mindmap/logs
	Level   slog.Level
	Now     func() time.Time
}

var current io.Closer

// Init configures logging. With Enabled false all output is discarded.
func Init(opts Options) error {
	Close()
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		log.SetOutput(io.Discard)
		return nil
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	dir := opts.LogDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir = filepath.Join(home, ".mindmap", "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	cleanOldLogs(dir, now())

	name := filepath.Join(dir, FileName(now()))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	current = f

	L = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: opts.Level}))
	log.SetOutput(f)
	return nil
}

// Close releases the log file, if any, and goes back to discarding.
func Close() {
	if current == nil {
		return
	}
	_ = current.Close()
	current = nil
	L = slog.New(slog.NewTextHandler(io.Discard, nil))
	log.SetOutput(os.Stderr)
}

// FileName returns the log file name for the day of t.
func FileName(t time.Time) string {
	return logPrefix + t.Format(dateLayout) + logSuffix
}

// cleanOldLogs removes log files older than retentionDays. Best effort.
func cleanOldLogs(dir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}
		day, err := time.Parse(dateLayout, strings.TrimSuffix(strings.TrimPrefix(name, logPrefix), logSuffix))
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}

// Debug logs at debug level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at info level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at warn level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at error level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
