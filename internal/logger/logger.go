// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Options configures Open.
type Options struct {
	// Path is the log file; empty discards all output
	Path string
	// Level is "debug", "info", "warn" or "error"
	Level string
	// Debug forces debug level regardless of Level
	Debug bool
}

// Logger owns the log file and the root slog.Logger.
type Logger struct {
	*slog.Logger

	level *slog.LevelVar
	mu    sync.Mutex
	file  *os.File
	path  string
}

// ParseLevel converts a level name to slog.Level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Open creates the log file (and its directory) and returns a Logger writing to it.
func Open(opts Options) (*Logger, error) {
	level := new(slog.LevelVar)
	level.Set(ParseLevel(opts.Level))
	if opts.Debug {
		level.Set(slog.LevelDebug)
	}

	if opts.Path == "" {
		return newLogger(io.Discard, level, nil, ""), nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", opts.Path, err)
	}

	l := newLogger(f, level, f, opts.Path)
	l.Debug("logger initialized", "path", opts.Path)
	return l, nil
}

// New returns a Logger writing to w, mainly for tests.
func New(w io.Writer, level slog.Level) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level)
	return newLogger(w, lv, nil, "")
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, slog.LevelError)
}

func newLogger(w io.Writer, level *slog.LevelVar, f *os.File, path string) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{
		Logger: slog.New(handler),
		level:  level,
		file:   f,
		path:   path,
	}
}

// SetDebug switches between debug and info level at runtime.
func (l *Logger) SetDebug(enabled bool) {
	if enabled {
		l.level.Set(slog.LevelDebug)
	} else {
		l.level.Set(slog.LevelInfo)
	}
}

// Path returns the log file path, or "" when logging is discarded.
func (l *Logger) Path() string {
	return l.path
}

// WithComponent returns a child logger tagged with a component name.
func (l *Logger) WithComponent(component string) *slog.Logger {
	return l.Logger.With("component", component)
}

// WithSession returns a child logger tagged with a session ID.
func WithSession(base *slog.Logger, sessionID string) *slog.Logger {
	return base.With("session", sessionID)
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
