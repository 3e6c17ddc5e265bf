// Package logger provides a leveled, tagged wrapper around log.Logger.
package logger

import (
	"fmt"
	"log"
	"strings"
)

// Level controls which messages are written.
type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

// String returns the flag spelling of the level.
func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel accepts a level name or its number (0=none .. 4=debug).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "0":
		return LevelNone, nil
	case "error", "1":
		return LevelError, nil
	case "warn", "warning", "2":
		return LevelWarn, nil
	case "info", "3":
		return LevelInfo, nil
	case "debug", "4":
		return LevelDebug, nil
	}
	return LevelNone, fmt.Errorf("unknown log level %q", s)
}

// Logger writes leveled messages with an optional tag prefix.
type Logger struct {
	out   *log.Logger
	level Level
	tag   string
}

// New creates a Logger writing to out at the given level.
func New(out *log.Logger, level Level) *Logger {
	return &Logger{out: out, level: level}
}

// WithTag returns a logger that prefixes every message with [tag].
func (l *Logger) WithTag(tag string) *Logger {
	return &Logger{out: l.out, level: l.level, tag: tag}
}

// Level returns the configured level.
func (l *Logger) Level() Level {
	return l.level
}

func (l *Logger) format(prefix, format string) string {
	var b strings.Builder
	if l.tag != "" {
		b.WriteString("[" + l.tag + "] ")
	}
	if prefix != "" {
		b.WriteString(prefix + " ")
	}
	b.WriteString(format)
	return b.String()
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.level >= LevelDebug {
		l.out.Printf(l.format("DEBUG:", format), v...)
	}
}

func (l *Logger) Infof(format string, v ...interface{}) {
	if l.level >= LevelInfo {
		l.out.Printf(l.format("", format), v...)
	}
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	if l.level >= LevelWarn {
		l.out.Printf(l.format("WARN:", format), v...)
	}
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	if l.level >= LevelError {
		l.out.Printf(l.format("ERROR:", format), v...)
	}
}

// Fatalf logs regardless of level and exits.
func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.out.Fatalf(l.format("FATAL:", format), v...)
}
