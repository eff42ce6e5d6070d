// Package logging is the log sink shared by the toolchain, crate and loader
// packages. Output follows the CLI's bracketed status markers.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Logger receives progress and diagnostic messages.
//
// Implementations must be safe for concurrent use: the toolchain invoker
// logs subprocess output from a separate goroutine.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Level orders log messages by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) marker() string {
	switch l {
	case LevelDebug:
		return "[DEBUG]"
	case LevelInfo:
		return "[INFO]"
	case LevelWarn:
		return "[WARN]"
	default:
		return "[ERROR]"
	}
}

// WriterLogger writes one line per message to an io.Writer.
type WriterLogger struct {
	mu  sync.Mutex
	w   io.Writer
	min Level
}

// New returns a Logger writing messages at or above min to w.
func New(w io.Writer, min Level) *WriterLogger {
	return &WriterLogger{w: w, min: min}
}

func (l *WriterLogger) logf(level Level, format string, args ...any) {
	if level < l.min {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s %s\n", level.marker(), msg)
}

func (l *WriterLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *WriterLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *WriterLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *WriterLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

type nop struct{}

func (nop) Debugf(string, ...any) {}
func (nop) Infof(string, ...any)  {}
func (nop) Warnf(string, ...any)  {}
func (nop) Errorf(string, ...any) {}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nop{} }

// OrNop returns l, or a discarding Logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}
