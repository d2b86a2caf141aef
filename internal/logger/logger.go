package logger

import (
	"fmt"
	"io"
	"log"
)

type Logger struct {
	l      *log.Logger
	prefix string
	debug  bool
}

func New(l *log.Logger) *Logger {
	return &Logger{l: l}
}

// Discard returns a logger that drops every line. Handy in tests.
func Discard() *Logger {
	return New(log.New(io.Discard, "", 0))
}

// With returns a copy of the logger tagging every line with the component name.
func (l *Logger) With(component string) *Logger {
	return &Logger{
		l:      l.l,
		prefix: l.prefix + "[" + component + "]",
		debug:  l.debug,
	}
}

// WithDebug toggles the debug level on a copy of the logger.
func (l *Logger) WithDebug(enabled bool) *Logger {
	return &Logger{
		l:      l.l,
		prefix: l.prefix,
		debug:  enabled,
	}
}

func (l *Logger) LogErrorf(format string, v ...any) {
	l.print("Error", format, v...)
}

func (l *Logger) LogWarnf(format string, v ...any) {
	l.print("Warn", format, v...)
}

func (l *Logger) LogInfo(format string, v ...any) {
	l.print("Info", format, v...)
}

func (l *Logger) LogDebugf(format string, v ...any) {
	if !l.debug {
		return
	}

	l.print("Debug", format, v...)
}

func (l *Logger) print(level, format string, v ...any) {
	msg := fmt.Sprintf(format, v...)

	if l.prefix != "" {
		l.l.Printf("[%s]%s: %s\n", level, l.prefix, msg)

		return
	}

	l.l.Printf("[%s]: %s\n", level, msg)
}
