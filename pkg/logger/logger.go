// Package logger provides a simple leveled logging interface and implementation
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Logger defines the logging interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
	// With returns a logger that prefixes every message with "[component] ".
	With(component string) Logger
}

// Level represents logging levels
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	levelOff
)

// logger implements the Logger interface
type logger struct {
	level   Level
	prefix  string
	loggers map[Level]*log.Logger
	mu      *sync.RWMutex
}

// New creates a logger whose level comes from LOG_LEVEL.
func New() Logger {
	return NewWithLevel(os.Getenv("LOG_LEVEL"))
}

// NewWithLevel creates a stdout/stderr logger at the given level name.
func NewWithLevel(level string) Logger {
	return NewWriter(os.Stdout, os.Stderr, ParseLevel(level))
}

// NewWriter creates a logger writing debug/info/warn to out and errors to errOut.
func NewWriter(out, errOut io.Writer, level Level) Logger {
	return &logger{
		level: level,
		loggers: map[Level]*log.Logger{
			LevelDebug: log.New(out, "[DEBUG] ", log.LstdFlags|log.Lshortfile),
			LevelInfo:  log.New(out, "[INFO] ", log.LstdFlags),
			LevelWarn:  log.New(out, "[WARN] ", log.LstdFlags),
			LevelError: log.New(errOut, "[ERROR] ", log.LstdFlags|log.Lshortfile),
		},
		mu: &sync.RWMutex{},
	}
}

// Discard returns a logger that drops everything. Fatal still exits.
func Discard() Logger {
	return NewWriter(io.Discard, io.Discard, levelOff)
}

// ParseLevel converts string log level to Level type
func ParseLevel(levelStr string) Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevel reports whether name is a level ParseLevel understands.
func ValidLevel(name string) bool {
	switch strings.ToLower(name) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func (l *logger) With(component string) Logger {
	return &logger{
		level:   l.level,
		prefix:  l.prefix + "[" + component + "] ",
		loggers: l.loggers,
		mu:      l.mu,
	}
}

// shouldLog checks if a message should be logged at given level
func (l *logger) shouldLog(level Level) bool {
	return level >= l.level
}

func (l *logger) write(level Level, msg string) {
	l.mu.RLock()
	out := l.loggers[level]
	l.mu.RUnlock()

	out.Output(4, l.prefix+msg)
}

// output logs a message at the specified level
func (l *logger) output(level Level, v ...interface{}) {
	if !l.shouldLog(level) {
		return
	}
	l.write(level, fmt.Sprint(v...))
}

// outputf logs a formatted message at the specified level
func (l *logger) outputf(level Level, format string, v ...interface{}) {
	if !l.shouldLog(level) {
		return
	}
	l.write(level, fmt.Sprintf(format, v...))
}

func (l *logger) Debug(v ...interface{}) {
	l.output(LevelDebug, v...)
}

func (l *logger) Debugf(format string, v ...interface{}) {
	l.outputf(LevelDebug, format, v...)
}

func (l *logger) Info(v ...interface{}) {
	l.output(LevelInfo, v...)
}

func (l *logger) Infof(format string, v ...interface{}) {
	l.outputf(LevelInfo, format, v...)
}

func (l *logger) Warn(v ...interface{}) {
	l.output(LevelWarn, v...)
}

func (l *logger) Warnf(format string, v ...interface{}) {
	l.outputf(LevelWarn, format, v...)
}

func (l *logger) Error(v ...interface{}) {
	l.output(LevelError, v...)
}

func (l *logger) Errorf(format string, v ...interface{}) {
	l.outputf(LevelError, format, v...)
}

// Fatal logs an error message and exits
func (l *logger) Fatal(v ...interface{}) {
	l.write(LevelError, fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf logs a formatted error message and exits
func (l *logger) Fatalf(format string, v ...interface{}) {
	l.write(LevelError, fmt.Sprintf(format, v...))
	os.Exit(1)
}
