// Package logging provides the leveled, field-carrying logger shared by
// every geodraw component.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the severity level of a log message.
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name. Unknown names map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
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

// sink is shared by a logger and all loggers derived from it.
type sink struct {
	mu       sync.Mutex
	level    Level
	output   io.Writer
	disabled bool
}

// Logger writes leveled lines with a fixed set of key=value fields.
type Logger struct {
	sink   *sink
	prefix string
	fields map[string]any
}

// Config configures the logger.
type Config struct {
	// Level is the minimum log level to output.
	Level Level
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Prefix is prepended to all log messages.
	Prefix string
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
		Prefix: "geodraw",
	}
}

// New creates a new logger with the given configuration.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Logger{
		sink:   &sink{level: cfg.Level, output: cfg.Output},
		prefix: cfg.Prefix,
		fields: make(map[string]any),
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{sink: &sink{output: io.Discard, disabled: true}}
}

// WithField returns a derived logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a derived logger with the given fields added.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{sink: l.sink, prefix: l.prefix, fields: merged}
}

// WithComponent returns a derived logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel sets the minimum log level for this logger and its derivatives.
func (l *Logger) SetLevel(level Level) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// Level returns the minimum log level.
func (l *Logger) Level() Level {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.output = w
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LevelError, msg, args...)
}

func (l *Logger) log(level Level, msg string, args ...any) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.disabled || level < l.sink.level {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02T15:04:05.000"))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	if l.prefix != "" {
		b.WriteString(l.prefix)
		b.WriteString(": ")
	}
	b.WriteString(msg)

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, l.fields[k])
		}
		b.WriteString("}")
	}
	b.WriteString("\n")

	_, _ = io.WriteString(l.sink.output, b.String())
}
