// Package logging provides the leveled logger used across rind.
//
// Output goes to stderr by default so that stdout carries only query
// results. A log file, when configured, is rotated by lumberjack.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Name    string
	Level   Level
	File    string
	JSON    bool
	NoColor bool
	// Quiet drops terminal output; the log file, if any, still receives entries.
	Quiet bool
	// Writer replaces stderr as the terminal sink.
	Writer   io.Writer
	Rotation Rotation
}

type Rotation struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

func DefaultRotation() Rotation {
	return Rotation{
		MaxSize:    32,
		MaxBackups: 3,
		MaxAge:     14,
	}
}

// Logger is safe for concurrent use. Loggers derived with Named share the
// parent's writer and lock.
type Logger struct {
	mu     *sync.Mutex
	writer io.Writer
	closer io.Closer
	color  bool

	Name       string
	Level      Level
	JSON       bool
	TimeFormat string
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Component string `json:"component,omitempty"`
	Message   string `json:"message"`
}

func New(opts Options) *Logger {
	l := &Logger{
		mu:         &sync.Mutex{},
		Name:       opts.Name,
		Level:      opts.Level,
		JSON:       opts.JSON,
		TimeFormat: "2006-01-02 15:04:05",
	}

	var writers []io.Writer
	if !opts.Quiet {
		terminal := opts.Writer
		if terminal == nil {
			terminal = os.Stderr
		}
		writers = append(writers, terminal)
		l.color = !opts.NoColor && !opts.JSON && opts.File == "" && opts.Writer == nil
	}
	if opts.File != "" {
		rotation := opts.Rotation
		if rotation == (Rotation{}) {
			rotation = DefaultRotation()
		}
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    rotation.MaxSize,
			MaxBackups: rotation.MaxBackups,
			MaxAge:     rotation.MaxAge,
			Compress:   rotation.Compress,
		}
		writers = append(writers, file)
		l.closer = file
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}
	l.writer = io.MultiWriter(writers...)
	return l
}

// NewNullLogger discards every entry.
func NewNullLogger() *Logger {
	return &Logger{mu: &sync.Mutex{}, writer: io.Discard, Level: Error + 1}
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if level < l.Level {
		return
	}
	timestamp := time.Now().Format(l.TimeFormat)
	formatted := msg
	if len(args) > 0 {
		formatted = fmt.Sprintf(msg, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.JSON {
		data, _ := json.Marshal(logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Component: l.Name,
			Message:   formatted,
		})
		fmt.Fprintf(l.writer, "%s\n", data)
		return
	}

	prefix := fmt.Sprintf("[%s] %-5s", timestamp, level)
	if l.Name != "" {
		prefix = fmt.Sprintf("%s [%s]", prefix, l.Name)
	}
	if l.color {
		fmt.Fprintf(l.writer, "%s%s %s\033[0m\n", level.color(), prefix, formatted)
		return
	}
	fmt.Fprintf(l.writer, "%s %s\n", prefix, formatted)
}

func (l *Logger) Debug(msg string, args ...any) { l.log(Debug, msg, args...) }
func (l *Logger) Info(msg string, args ...any) { l.log(Info, msg, args...) }
func (l *Logger) Warn(msg string, args ...any) { l.log(Warn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(Error, msg, args...) }

// Verbose is an alias for Debug.
func (l *Logger) Verbose(msg string, args ...any) { l.log(Debug, msg, args...) }

// Named returns a logger for a sub-component, e.g. "rind/scanner".
func (l *Logger) Named(name string) *Logger {
	full := name
	if l.Name != "" {
		full = fmt.Sprintf("%s/%s", l.Name, name)
	}
	return &Logger{
		mu:         l.mu,
		writer:     l.writer,
		color:      l.color,
		Name:       full,
		Level:      l.Level,
		JSON:       l.JSON,
		TimeFormat: l.TimeFormat,
	}
}

// Close releases the log file, if any. Only the root logger owns it.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
