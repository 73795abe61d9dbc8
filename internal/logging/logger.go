package logging

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"time"
)

const DefaultBufferSize = 500

// Logger records entries into a LogBuffer and mirrors them as text lines.
// Loggers derived with With or Component share the buffer and the sink.
type Logger struct {
	buffer   *LogBuffer
	sink     *slog.Logger
	minLevel Level
	fields   map[string]string
}

// NewLogger writes to stderr so stdout stays free for --version and --help output.
func NewLogger(buffer *LogBuffer, minLevel Level) *Logger {
	return NewLoggerWithOutput(buffer, minLevel, os.Stderr)
}

// NewLoggerWithOutput mirrors entries to output; a nil output keeps them in
// the buffer only.
func NewLoggerWithOutput(buffer *LogBuffer, minLevel Level, output io.Writer) *Logger {
	if buffer == nil {
		buffer = NewLogBuffer(DefaultBufferSize)
	}
	if !minLevel.known() {
		minLevel = LevelInfo
	}
	logger := &Logger{buffer: buffer, minLevel: minLevel}
	if output != nil && output != io.Discard {
		// Filtering happens in Enabled, so the handler accepts everything.
		logger.sink = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return logger
}

// Discard returns a logger that keeps entries in memory only.
func Discard() *Logger {
	return NewLoggerWithOutput(nil, LevelInfo, nil)
}

func (l *Logger) Buffer() *LogBuffer {
	if l == nil {
		return nil
	}
	return l.buffer
}

// With returns a child logger whose entries carry fields in addition to
// the parent's. Later keys win.
func (l *Logger) With(fields map[string]string) *Logger {
	if l == nil {
		return nil
	}
	child := *l
	child.fields = combineFields(l.fields, fields)
	return &child
}

// Component returns a child logger tagged with the given category.
func (l *Logger) Component(name string) *Logger {
	return l.With(map[string]string{CategoryField: name})
}

func (l *Logger) Debug(message string, fields map[string]string) {
	l.log(LevelDebug, message, fields)
}

func (l *Logger) Info(message string, fields map[string]string) {
	l.log(LevelInfo, message, fields)
}

func (l *Logger) Warn(message string, fields map[string]string) {
	l.log(LevelWarning, message, fields)
}

func (l *Logger) Error(message string, fields map[string]string) {
	l.log(LevelError, message, fields)
}

func (l *Logger) Enabled(level Level) bool {
	if l == nil {
		return false
	}
	return LevelAtLeast(level, l.minLevel)
}

func (l *Logger) log(level Level, message string, fields map[string]string) {
	if !l.Enabled(level) {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		Context:   combineFields(l.fields, fields),
	}
	l.buffer.Add(entry)
	if l.sink != nil {
		l.sink.LogAttrs(context.Background(), level.slogLevel(), message, entryAttrs(entry.Context)...)
	}
}

func ParseLevel(value string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warning", "warn":
		return LevelWarning, true
	case "error":
		return LevelError, true
	default:
		return "", false
	}
}

// LevelAtLeast reports whether level is as severe as minLevel. An empty
// minLevel admits everything.
func LevelAtLeast(level, minLevel Level) bool {
	if minLevel == "" {
		return true
	}
	return level.slogLevel() >= minLevel.slogLevel()
}

func combineFields(base, extra map[string]string) map[string]string {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}
	combined := maps.Clone(base)
	if combined == nil {
		combined = make(map[string]string, len(extra))
	}
	maps.Copy(combined, extra)
	return combined
}

// entryAttrs renders fields in key order so output lines are stable.
func entryAttrs(fields map[string]string) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(fields))
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		attrs = append(attrs, slog.String(key, fields[key]))
	}
	return attrs
}
