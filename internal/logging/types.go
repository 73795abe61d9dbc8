package logging

import (
	"log/slog"
	"time"
)

type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// CategoryField tags an entry with the component that produced it.
const CategoryField = "markdeck.category"

type LogEntry struct {
	Timestamp time.Time         `json:"timestamp"`
	Level     Level             `json:"level"`
	Message   string            `json:"message"`
	Context   map[string]string `json:"context,omitempty"`
}

// slogLevel maps a level onto log/slog; unknown levels count as info.
func (level Level) slogLevel() slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (level Level) known() bool {
	switch level {
	case LevelDebug, LevelInfo, LevelWarning, LevelError:
		return true
	}
	return false
}
