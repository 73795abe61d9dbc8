package watcher

import (
	"time"

	"markdeck/internal/logging"

	"github.com/fsnotify/fsnotify"
)

const EventTypeFileChanged = "file_changed"

// Event is published for every write observed on the watched file.
type Event struct {
	EventType  string
	Path       string
	SessionID  string
	Op         fsnotify.Op
	OccurredAt time.Time
}

func (e Event) Type() string {
	return e.EventType
}

func (e Event) Timestamp() time.Time {
	return e.OccurredAt
}

// Backend is the OS watch resource owned by one session.
type Backend interface {
	Add(path string) error
	Events() <-chan fsnotify.Event
	Errors() <-chan error
	Close() error
}

// Options controls manager behavior.
type Options struct {
	Logger *logging.Logger
	// NewBackend creates the OS watch resource; defaults to fsnotify.
	NewBackend func() (Backend, error)
}

// Metrics reports watcher counters.
type Metrics struct {
	SessionsStarted uint64
	EventsDelivered uint64
	EventsIgnored   uint64
	Errors          uint64
	LiveBackends    int64
}
