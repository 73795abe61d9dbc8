package watcher

import (
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"markdeck/internal/event"
	"markdeck/internal/logging"

	"github.com/google/uuid"
)

// Manager holds zero or one watch session. All transitions are serialized
// by a single mutex.
type Manager struct {
	mutex      sync.Mutex
	current    *session
	bus        *event.Bus[Event]
	logger     *logging.Logger
	newBackend func() (Backend, error)

	sessionsStarted atomic.Uint64
	eventsDelivered atomic.Uint64
	eventsIgnored   atomic.Uint64
	errorCount      atomic.Uint64
	liveBackends    atomic.Int64
}

// NewManager creates a Manager publishing change events to bus.
func NewManager(bus *event.Bus[Event], options Options) *Manager {
	logger := options.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	newBackend := options.NewBackend
	if newBackend == nil {
		newBackend = newFSNotifyBackend
	}
	return &Manager{
		bus:        bus,
		logger:     logger.Component("watcher"),
		newBackend: newBackend,
	}
}

// Start replaces any active session with a watch on path. The previous
// session is released even when the new watch cannot be established.
func (manager *Manager) Start(path string) error {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()

	manager.stopLocked()

	if path == "" {
		return &SetupError{Op: "watch file", Path: path, Err: ErrPathRequired}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &SetupError{Op: "watch file", Path: path, Err: err}
	}
	if info.IsDir() {
		return &SetupError{Op: "watch file", Path: path, Err: ErrIsDirectory}
	}

	backend, err := manager.newBackend()
	if err != nil {
		manager.logger.Warn("watcher create failed", map[string]string{
			"path":  path,
			"error": err.Error(),
		})
		return &SetupError{Op: "create watcher", Path: path, Err: err}
	}
	manager.liveBackends.Add(1)

	if err := backend.Add(path); err != nil {
		manager.closeBackend(backend, path)
		manager.logger.Warn("watch add failed", map[string]string{
			"path":  path,
			"error": err.Error(),
		})
		return &SetupError{Op: "watch file", Path: path, Err: err}
	}

	current := newSession(uuid.NewString(), path, backend)
	manager.current = current
	manager.sessionsStarted.Add(1)
	go current.run(manager)

	manager.logger.Info("watch started", map[string]string{
		"path":    path,
		"session": current.id,
	})
	return nil
}

// Stop releases the active session, if any. It never fails.
func (manager *Manager) Stop() {
	if manager == nil {
		return
	}
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	manager.stopLocked()
}

// Close is Stop for use with defer and io.Closer.
func (manager *Manager) Close() error {
	manager.Stop()
	return nil
}

// Active reports the watched path.
func (manager *Manager) Active() (string, bool) {
	if manager == nil {
		return "", false
	}
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	if manager.current == nil {
		return "", false
	}
	return manager.current.path, true
}

// IsCurrent reports whether sessionID belongs to the active session.
func (manager *Manager) IsCurrent(sessionID string) bool {
	if manager == nil || sessionID == "" {
		return false
	}
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	return manager.current != nil && manager.current.id == sessionID
}

func (manager *Manager) Metrics() Metrics {
	if manager == nil {
		return Metrics{}
	}
	return Metrics{
		SessionsStarted: manager.sessionsStarted.Load(),
		EventsDelivered: manager.eventsDelivered.Load(),
		EventsIgnored:   manager.eventsIgnored.Load(),
		Errors:          manager.errorCount.Load(),
		LiveBackends:    manager.liveBackends.Load(),
	}
}

func (manager *Manager) stopLocked() {
	current := manager.current
	if current == nil {
		return
	}
	manager.current = nil
	current.stop()
	manager.closeBackend(current.backend, current.path)
	<-current.finished

	manager.logger.Info("watch stopped", map[string]string{
		"path":    current.path,
		"session": current.id,
	})
}

func (manager *Manager) closeBackend(backend Backend, path string) {
	if err := backend.Close(); err != nil {
		manager.logger.Warn("watcher close failed", map[string]string{
			"path":  path,
			"error": err.Error(),
		})
	}
	manager.liveBackends.Add(-1)
}

func (manager *Manager) publish(event Event) {
	if manager.bus != nil {
		manager.bus.Publish(event)
	}
	manager.eventsDelivered.Add(1)
}

func (manager *Manager) handleError(current *session, err error) {
	count := manager.errorCount.Add(1)
	manager.logger.Warn("watch error", map[string]string{
		"path":    current.path,
		"session": current.id,
		"error":   err.Error(),
		"errors":  strconv.FormatUint(count, 10),
	})
}
