package watcher

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type session struct {
	id       string
	path     string
	backend  Backend
	done     chan struct{}
	finished chan struct{}
	stopOnce sync.Once
}

func newSession(id, path string, backend Backend) *session {
	return &session{
		id:       id,
		path:     path,
		backend:  backend,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

func (s *session) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

// run drains the backend until the session is stopped or the backend
// closes its channels.
func (s *session) run(manager *Manager) {
	defer close(s.finished)

	events := s.backend.Events()
	errs := s.backend.Errors()
	for {
		select {
		case <-s.done:
			return
		case raw, ok := <-events:
			if !ok {
				return
			}
			s.handleEvent(manager, raw)
		case err, ok := <-errs:
			if !ok {
				return
			}
			if err != nil {
				manager.handleError(s, err)
			}
		}
	}
}

func (s *session) handleEvent(manager *Manager, raw fsnotify.Event) {
	// done is checked again because select picks randomly among ready cases.
	select {
	case <-s.done:
		return
	default:
	}
	if !raw.Has(fsnotify.Write) {
		manager.eventsIgnored.Add(1)
		manager.logger.Debug("watch event ignored", map[string]string{
			"path": s.path,
			"op":   raw.Op.String(),
		})
		return
	}
	manager.publish(Event{
		EventType:  EventTypeFileChanged,
		Path:       s.path,
		SessionID:  s.id,
		Op:         raw.Op,
		OccurredAt: time.Now().UTC(),
	})
}
