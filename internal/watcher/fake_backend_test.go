package watcher

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

type fakeBackend struct {
	events    chan fsnotify.Event
	errors    chan error
	addErr    error
	closeOnce sync.Once
	closed    chan struct{}
	onClose   func()
	added     []string
}

func (b *fakeBackend) Add(path string) error {
	if b.addErr != nil {
		return b.addErr
	}
	b.added = append(b.added, path)
	return nil
}

func (b *fakeBackend) Events() <-chan fsnotify.Event {
	return b.events
}

func (b *fakeBackend) Errors() <-chan error {
	return b.errors
}

func (b *fakeBackend) Close() error {
	b.closeOnce.Do(func() {
		close(b.closed)
		if b.onClose != nil {
			b.onClose()
		}
	})
	return nil
}

// fakeFactory records every backend it creates and the peak number of
// backends alive at the same time.
type fakeFactory struct {
	mu        sync.Mutex
	backends  []*fakeBackend
	live      atomic.Int64
	peak      atomic.Int64
	addErr    error
	createErr error
}

func (f *fakeFactory) New() (Backend, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	backend := &fakeBackend{
		events: make(chan fsnotify.Event, 8),
		errors: make(chan error, 8),
		closed: make(chan struct{}),
		addErr: f.addErr,
	}
	backend.onClose = func() {
		f.live.Add(-1)
	}
	live := f.live.Add(1)
	for {
		peak := f.peak.Load()
		if live <= peak || f.peak.CompareAndSwap(peak, live) {
			break
		}
	}
	f.mu.Lock()
	f.backends = append(f.backends, backend)
	f.mu.Unlock()
	return backend, nil
}

func (f *fakeFactory) last() *fakeBackend {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.backends) == 0 {
		return nil
	}
	return f.backends[len(f.backends)-1]
}

var errFakeAdd = errors.New("fake add failure")
