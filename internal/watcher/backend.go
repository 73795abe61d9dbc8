package watcher

import "github.com/fsnotify/fsnotify"

type fsnotifyBackend struct {
	watcher *fsnotify.Watcher
}

func newFSNotifyBackend() (Backend, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &fsnotifyBackend{watcher: watcher}, nil
}

func (b *fsnotifyBackend) Add(path string) error {
	return b.watcher.Add(path)
}

func (b *fsnotifyBackend) Events() <-chan fsnotify.Event {
	return b.watcher.Events
}

func (b *fsnotifyBackend) Errors() <-chan error {
	return b.watcher.Errors
}

func (b *fsnotifyBackend) Close() error {
	return b.watcher.Close()
}
