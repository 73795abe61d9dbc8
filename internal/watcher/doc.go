// Package watcher owns the single file watch session of the desktop shell.
//
// A Manager holds at most one session. Each session runs a worker goroutine
// that drains the OS backend and publishes a file_changed Event for every
// write to the watched file. Starting a new session always tears the previous
// one down first, and Stop returns only after the worker has exited, so no
// event for a stopped session is published afterwards.
package watcher
