package watcher

import (
	"errors"
	"fmt"
)

var (
	ErrPathRequired = errors.New("path is required")
	ErrIsDirectory  = errors.New("path is a directory")
)

// SetupError reports a watch that could not be established.
type SetupError struct {
	Op   string
	Path string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
