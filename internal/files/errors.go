package files

import (
	"errors"
	"fmt"
)

// ErrInvalidUTF8 is wrapped when a file is not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")

// IOError describes a failed read. Op is the user-facing verb, such as
// "read file" or "read image".
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
