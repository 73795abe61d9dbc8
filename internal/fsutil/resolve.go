// Package fsutil holds pure path helpers shared by the desktop commands.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

var (
	ErrNoParent = errors.New("failed to get parent directory")
	ErrNotText  = errors.New("failed to convert path to string")
)

// PathError reports a base path that cannot anchor a relative path.
type PathError struct {
	Base string
	Err  error
}

func (e *PathError) Error() string {
	if e.Base == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %q", e.Err.Error(), e.Base)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Resolve joins relativePath onto the directory containing basePath.
// Trailing separators and "." segments of basePath are ignored.
// An absolute relativePath replaces the base entirely. The result is cleaned
// but never checked for existence.
func Resolve(basePath, relativePath string) (string, error) {
	if !hasParent(basePath) {
		return "", &PathError{Base: basePath, Err: ErrNoParent}
	}

	var resolved string
	if filepath.IsAbs(relativePath) {
		resolved = filepath.Clean(relativePath)
	} else {
		// Clean first so "/a/b/" and "/a/b/." name b, whose parent is /a.
		resolved = filepath.Join(filepath.Dir(filepath.Clean(basePath)), relativePath)
	}
	if !utf8.ValidString(resolved) {
		return "", &PathError{Base: basePath, Err: ErrNotText}
	}
	return resolved, nil
}

// Absolute anchors a relative path at the current working directory.
// The input is returned unchanged when the working directory is unknown.
func Absolute(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	return filepath.Join(cwd, path)
}

func hasParent(path string) bool {
	if path == "" {
		return false
	}
	cleaned := filepath.Clean(path)
	volume := filepath.VolumeName(cleaned)
	root := volume + string(os.PathSeparator)
	return cleaned != root && cleaned != volume
}
