// Package startup preloads the file named on the command line and hands it
// to the front end once it is ready.
package startup

import (
	"strconv"

	"markdeck/internal/files"
	"markdeck/internal/fsutil"
	"markdeck/internal/logging"
)

// InitialFile is the payload of the load-initial-file event.
type InitialFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Load reads the startup file argument. It returns nil when no argument was
// given or the file cannot be read; read failures are logged, never fatal.
func Load(arg string, logger *logging.Logger) *InitialFile {
	if arg == "" {
		return nil
	}
	path := fsutil.Absolute(arg)
	content, err := files.ReadText(path)
	if err != nil {
		if logger != nil {
			logger.Warn("initial file load failed", map[string]string{
				"path":  path,
				"error": err.Error(),
			})
		}
		return nil
	}
	if logger != nil {
		logger.Info("initial file loaded", map[string]string{
			"path":  path,
			"bytes": strconv.Itoa(len(content)),
		})
	}
	return &InitialFile{Path: path, Content: content}
}
