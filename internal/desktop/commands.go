package desktop

import (
	"markdeck/internal/files"
	"markdeck/internal/fsutil"
)

func (a *App) ReadFile(path string) (string, error) {
	content, err := files.ReadText(path)
	if err != nil {
		a.logger.Debug("read file failed", map[string]string{
			"path":  path,
			"error": err.Error(),
		})
		return "", err
	}
	return content, nil
}

func (a *App) ReadImageAsBase64(path string) (string, error) {
	uri, err := files.ReadImageDataURI(path)
	if err != nil {
		a.logger.Debug("read image failed", map[string]string{
			"path":  path,
			"error": err.Error(),
		})
		return "", err
	}
	return uri, nil
}

func (a *App) ResolvePath(basePath, relativePath string) (string, error) {
	return fsutil.Resolve(basePath, relativePath)
}

func (a *App) StartWatchingFile(filePath string) error {
	if err := a.watches.Start(filePath); err != nil {
		a.logger.Warn("start watching failed", map[string]string{
			"path":  filePath,
			"error": err.Error(),
		})
		return err
	}
	return nil
}

func (a *App) StopWatchingFile() {
	a.watches.Stop()
}

// FrontendReady is called by the front end once its event listeners are
// registered; it releases the initial file immediately.
func (a *App) FrontendReady() {
	a.initial.Ready()
}
