package desktop

import (
	"markdeck/internal/version"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var markdownFilters = []runtime.FileFilter{
	{DisplayName: "Markdown", Pattern: "*.md;*.markdown"},
	{DisplayName: "Text", Pattern: "*.txt"},
}

// OpenFileDialog returns the chosen file, or "" when the dialog was cancelled.
func (a *App) OpenFileDialog() (string, error) {
	ctx := a.context()
	if ctx == nil {
		return "", ErrRuntimeNotReady
	}
	return a.runtime.OpenFileDialog(ctx, runtime.OpenDialogOptions{
		Title:   "Open Markdown",
		Filters: markdownFilters,
	})
}

func (a *App) SaveFileDialog(defaultName string) (string, error) {
	ctx := a.context()
	if ctx == nil {
		return "", ErrRuntimeNotReady
	}
	return a.runtime.SaveFileDialog(ctx, runtime.SaveDialogOptions{
		Title:           "Save Markdown",
		DefaultFilename: defaultName,
		Filters:         markdownFilters,
	})
}

func (a *App) OpenExternal(url string) {
	ctx := a.context()
	if ctx == nil || url == "" {
		return
	}
	a.runtime.BrowserOpenURL(ctx, url)
}

func (a *App) ShowAbout() {
	ctx := a.context()
	if ctx == nil {
		return
	}
	if _, err := a.runtime.MessageDialog(ctx, runtime.MessageDialogOptions{
		Type:    runtime.InfoDialog,
		Title:   "About Markdeck",
		Message: version.Label("Markdeck") + "\nMarkdown viewer and slide presenter.",
	}); err != nil {
		a.logger.Warn("about dialog failed", map[string]string{
			"error": err.Error(),
		})
	}
}
