package desktop

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Runtime is the slice of the wails runtime the app depends on.
type Runtime interface {
	EventsEmit(ctx context.Context, name string, data ...interface{})
	OpenFileDialog(ctx context.Context, options runtime.OpenDialogOptions) (string, error)
	SaveFileDialog(ctx context.Context, options runtime.SaveDialogOptions) (string, error)
	MessageDialog(ctx context.Context, options runtime.MessageDialogOptions) (string, error)
	BrowserOpenURL(ctx context.Context, url string)
}

type wailsRuntime struct{}

func (wailsRuntime) EventsEmit(ctx context.Context, name string, data ...interface{}) {
	runtime.EventsEmit(ctx, name, data...)
}

func (wailsRuntime) OpenFileDialog(ctx context.Context, options runtime.OpenDialogOptions) (string, error) {
	return runtime.OpenFileDialog(ctx, options)
}

func (wailsRuntime) SaveFileDialog(ctx context.Context, options runtime.SaveDialogOptions) (string, error) {
	return runtime.SaveFileDialog(ctx, options)
}

func (wailsRuntime) MessageDialog(ctx context.Context, options runtime.MessageDialogOptions) (string, error) {
	return runtime.MessageDialog(ctx, options)
}

func (wailsRuntime) BrowserOpenURL(ctx context.Context, url string) {
	runtime.BrowserOpenURL(ctx, url)
}

// Emitter receives every event sent to the front end.
type Emitter interface {
	Emit(name string, payload any)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(name string, payload any)

func (f EmitterFunc) Emit(name string, payload any) {
	f(name, payload)
}
