package desktop

import (
	"context"
	"errors"
	"sync"
	"time"

	"markdeck/internal/event"
	"markdeck/internal/logging"
	"markdeck/internal/startup"
	"markdeck/internal/version"
	"markdeck/internal/watcher"
)

const (
	EventFileChanged     = "file-changed"
	EventLoadInitialFile = "load-initial-file"
)

var ErrRuntimeNotReady = errors.New("desktop runtime not ready")

type Options struct {
	Watches     *watcher.Manager
	Bus         *event.Bus[watcher.Event]
	InitialFile *startup.InitialFile
	GraceDelay  time.Duration
	Logger      *logging.Logger
	Runtime     Runtime
	Emitters    []Emitter
}

// App is bound to the wails front end. Its exported methods form the
// command surface; events flow back through Runtime.EventsEmit.
type App struct {
	ctxMutex     sync.RWMutex
	ctx          context.Context
	watches      *watcher.Manager
	bus          *event.Bus[watcher.Event]
	initial      *startup.Deliverer
	graceDelay   time.Duration
	runtime      Runtime
	emitters     []Emitter
	logger       *logging.Logger
	relayCancel  func()
	relayDone    chan struct{}
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

func NewApp(options Options) *App {
	logger := options.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	bus := options.Bus
	if bus == nil {
		bus = event.NewBus[watcher.Event](context.Background(), event.BusOptions{
			Name:   "watcher_events",
			Logger: logger,
		})
	}
	watches := options.Watches
	if watches == nil {
		watches = watcher.NewManager(bus, watcher.Options{Logger: logger})
	}
	runtime := options.Runtime
	if runtime == nil {
		runtime = wailsRuntime{}
	}
	graceDelay := options.GraceDelay
	if graceDelay <= 0 {
		graceDelay = startup.DefaultGraceDelay
	}

	app := &App{
		watches:    watches,
		bus:        bus,
		graceDelay: graceDelay,
		runtime:    runtime,
		emitters:   options.Emitters,
		logger:     logger.Component("desktop"),
		shutdown:   make(chan struct{}),
	}
	app.initial = startup.NewDeliverer(options.InitialFile, func(payload startup.InitialFile) {
		app.logger.Info("initial file delivered", map[string]string{
			"path": payload.Path,
		})
		app.emit(EventLoadInitialFile, payload)
	})
	return app
}

func (a *App) Startup(ctx context.Context) {
	a.ctxMutex.Lock()
	a.ctx = ctx
	a.ctxMutex.Unlock()
	a.startRelay()
}

// DomReady arms the initial-file fallback in case the front end never calls
// FrontendReady.
func (a *App) DomReady(ctx context.Context) {
	a.initial.ScheduleFallback(a.graceDelay)
}

func (a *App) Shutdown(ctx context.Context) {
	a.shutdownOnce.Do(func() {
		a.initial.Stop()
		a.watches.Stop()
		if a.relayCancel != nil {
			a.relayCancel()
			<-a.relayDone
		}
		close(a.shutdown)
	})
}

func (a *App) BeforeClose(ctx context.Context) bool {
	return false
}

func (a *App) ShutdownDone() <-chan struct{} {
	if a == nil {
		return nil
	}
	return a.shutdown
}

func (a *App) GetVersion() string {
	return version.Version
}

func (a *App) context() context.Context {
	a.ctxMutex.RLock()
	defer a.ctxMutex.RUnlock()
	return a.ctx
}

// startRelay forwards change events of the current session to the front end.
// Events still buffered for a superseded session are dropped.
func (a *App) startRelay() {
	if a.relayCancel != nil {
		return
	}
	events, cancel := a.bus.Subscribe()
	a.relayCancel = cancel
	a.relayDone = make(chan struct{})

	go func() {
		defer close(a.relayDone)
		for change := range events {
			if change.Type() != watcher.EventTypeFileChanged {
				continue
			}
			if !a.watches.IsCurrent(change.SessionID) {
				a.logger.Debug("stale change dropped", map[string]string{
					"path":    change.Path,
					"session": change.SessionID,
				})
				continue
			}
			a.emit(EventFileChanged, change.Path)
		}
	}()
}

func (a *App) emit(name string, payload any) {
	if ctx := a.context(); ctx != nil {
		a.runtime.EventsEmit(ctx, name, payload)
	}
	for _, emitter := range a.emitters {
		emitter.Emit(name, payload)
	}
}
