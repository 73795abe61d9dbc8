package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path"
	"time"

	"markdeck"
	"markdeck/internal/bridge"
	"markdeck/internal/config"
	"markdeck/internal/desktop"
	"markdeck/internal/event"
	"markdeck/internal/logging"
	"markdeck/internal/metrics"
	"markdeck/internal/startup"
	"markdeck/internal/version"
	"markdeck/internal/watcher"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

const bridgeShutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if cfg.ShowVersion {
		fmt.Fprintln(os.Stdout, version.Label("markdeck"))
		return 0
	}

	logger := logging.NewLogger(logging.NewLogBuffer(logging.DefaultBufferSize), cfg.LogLevel)
	if cfg.Verbose {
		config.LogSources(logger, cfg)
	}
	logger.Info("markdeck starting", version.Fields())

	frontendFS, err := fs.Sub(markdeck.EmbeddedFrontendFS, path.Join("frontend", "dist"))
	if err != nil {
		logger.Error("embedded frontend unavailable", map[string]string{
			"error": err.Error(),
		})
		return 1
	}

	eventBus := event.NewBus[watcher.Event](context.Background(), event.BusOptions{
		Name:                 "watcher_events",
		SubscriberBufferSize: cfg.EventBuffer,
		Logger:               logger,
	})
	defer eventBus.Close()
	watches := watcher.NewManager(eventBus, watcher.Options{Logger: logger})
	defer watches.Close()

	initialFile := startup.Load(cfg.InitialFile, logger)

	var emitters []desktop.Emitter
	var eventBridge *bridge.Server
	if cfg.BridgeAddr != "" {
		registry := metrics.NewRegistry().WithRuntimeCollectors()
		registry.Register("watcher", watcherSamples(watches))
		registry.Register("watcher_bus", busSamples("watcher_events", eventBus.Stats))
		registry.Register("logs", logSamples(logger.Buffer()))
		eventBridge = bridge.New(bridge.Options{
			Addr:           cfg.BridgeAddr,
			AllowedOrigins: cfg.BridgeOrigins,
			BufferSize:     cfg.EventBuffer,
			Logger:         logger,
			Metrics:        registry,
			Logs:           logger.Buffer(),
		})
		registry.Register("bridge_bus", busSamples("bridge_messages", eventBridge.Stats))
		if _, err := eventBridge.Start(); err != nil {
			logger.Warn("event bridge unavailable", map[string]string{
				"addr":  cfg.BridgeAddr,
				"error": err.Error(),
			})
			eventBridge = nil
		} else {
			emitters = append(emitters, eventBridge)
		}
	}

	app := desktop.NewApp(desktop.Options{
		Watches:     watches,
		Bus:         eventBus,
		InitialFile: initialFile,
		GraceDelay:  cfg.ReadyGrace,
		Logger:      logger,
		Emitters:    emitters,
	})

	shutdown := func(ctx context.Context) {
		app.Shutdown(ctx)
		if eventBridge == nil {
			return
		}
		shutdownContext, cancel := context.WithTimeout(context.Background(), bridgeShutdownTimeout)
		defer cancel()
		if err := eventBridge.Shutdown(shutdownContext); err != nil {
			logger.Warn("event bridge shutdown failed", map[string]string{
				"error": err.Error(),
			})
		}
	}

	err = wails.Run(&options.App{
		Title:  cfg.Title,
		Width:  cfg.WindowWidth,
		Height: cfg.WindowHeight,
		AssetServer: &assetserver.Options{
			Assets: frontendFS,
		},
		OnStartup:     app.Startup,
		OnDomReady:    app.DomReady,
		OnShutdown:    shutdown,
		OnBeforeClose: app.BeforeClose,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		logger.Error("wails run failed", map[string]string{
			"error": err.Error(),
		})
		shutdown(context.Background())
		return 1
	}
	return 0
}
