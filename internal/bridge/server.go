// Package bridge mirrors front-end events to websocket clients so the UI can
// be previewed in a regular browser.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"markdeck/internal/event"
	"markdeck/internal/logging"
	"markdeck/internal/metrics"
)

var ErrNotLoopback = errors.New("bridge address must be a loopback address")

type Options struct {
	Addr           string
	AllowedOrigins []string
	BufferSize     int
	WriteTimeout   time.Duration
	Logger         *logging.Logger
	// Metrics, when set, is served at GET /metrics.
	Metrics *metrics.Registry
	// Logs, when set, is served at GET /logs.
	Logs *logging.LogBuffer
}

type Server struct {
	options    Options
	bus        *event.Bus[Message]
	logger     *logging.Logger
	mutex      sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	serveDone  chan struct{}
}

func New(options Options) *Server {
	logger := options.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.Component("bridge")
	if options.WriteTimeout <= 0 {
		options.WriteTimeout = wsWriteTimeout
	}
	return &Server{
		options: options,
		bus: event.NewBus[Message](context.Background(), event.BusOptions{
			Name:                 "bridge_messages",
			SubscriberBufferSize: options.BufferSize,
			Logger:               logger,
		}),
		logger: logger,
	}
}

// Emit publishes a front-end event to every connected client. It never
// blocks; slow clients drop messages.
func (s *Server) Emit(name string, payload any) {
	if s == nil {
		return
	}
	s.bus.Publish(Message{
		Name:       name,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /events", s.handleEvents)
	if s.options.Metrics != nil {
		mux.Handle("GET /metrics", s.options.Metrics.Handler())
	}
	if s.options.Logs != nil {
		mux.HandleFunc("GET /logs", s.handleLogs)
	}
	return mux
}

// Stats reports delivery counters of the client fan-out.
func (s *Server) Stats() event.Stats {
	if s == nil {
		return event.Stats{}
	}
	return s.bus.Stats()
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	output, cancel := s.bus.Subscribe()
	defer cancel()

	conn, err := upgradeWebSocket(w, r, s.options.AllowedOrigins)
	if err != nil {
		logUpgradeError(s.logger, r, err)
		return
	}
	defer conn.Close()

	s.logger.Debug("bridge client connected", map[string]string{
		"remote_addr": r.RemoteAddr,
	})
	streamMessages(conn, output, s.options.WriteTimeout)
	s.logger.Debug("bridge client disconnected", map[string]string{
		"remote_addr": r.RemoteAddr,
	})
}

// Start listens on the configured loopback address and serves in the
// background. It returns the bound address.
func (s *Server) Start() (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.httpServer != nil {
		return s.listener.Addr().String(), nil
	}
	if !isLoopback(s.options.Addr) {
		return "", fmt.Errorf("listen %q: %w", s.options.Addr, ErrNotLoopback)
	}
	listener, err := net.Listen("tcp", s.options.Addr)
	if err != nil {
		return "", fmt.Errorf("listen %q: %w", s.options.Addr, err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.serveDone = make(chan struct{})
	go func(server *http.Server, done chan struct{}) {
		defer close(done)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("bridge server stopped", map[string]string{
				"error": err.Error(),
			})
		}
	}(s.httpServer, s.serveDone)

	s.logger.Info("bridge listening", map[string]string{
		"addr": listener.Addr().String(),
	})
	return listener.Addr().String(), nil
}

// Shutdown closes every client stream and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.bus.Close()

	s.mutex.Lock()
	server := s.httpServer
	done := s.serveDone
	s.mutex.Unlock()
	if server == nil {
		return nil
	}

	err := server.Shutdown(ctx)
	<-done
	return err
}
