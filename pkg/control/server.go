// Package control serves the local HTTP control API: tabs, settings and
// speed dial over REST, plus a websocket stream of change events.
package control

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/entrhq/hypergx/pkg/logging"
	"github.com/entrhq/hypergx/pkg/settings"
	"github.com/entrhq/hypergx/pkg/speeddial"
	"github.com/entrhq/hypergx/pkg/tabs"
)

const shutdownTimeout = 5 * time.Second

// ErrNotFound is returned when a tab or speed-dial item does not exist.
var ErrNotFound = errors.New("not found")

// Tabs is the part of the workspace the API drives.
type Tabs interface {
	Registry() *tabs.Registry
	NewTab() string
	OpenURL(rawURL string) (string, error)
	Navigate(id, rawInput string) (string, error)
	CloseTab(id string) bool
}

// Server exposes the shell state over HTTP.
type Server struct {
	tabs   Tabs
	store  *settings.Store
	dial   *speeddial.Registry
	broker *Broker
	logger *logging.Logger
	router *chi.Mux

	mu       sync.Mutex
	lastDial []settings.SpeedDialItem
	unsubs   []func()
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New builds the API over the workspace tabs and the settings store and
// starts publishing their changes to the event stream.
func New(t Tabs, store *settings.Store, opts ...Option) *Server {
	s := &Server{
		tabs:   t,
		store:  store,
		dial:   speeddial.New(store),
		broker: NewBroker(),
		logger: logging.NewLogger("control"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastDial = store.State().SpeedDial

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(s.requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("HyperGX Control API", "1.0.0")
	api := humachi.New(router, cfg)

	router.Get("/api/v1/events", s.serveEvents)

	registerTabHandlers(api, s)
	registerSettingsHandlers(api, s)
	registerSpeedDialHandlers(api, s)

	s.router = router
	s.unsubs = append(s.unsubs,
		t.Registry().Subscribe(s.publishTabs),
		store.Subscribe(s.publishSettings),
	)
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler { return s.router }

// Broker returns the event fan-out behind /api/v1/events.
func (s *Server) Broker() *Broker { return s.broker }

// Close stops publishing and ends all event streams.
func (s *Server) Close() {
	s.mu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()
	for _, fn := range unsubs {
		fn()
	}
	s.broker.Close()
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("control API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("control API: %w", err)
	case <-ctx.Done():
	}

	// Streams never finish on their own; end them before Shutdown waits.
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("control API shutdown: %w", err)
	}
	s.logger.Infof("control API stopped")
	return nil
}

type tabsPayload struct {
	Tabs     []tabs.Record `json:"tabs"`
	ActiveID string        `json:"active_id"`
}

func (s *Server) tabsSnapshot() tabsPayload {
	reg := s.tabs.Registry()
	return tabsPayload{Tabs: reg.Tabs(), ActiveID: reg.ActiveID()}
}

func (s *Server) publishTabs() {
	s.broker.Publish(Event{Type: EventTabs, Data: s.tabsSnapshot()})
}

// publishSettings sends the new settings, and the speed dial separately
// when the tiles changed.
func (s *Server) publishSettings(st settings.State) {
	s.broker.Publish(Event{Type: EventSettings, Data: st})

	s.mu.Lock()
	changed := !slices.Equal(s.lastDial, st.SpeedDial)
	s.lastDial = st.SpeedDial
	s.mu.Unlock()
	if changed {
		s.broker.Publish(Event{Type: EventSpeedDial, Data: st.SpeedDial})
	}
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, settings.ErrInvalidFormat):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, ErrNotFound):
		return huma.Error404NotFound(err.Error())
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}
