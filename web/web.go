// Package web exposes the bridge's status over HTTP: JSON endpoints for
// stats, outstanding actions, and recent events, plus a websocket stream of
// live events.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mbocsi/roverlink/bridge"
)

const historyLimit = 100

// Bridge is what the web surface needs from the running bridge.
type Bridge interface {
	Stats() bridge.Stats
	Actions() []bridge.ActionInfo
	Events() *bridge.Feed
}

type Server struct {
	addr    string
	bridge  Bridge
	server  *http.Server
	hub     *wsHub
	events  chan bridge.Event
	started time.Time

	mu      sync.Mutex
	history []bridge.Event
}

func NewServer(addr string, b Bridge) *Server {
	return &Server{
		addr:   addr,
		bridge: b,
		hub:    newWSHub(),
		events: make(chan bridge.Event, 64),
	}
}

// Handler builds the route tree. Split out from Start so tests can drive it
// without a listener.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/status", s.handleStatus)
	r.Get("/actions", s.handleActions)
	r.Get("/history", s.handleHistory)
	r.Get("/ws", s.hub.handleWebSocket)
	return r
}

// Start subscribes to the bridge event feed and serves HTTP until Shutdown.
func (s *Server) Start() error {
	slog.Info("Starting web server", "addr", s.addr)
	s.started = time.Now()

	s.bridge.Events().Subscribe(s.events)
	go s.consumeEvents()

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown() error {
	slog.Debug("Shutting down web server", "addr", s.addr)
	s.bridge.Events().Unsubscribe(s.events)
	s.hub.closeAll()
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// consumeEvents feeds the history ring and the websocket clients.
func (s *Server) consumeEvents() {
	for ev := range s.events {
		s.mu.Lock()
		s.history = append(s.history, ev)
		if len(s.history) > historyLimit {
			s.history = s.history[len(s.history)-historyLimit:]
		}
		s.mu.Unlock()

		s.hub.broadcast(ev)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	type status struct {
		Uptime  string       `json:"uptime"`
		Stats   bridge.Stats `json:"stats"`
		Actions int          `json:"actions_outstanding"`
	}
	writeJSON(w, status{
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Stats:   s.bridge.Stats(),
		Actions: len(s.bridge.Actions()),
	})
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	actions := s.bridge.Actions()
	if actions == nil {
		actions = []bridge.ActionInfo{}
	}
	writeJSON(w, actions)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	history := make([]bridge.Event, len(s.history))
	copy(history, s.history)
	s.mu.Unlock()
	writeJSON(w, history)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err.Error())
	}
}
