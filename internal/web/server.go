// Package web provides the HTTP surface of the pitboss daemon. The server is
// started when the device becomes Ready and stopped when it disconnects, so
// it can be started and stopped any number of times.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sweeney/pitboss/internal/status"
)

// ShutdownTimeout bounds how long a stopped server drains in-flight
// requests in the background.
const ShutdownTimeout = 2 * time.Second

// Server serves readings and the status page over HTTP.
type Server struct {
	addr     string
	tracker  *status.Tracker
	settings any
	handler  http.Handler

	mu         sync.Mutex
	httpServer *http.Server
	ln         net.Listener
	done       chan struct{}

	draining sync.WaitGroup
}

// New creates a Server that reads state from the given tracker. settings is
// served as JSON on GET /config.
func New(addr string, tracker *status.Tracker, settings any) *Server {
	s := &Server{addr: addr, tracker: tracker, settings: settings}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/temperature", s.handleTemperature)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/config", s.handleConfig)
	s.handler = mux
	return s
}

// Handler returns the request router. Useful for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening on the configured address and serves in the
// background. Starting a running server is an error.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpServer != nil {
		return errors.New("web: already running")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("web: listen %s: %w", s.addr, err)
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
			log.Printf("web: server error: %v", err)
		}
	}()

	s.httpServer, s.ln, s.done = srv, ln, done
	return nil
}

// Stop closes the listener and drains in-flight requests in the
// background, so it never waits on a client. Stopping a stopped server is a
// no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	srv, ln, done := s.httpServer, s.ln, s.done
	s.httpServer, s.ln, s.done = nil, nil, nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	err := ln.Close()
	s.draining.Add(1)
	go func() {
		defer s.draining.Done()
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(ctx)
		if errors.Is(err, context.DeadlineExceeded) {
			srv.Close()
		}
		if err != nil && !errors.Is(err, net.ErrClosed) {
			log.Printf("web: shutdown: %v", err)
		}
		<-done
	}()
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("web: close listener: %w", err)
	}
	return nil
}

// Wait blocks until every stopped server has finished draining.
func (s *Server) Wait() {
	s.draining.Wait()
}

// Addr returns the bound address while running, or "" when stopped.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		log.Printf("web: 404 %s", r.URL.Path)
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/temperature", http.StatusFound)
}

func (s *Server) handleTemperature(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, ok := formatTemperature(s.tracker.Snapshot())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		data, err := json.MarshalIndent(s.settings, "", "  ")
		if err != nil {
			log.Printf("web: serialization failure: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	case http.MethodPost:
		http.Error(w, "Not implemented", http.StatusNotImplemented)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
