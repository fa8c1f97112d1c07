// Package server exposes a table over WebSocket. Every state change is
// pushed to each client as a JSON table view, and clients may act for the
// human seat or deal the next hand.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/holdem-table/internal/game"
	"github.com/lox/holdem-table/internal/table"
)

// Server broadcasts a session to WebSocket clients
type Server struct {
	session  *table.Session
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu          sync.RWMutex
	connections map[*Connection]bool

	changed chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a server for session and starts its broadcaster.
// Call Stop to release it.
func NewServer(session *table.Session, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		session: session,
		upgrader: websocket.Upgrader{
			// Local play; the page and the server share a host.
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]bool),
		changed:     make(chan struct{}, 1),
		ctx:         ctx,
		cancel:      cancel,
	}
	session.Subscribe(s)

	s.wg.Add(1)
	go s.run()
	return s
}

// Handler returns the HTTP routes: /ws, /state and /health
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting WebSocket server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes every connection and stops broadcasting
func (s *Server) Stop() {
	s.session.Unsubscribe(s)
	s.cancel()
	s.wg.Wait()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.connections = map[*Connection]bool{}
	s.mu.Unlock()
}

// OnEvent implements game.EventSubscriber. Bursts collapse into one
// broadcast of the latest state.
func (s *Server) OnEvent(game.GameEvent) {
	s.notify()
}

func (s *Server) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *Server) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.changed:
			s.broadcast()
		case <-s.ctx.Done():
			return
		}
	}
}

// broadcast sends every client the table as its seat sees it. Each view is
// encoded once per seat.
func (s *Server) broadcast() {
	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	encoded := map[int][]byte{}
	sent := 0
	for _, conn := range conns {
		data, ok := encoded[conn.seat]
		if !ok {
			var err error
			data, err = json.Marshal(s.session.SnapshotFor(conn.seat))
			if err != nil {
				s.logger.Error("Failed to encode table view", "seat", conn.seat, "error", err)
				continue
			}
			encoded[conn.seat] = data
		}
		if err := conn.sendRaw(data); err == nil {
			sent++
		}
	}
	s.logger.Debug("Broadcast table view", "recipients", sent)
}

// handle applies one client request to the session
func (s *Server) handle(req Request) Reply {
	cmd, action, err := req.parse()
	if err != nil {
		return Reply{Error: err.Error()}
	}

	switch cmd {
	case commandDeal:
		err = s.session.StartHand()
	case commandReset:
		s.session.Reset()
		s.notify()
	default:
		err = s.session.SubmitAction(req.Seat, action)
	}
	if err != nil {
		s.logger.Debug("Request rejected", "seat", req.Seat, "action", req.Action, "error", err)
		return Reply{Error: err.Error()}
	}
	return Reply{OK: true}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	seat := -1
	if v := r.URL.Query().Get("seat"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < -1 || n >= len(s.session.Snapshot().Players) {
			http.Error(w, "invalid seat", http.StatusBadRequest)
			return
		}
		seat = n
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(ws, seat, s)
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "seat", seat, "total", total)

	conn.Start()
	_ = conn.Send(s.session.SnapshotFor(seat))
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client disconnected", "total", total)
}

// handleState returns the spectator view as JSON
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.session.SnapshotFor(-1)); err != nil {
		s.logger.Error("Failed to write state", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// Connections returns the number of connected clients
func (s *Server) Connections() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}
