// Package viz serves live simulation frames over WebSocket and accepts
// control commands from connected clients.
package viz

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/intersection-sim/intersection-sim/sim"
)

// command is the client-to-server control message.
type command struct {
	Command string `json:"command"`
}

// Server implements sim.Renderer: every frame is broadcast as JSON to all
// connected clients. Clients send {"command": "pause_toggle"} or
// {"command": "quit"}, which are queued for the loop, never applied directly.
type Server struct {
	inputs   *sim.InputQueue
	upgrader websocket.Upgrader

	mu       sync.Mutex
	conns    map[*websocket.Conn]bool
	latest   sim.Snapshot
	hasFrame bool
}

func NewServer(inputs *sim.InputQueue) *Server {
	return &Server{
		inputs: inputs,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // local viewer tooling, any origin
			},
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

// RenderFrame broadcasts one snapshot to every client. A client that cannot
// keep up is dropped rather than allowed to stall the loop; the write
// deadline bounds how long a dead socket can hold the lock.
func (s *Server) RenderFrame(snap sim.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		logrus.Errorf("viz: marshaling frame: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = snap
	s.hasFrame = true
	for conn := range s.conns {
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logrus.Warnf("viz: dropping slow client %s: %v", conn.RemoteAddr(), err)
			conn.Close()
			delete(s.conns, conn)
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("viz: upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	s.conns[conn] = true
	// Late joiners get the current frame immediately instead of waiting a
	// tick (which in paused realtime mode may never come).
	if s.hasFrame {
		if payload, err := json.Marshal(s.latest); err == nil {
			conn.SetWriteDeadline(time.Now().Add(time.Second))
			conn.WriteMessage(websocket.TextMessage, payload)
		}
	}
	s.mu.Unlock()

	logrus.Infof("viz: client connected from %s", conn.RemoteAddr())
	go s.readCommands(conn)
}

// readCommands pumps control messages from one client until it disconnects.
func (s *Server) readCommands(conn *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
		logrus.Infof("viz: client %s disconnected", conn.RemoteAddr())
	}()

	for {
		var cmd command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		switch cmd.Command {
		case "pause_toggle":
			s.inputs.Push(sim.InputEvent{Kind: sim.InputPauseToggle})
		case "quit":
			s.inputs.Push(sim.InputEvent{Kind: sim.InputQuit})
		default:
			logrus.Warnf("viz: ignoring unknown command %q from %s", cmd.Command, conn.RemoteAddr())
		}
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// handleStatus returns the most recent frame as plain JSON, for polling
// clients that do not want a socket.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	snap, ok := s.latest, s.hasFrame
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "no frames yet"})
		return
	}
	json.NewEncoder(w).Encode(snap)
}

// Run serves until ctx is cancelled, then closes all client connections.
func (s *Server) Run(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/status", s.handleStatus)

	srv := &http.Server{Addr: addr, Handler: mux}
	errc := make(chan error, 1)
	go func() {
		logrus.Infof("viz: listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		s.mu.Lock()
		for conn := range s.conns {
			conn.Close()
			delete(s.conns, conn)
		}
		s.mu.Unlock()
		return nil
	case err := <-errc:
		return err
	}
}
