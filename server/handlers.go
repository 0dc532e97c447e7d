// File: server/handlers.go
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/bubblepop/bubblepop/bollywood"
	"github.com/bubblepop/bubblepop/game"

	"golang.org/x/net/websocket"
)

// askTimeout bounds HTTP queries against the manager actor.
const askTimeout = 2 * time.Second

// HandleController accepts a controller websocket, spawns a handler actor
// for it, and blocks until that actor fully stops.
func (s *Server) HandleController() func(ws *websocket.Conn) {
	return func(ws *websocket.Conn) {
		connectionAddr := ws.RemoteAddr().String()
		fmt.Printf("HandleController: New connection from %s\n", connectionAddr)

		defer func() {
			if r := recover(); r != nil {
				fmt.Printf("PANIC recovered in HandleController for %s: %v\nStack trace:\n%s\n", connectionAddr, r, string(debug.Stack()))
			}
			_ = ws.Close()
		}()

		if s.engine == nil || s.managerPID == nil {
			fmt.Printf("HandleController: Server engine or manager PID is nil. Closing connection %s.\n", connectionAddr)
			return
		}

		done := make(chan struct{})
		producer := NewConnectionHandlerProducer(ConnectionHandlerArgs{
			Conn:       ws,
			Engine:     s.engine,
			ManagerPID: s.managerPID,
			Done:       done,
		})
		pid := s.engine.Spawn(bollywood.NewProps(producer))
		if pid == nil {
			fmt.Printf("HandleController: Failed to spawn handler for %s (engine stopping).\n", connectionAddr)
			return
		}

		// The handler actor owns the connection lifecycle from here.
		<-done
		fmt.Printf("HandleController: Handler %s exited for %s.\n", pid.String(), connectionAddr)
	}
}

// HandleWatch attaches a read-only display client to a session broadcaster.
// The optional "session" query parameter selects a specific session.
func (s *Server) HandleWatch() func(ws *websocket.Conn) {
	return func(ws *websocket.Conn) {
		connectionAddr := ws.RemoteAddr().String()

		defer func() {
			if r := recover(); r != nil {
				fmt.Printf("PANIC recovered in HandleWatch for %s: %v\nStack trace:\n%s\n", connectionAddr, r, string(debug.Stack()))
			}
			_ = ws.Close()
		}()

		if s.engine == nil || s.managerPID == nil {
			fmt.Printf("HandleWatch: Server engine or manager PID is nil. Closing connection %s.\n", connectionAddr)
			return
		}

		sessionID := ""
		if req := ws.Request(); req != nil {
			sessionID = req.URL.Query().Get("session")
		}
		s.engine.Send(s.managerPID, game.AttachWatcher{Conn: ws, SessionID: sessionID}, nil)

		// Watchers never send game input. Drain until the connection closes
		// so the broadcaster can evict it on its next write failure.
		for {
			var discard json.RawMessage
			if err := websocket.JSON.Receive(ws, &discard); err != nil {
				isClosedErr := err == io.EOF ||
					strings.Contains(err.Error(), "use of closed network connection") ||
					strings.Contains(err.Error(), "closed")
				if !isClosedErr {
					fmt.Printf("HandleWatch: Receive error from %s: %v\n", connectionAddr, err)
				}
				return
			}
		}
	}
}

// HandleStatus reports the active sessions as JSON over HTTP GET.
func (s *Server) HandleStatus() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				fmt.Printf("PANIC recovered in HandleStatus: %v\nStack trace:\n%s\n", rec, string(debug.Stack()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		resp, err := s.engine.Ask(s.managerPID, game.GetSessionListRequest{}, askTimeout)
		if err != nil {
			fmt.Printf("HandleStatus: manager query failed: %v\n", err)
			http.Error(w, "Session manager unavailable", http.StatusServiceUnavailable)
			return
		}
		list, ok := resp.(game.SessionListResponse)
		if !ok {
			fmt.Printf("HandleStatus: unexpected reply type %T\n", resp)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(list); err != nil {
			fmt.Println("HandleStatus: error writing response:", err)
		}
	}
}

// HandleHighScores serves the leaderboard as JSON over HTTP GET.
func (s *Server) HandleHighScores() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				fmt.Printf("PANIC recovered in HandleHighScores: %v\nStack trace:\n%s\n", rec, string(debug.Stack()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		resp, err := s.engine.Ask(s.managerPID, game.GetHighScoresRequest{}, askTimeout)
		if err != nil {
			fmt.Printf("HandleHighScores: manager query failed: %v\n", err)
			http.Error(w, "Session manager unavailable", http.StatusServiceUnavailable)
			return
		}
		list, ok := resp.(game.HighScoreList)
		if !ok {
			fmt.Printf("HandleHighScores: unexpected reply type %T\n", resp)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(list); err != nil {
			fmt.Println("HandleHighScores: error writing response:", err)
		}
	}
}
