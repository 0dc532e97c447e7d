// File: game/broadcaster_actor.go
package game

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/bubblepop/bubblepop/bollywood"
	"golang.org/x/net/websocket"
)

// BroadcasterActor fans session events out to display clients.
type BroadcasterActor struct {
	clients    map[*websocket.Conn]bool
	mu         sync.RWMutex // Protects the clients map
	selfPID    *bollywood.PID
	sessionPID *bollywood.PID
}

// NewBroadcasterProducer creates a producer for BroadcasterActor.
func NewBroadcasterProducer(sessionPID *bollywood.PID) bollywood.Producer {
	return func() bollywood.Actor {
		return &BroadcasterActor{
			clients:    make(map[*websocket.Conn]bool),
			sessionPID: sessionPID,
		}
	}
}

// Receive handles messages for the BroadcasterActor.
func (a *BroadcasterActor) Receive(ctx bollywood.Context) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in BroadcasterActor %s Receive: %v\nStack trace:\n%s\n",
				a.selfPID, r, string(debug.Stack()))
		}
	}()

	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:

	case AddClient:
		if msg.Conn != nil {
			a.mu.Lock()
			a.clients[msg.Conn] = true
			a.mu.Unlock()
		}

	case RemoveClient:
		if msg.Conn != nil {
			a.mu.Lock()
			delete(a.clients, msg.Conn)
			a.mu.Unlock()
		}

	case BroadcastEvents:
		a.broadcast(msg.Events)

	case bollywood.Stopping:
		a.closeAllConnections()

	case bollywood.Stopped:

	default:
		fmt.Printf("BroadcasterActor %s: Received unknown message type: %T\n", a.selfPID, msg)
	}
}

// broadcast JSON-encodes each event to every registered client and drops
// clients whose connection failed.
func (a *BroadcasterActor) broadcast(events []interface{}) {
	if len(events) == 0 {
		return
	}

	a.mu.RLock()
	clientsToSend := make([]*websocket.Conn, 0, len(a.clients))
	for conn := range a.clients {
		clientsToSend = append(clientsToSend, conn)
	}
	a.mu.RUnlock()

	if len(clientsToSend) == 0 {
		return
	}

	var disconnected []*websocket.Conn
	for _, ws := range clientsToSend {
		for _, event := range events {
			if err := websocket.JSON.Send(ws, event); err != nil {
				if isClosedConnError(err) {
					disconnected = append(disconnected, ws)
				} else {
					fmt.Printf("ERROR: BroadcasterActor %s: Failed to write to client %s: %v\n",
						a.selfPID, ws.RemoteAddr(), err)
				}
				break
			}
		}
	}

	if len(disconnected) > 0 {
		a.mu.Lock()
		for _, ws := range disconnected {
			delete(a.clients, ws)
			_ = ws.Close()
		}
		a.mu.Unlock()
	}
}

// closeAllConnections closes every managed connection during shutdown.
func (a *BroadcasterActor) closeAllConnections() {
	a.mu.Lock()
	clientsToClose := make([]*websocket.Conn, 0, len(a.clients))
	for conn := range a.clients {
		clientsToClose = append(clientsToClose, conn)
	}
	a.clients = make(map[*websocket.Conn]bool)
	a.mu.Unlock()

	if len(clientsToClose) > 0 {
		fmt.Printf("Broadcaster %s: Closing %d connections.\n", a.selfPID, len(clientsToClose))
		for _, ws := range clientsToClose {
			_ = ws.Close()
		}
	}
}

// isClosedConnError matches the write errors a gone client produces.
func isClosedConnError(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset by peer") ||
		strings.Contains(errStr, "EOF")
}
