// File: server/connection_handler.go
package server

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/bubblepop/bubblepop/bollywood"
	"github.com/bubblepop/bubblepop/game"
	"golang.org/x/net/websocket"
)

// errActorStopping signals cleanup caused by actor shutdown rather than a
// connection failure.
var errActorStopping = errors.New("connection handler actor stopping")

// ConnectionHandlerActor manages one controller websocket: it obtains a
// session from the manager, then pumps parsed input events into it until
// the connection dies.
type ConnectionHandlerActor struct {
	conn       *websocket.Conn
	engine     *bollywood.Engine
	managerPID *bollywood.PID
	sessionPID *bollywood.PID
	selfPID    *bollywood.PID
	connAddr   string
	isAssigned bool
	done       chan struct{} // closed when the actor fully stops
	closeOnce  sync.Once
}

// ConnectionHandlerArgs holds arguments for creating the actor.
type ConnectionHandlerArgs struct {
	Conn       *websocket.Conn
	Engine     *bollywood.Engine
	ManagerPID *bollywood.PID
	Done       chan struct{}
}

// NewConnectionHandlerProducer creates a producer for ConnectionHandlerActor.
func NewConnectionHandlerProducer(args ConnectionHandlerArgs) bollywood.Producer {
	return func() bollywood.Actor {
		addr := "unknown"
		if args.Conn != nil {
			addr = args.Conn.RemoteAddr().String()
		}
		return &ConnectionHandlerActor{
			conn:       args.Conn,
			engine:     args.Engine,
			managerPID: args.ManagerPID,
			connAddr:   addr,
			done:       args.Done,
		}
	}
}

// Receive handles messages for the ConnectionHandlerActor.
func (a *ConnectionHandlerActor) Receive(ctx bollywood.Context) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in ConnectionHandlerActor %s Receive: %v\nStack trace:\n%s\n",
				a.connAddr, r, string(debug.Stack()))
			a.cleanup(fmt.Errorf("panic in Receive: %v", r))
		}
	}()

	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		if a.managerPID == nil {
			fmt.Printf("ERROR: ConnectionHandlerActor %s: no manager PID. Stopping.\n", a.connAddr)
			a.cleanup(errors.New("missing manager PID"))
			return
		}
		a.engine.Send(a.managerPID, game.FindSessionRequest{ReplyTo: a.selfPID}, a.selfPID)

	case game.AssignSessionResponse:
		if msg.SessionPID == nil {
			fmt.Printf("ConnectionHandlerActor %s: session assignment failed. Closing connection.\n", a.connAddr)
			a.cleanup(errors.New("session assignment failed (nil PID)"))
			return
		}
		a.sessionPID = msg.SessionPID
		a.isAssigned = true
		a.engine.Send(a.sessionPID, game.AssignControllerToSession{WsConn: a.conn}, a.selfPID)
		go a.readLoop(a.engine, a.selfPID)

	case game.InternalReadLoopMsg:
		if a.isAssigned && a.sessionPID != nil {
			a.engine.Send(a.sessionPID, game.ForwardedControllerInput{
				WsConn: a.conn,
				Input:  msg.Input,
			}, a.selfPID)
		}

	case error:
		a.cleanup(msg)

	case bollywood.Stopping:
		a.performCleanupActions(errActorStopping)

	case bollywood.Stopped:
		a.closeOnce.Do(func() {
			if a.done != nil {
				close(a.done)
				a.done = nil
			}
		})

	default:
		fmt.Printf("ConnectionHandlerActor %s: unexpected message type %T\n", a.connAddr, msg)
	}
}

// readLoop decodes controller messages until the connection fails, then
// notifies the actor.
func (a *ConnectionHandlerActor) readLoop(engine *bollywood.Engine, selfPID *bollywood.PID) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in ConnectionHandlerActor %s readLoop: %v\nStack trace:\n%s\n",
				a.connAddr, r, string(debug.Stack()))
		}
	}()

	for {
		var input game.ControllerInput
		err := websocket.JSON.Receive(a.conn, &input)
		if err != nil {
			isClosedErr := err == io.EOF ||
				strings.Contains(err.Error(), "use of closed network connection") ||
				strings.Contains(err.Error(), "closed")
			if !isClosedErr {
				fmt.Printf("ConnectionHandlerActor %s: receive error: %v\n", a.connAddr, err)
			}
			engine.Send(selfPID, fmt.Errorf("read loop exited: %w", err), selfPID)
			return
		}
		engine.Send(selfPID, game.InternalReadLoopMsg{Input: input}, selfPID)
	}
}

// cleanup tears the handler down after a connection failure.
func (a *ConnectionHandlerActor) cleanup(reason error) {
	a.performCleanupActions(reason)
	if a.selfPID != nil {
		a.engine.Stop(a.selfPID)
	}
}

// performCleanupActions notifies the session and closes the connection.
func (a *ConnectionHandlerActor) performCleanupActions(reason error) {
	if a.isAssigned && a.sessionPID != nil {
		a.engine.Send(a.sessionPID, game.ControllerDisconnect{WsConn: a.conn}, a.selfPID)
		a.isAssigned = false
	}
	if a.conn != nil {
		_ = a.conn.Close()
	}
	if reason != nil && reason != errActorStopping {
		fmt.Printf("ConnectionHandlerActor %s: closed (%v)\n", a.connAddr, reason)
	}
}
