// File: game/session_actor.go
package game

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/bubblepop/bubblepop/bollywood"
	"github.com/bubblepop/bubblepop/utils"
	"golang.org/x/net/websocket"
)

// AskTimeout bounds the session's queries to the manager.
const AskTimeout = 100 * time.Millisecond

// GameSessionActor orchestrates one bubble session: it owns the grid, the
// progression, the falling-bubble collection and the descent state machine,
// and it is the single writer for all of them. Input events arrive from the
// controller's connection handler; timers arrive as epoch-tagged
// self-messages; outcomes fan out through the session's BroadcasterActor.
type GameSessionActor struct {
	cfg         utils.Config
	geo         Geometry
	grid        *Grid
	progression *Progression
	falling     []*Bubble

	aimAngle  float64
	nextColor int

	inFlight    bool
	pendingStop Vec2
	shotColor   int

	descentState DescentState
	descentTimer *time.Timer

	// epoch is the session generation: every scheduled callback carries the
	// epoch it was armed in and no-ops when it no longer matches. Restart
	// and game over bump it instead of chasing individual timers.
	epoch int

	paused           bool
	terminal         bool
	awaitingInitials bool
	deferred         []interface{} // timer firings held back while paused

	engine         *bollywood.Engine
	selfPID        *bollywood.PID
	managerPID     *bollywood.PID
	broadcasterPID *bollywood.PID
	controllerConn *websocket.Conn

	ticker       *time.Ticker
	stopTickerCh chan struct{}
	lastTick     time.Time
}

// NewGameSessionProducer creates a producer for the GameSessionActor.
func NewGameSessionProducer(engine *bollywood.Engine, cfg utils.Config, managerPID *bollywood.PID) bollywood.Producer {
	return func() bollywood.Actor {
		geo := NewGeometry(cfg)
		grid := NewGrid(cfg, geo)
		grid.Seed(cfg.InitialRows, cfg.InitialColors)

		return &GameSessionActor{
			cfg:          cfg,
			geo:          geo,
			grid:         grid,
			progression:  NewProgression(cfg),
			aimAngle:     90,
			nextColor:    utils.RandomColor(cfg.InitialColors),
			descentState: descentIdle,
			engine:       engine,
			managerPID:   managerPID,
			stopTickerCh: make(chan struct{}),
		}
	}
}

// Receive is the main message handler for the GameSessionActor.
func (a *GameSessionActor) Receive(ctx bollywood.Context) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in GameSessionActor %s Receive: %v\nStack trace:\n%s\n",
				a.selfPID, r, string(debug.Stack()))
		}
	}()

	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch m := ctx.Message().(type) {
	case bollywood.Started:
		a.broadcasterPID = a.engine.Spawn(bollywood.NewProps(NewBroadcasterProducer(a.selfPID)))
		a.ticker = time.NewTicker(a.cfg.GameTickPeriod)
		a.lastTick = time.Now()
		go a.runTickerLoop()
		a.scheduleDescentIdle()

	case GameTick:
		a.handleTick()

	case AssignControllerToSession:
		a.handleControllerAssigned(m.WsConn)

	case ControllerDisconnect:
		a.handleControllerDisconnect(m.WsConn)

	case ForwardedControllerInput:
		a.handleControllerInput(m.Input)

	case AttachWatcher:
		a.handleAttachWatcher(m.Conn)

	case RemoveClient:
		a.engine.Send(a.broadcasterPID, m, a.selfPID)

	case descentIdleElapsedMsg:
		a.handleDescentIdleElapsed(m)

	case warningTickMsg:
		a.handleWarningTick(m)

	case shotLandedMsg:
		a.handleShotLanded(m)

	case floatCheckMsg:
		a.handleFloatCheck(m)

	case initialsTimeoutMsg:
		a.handleInitialsTimeout(m)

	case internalSeedGridTestMsg:
		for _, b := range m.Bubbles {
			a.grid.Insert(b.Row, b.Col, b.Color)
		}

	case internalGetStateRequest:
		ctx.Reply(internalGetStateResponse{
			Score:          a.progression.Score(),
			UnlockedColors: a.progression.UnlockedColors(),
			GridCount:      a.grid.Count(),
			FallingCount:   len(a.falling),
			Paused:         a.paused,
			Terminal:       a.terminal,
			InFlight:       a.inFlight,
			DescentState:   a.descentState,
		})

	case bollywood.Stopping:
		a.epoch++
		a.stopDescentTimer()
		if a.ticker != nil {
			a.ticker.Stop()
			select {
			case <-a.stopTickerCh:
			default:
				close(a.stopTickerCh)
			}
		}
		if a.broadcasterPID != nil {
			a.engine.Stop(a.broadcasterPID)
		}
		if a.controllerConn != nil {
			_ = a.controllerConn.Close()
			a.controllerConn = nil
		}

	case bollywood.Stopped:

	default:
		fmt.Printf("GameSessionActor %s: Processing unknown message type: %T\n", a.selfPID, m)
	}
}

// runTickerLoop sends GameTick messages to the actor's own mailbox.
func (a *GameSessionActor) runTickerLoop() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in GameSessionActor %s Ticker Loop: %v\nStack trace:\n%s\n",
				a.selfPID, r, string(debug.Stack()))
		}
	}()

	for {
		select {
		case <-a.stopTickerCh:
			return
		case _, ok := <-a.ticker.C:
			if !ok {
				return
			}
			a.engine.Send(a.selfPID, GameTick{}, nil)
		}
	}
}

// handleTick advances falling bubbles and sweeps the ones that left the
// playfield. Runs even while terminal so detached bubbles finish falling,
// but a pause freezes the fall. lastTick keeps advancing through the pause
// so processing resumes from the current wall clock instead of jumping by
// the pause duration.
func (a *GameSessionActor) handleTick() {
	now := time.Now()
	dt := now.Sub(a.lastTick).Seconds()
	a.lastTick = now

	if a.paused || len(a.falling) == 0 {
		return
	}

	kept := a.falling[:0]
	for _, bubble := range a.falling {
		bubble.Y += a.cfg.FallSpeed * dt
		if bubble.Y-a.cfg.BubbleRadius > a.cfg.PlayfieldHeight {
			bubble.State = StateRemoved
			continue
		}
		kept = append(kept, bubble)
	}
	a.falling = kept
	a.emit(a.snapshot())
}

// emit sends one batch of outbound events through the broadcaster.
func (a *GameSessionActor) emit(events ...interface{}) {
	if a.broadcasterPID == nil || len(events) == 0 {
		return
	}
	a.engine.Send(a.broadcasterPID, BroadcastEvents{Events: events}, a.selfPID)
}

// sendToController writes one message directly to the controller connection.
func (a *GameSessionActor) sendToController(message interface{}) {
	if a.controllerConn == nil {
		return
	}
	if err := websocket.JSON.Send(a.controllerConn, message); err != nil {
		fmt.Printf("WARN: GameSessionActor %s: controller write failed: %v\n", a.selfPID, err)
	}
}

// snapshot builds the full-state message for display clients.
func (a *GameSessionActor) snapshot() GridSnapshot {
	settled := make([]Bubble, 0, a.grid.Count())
	for _, bubble := range a.grid.All() {
		settled = append(settled, *bubble)
	}
	falling := make([]Bubble, 0, len(a.falling))
	for _, bubble := range a.falling {
		falling = append(falling, *bubble)
	}
	return GridSnapshot{
		MessageType: "gridSnapshot",
		Parity:      a.grid.Parity(),
		Score:       a.progression.Score(),
		Colors:      a.progression.UnlockedColors(),
		Paused:      a.paused,
		Settled:     settled,
		Falling:     falling,
	}
}

// handleAttachWatcher registers a display client and primes it with the
// current state.
func (a *GameSessionActor) handleAttachWatcher(conn *websocket.Conn) {
	if conn == nil {
		return
	}
	a.engine.Send(a.broadcasterPID, AddClient{Conn: conn}, a.selfPID)
	if err := websocket.JSON.Send(conn, a.snapshot()); err != nil {
		fmt.Printf("WARN: GameSessionActor %s: watcher prime failed: %v\n", a.selfPID, err)
	}
}
