// File: game/session_manager.go
package game

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/bubblepop/bubblepop/bollywood"
	"github.com/bubblepop/bubblepop/utils"
)

// SessionInfo tracks one active game session.
type SessionInfo struct {
	PID     *bollywood.PID
	Created time.Time
	Paused  bool
}

// SessionManagerActor creates one GameSessionActor per controller and owns
// the retained high-score table. It is the Ask target for the HTTP status
// and leaderboard endpoints.
type SessionManagerActor struct {
	engine     *bollywood.Engine
	cfg        utils.Config
	sessions   map[string]*SessionInfo
	latest     *bollywood.PID
	highScores *HighScoreTable
	selfPID    *bollywood.PID
}

// NewSessionManagerProducer creates a producer for the SessionManagerActor.
func NewSessionManagerProducer(engine *bollywood.Engine, cfg utils.Config) bollywood.Producer {
	return func() bollywood.Actor {
		return &SessionManagerActor{
			engine:     engine,
			cfg:        cfg,
			sessions:   make(map[string]*SessionInfo),
			highScores: NewHighScoreTable(cfg.HighScoreSize),
		}
	}
}

// Receive handles messages for the SessionManagerActor.
func (a *SessionManagerActor) Receive(ctx bollywood.Context) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in SessionManagerActor %s Receive: %v\nStack trace:\n%s\n",
				a.selfPID, r, string(debug.Stack()))
			if ctx.RequestID() != "" {
				ctx.Reply(fmt.Errorf("session manager panicked: %v", r))
			}
		}
	}()

	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch m := ctx.Message().(type) {
	case bollywood.Started:

	case FindSessionRequest:
		a.handleFindSession(m)

	case SessionEnded:
		if m.SessionPID != nil {
			delete(a.sessions, m.SessionPID.ID)
			if a.latest != nil && a.latest.ID == m.SessionPID.ID {
				a.latest = nil
			}
		}

	case AttachWatcher:
		a.handleAttachWatcher(m)

	case SessionPauseChanged:
		if m.SessionPID != nil {
			if info, ok := a.sessions[m.SessionPID.ID]; ok {
				info.Paused = m.Paused
			}
		}

	case GetSessionListRequest:
		sessions := make(map[string]bool, len(a.sessions))
		for id, info := range a.sessions {
			sessions[id] = info.Paused
		}
		ctx.Reply(SessionListResponse{Sessions: sessions})

	case HighScoreQualifyRequest:
		ctx.Reply(HighScoreQualifyResponse{Qualified: a.highScores.Qualifies(m.Score)})

	case SubmitHighScore:
		rank := a.highScores.Submit(m.Initials, m.Score)
		if rank > 0 {
			fmt.Printf("SessionManager %s: high score %d (%q) entered at rank %d\n",
				a.selfPID, m.Score, m.Initials, rank)
		}

	case GetHighScoresRequest:
		ctx.Reply(HighScoreList{MessageType: "highScores", Entries: a.highScores.Entries()})

	case bollywood.Stopping:
		for _, info := range a.sessions {
			a.engine.Stop(info.PID)
		}
		a.sessions = make(map[string]*SessionInfo)

	case bollywood.Stopped:

	default:
		fmt.Printf("SessionManagerActor %s: Processing unknown message type: %T\n", a.selfPID, m)
	}
}

// handleFindSession spawns a fresh session for a controller, up to the
// configured cap.
func (a *SessionManagerActor) handleFindSession(m FindSessionRequest) {
	if m.ReplyTo == nil {
		return
	}
	if len(a.sessions) >= a.cfg.MaxSessions {
		fmt.Printf("SessionManager %s: session cap (%d) reached, rejecting controller\n",
			a.selfPID, a.cfg.MaxSessions)
		a.engine.Send(m.ReplyTo, AssignSessionResponse{SessionPID: nil}, a.selfPID)
		return
	}

	sessionPID := a.engine.Spawn(bollywood.NewProps(NewGameSessionProducer(a.engine, a.cfg, a.selfPID)))
	if sessionPID == nil {
		a.engine.Send(m.ReplyTo, AssignSessionResponse{SessionPID: nil}, a.selfPID)
		return
	}

	a.sessions[sessionPID.ID] = &SessionInfo{PID: sessionPID, Created: time.Now()}
	a.latest = sessionPID
	a.engine.Send(m.ReplyTo, AssignSessionResponse{SessionPID: sessionPID}, a.selfPID)
}

// handleAttachWatcher routes a display client to the named session, or the
// most recently created one when no id is given.
func (a *SessionManagerActor) handleAttachWatcher(m AttachWatcher) {
	if m.Conn == nil {
		return
	}

	var target *bollywood.PID
	if m.SessionID != "" {
		if info, ok := a.sessions[m.SessionID]; ok {
			target = info.PID
		}
	} else if a.latest != nil {
		target = a.latest
	} else {
		for _, info := range a.sessions {
			target = info.PID
			break
		}
	}

	if target == nil {
		fmt.Printf("SessionManager %s: no session for watcher, closing connection\n", a.selfPID)
		_ = m.Conn.Close()
		return
	}
	a.engine.Send(target, m, a.selfPID)
}
