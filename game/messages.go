// File: game/messages.go
package game

import (
	"github.com/bubblepop/bubblepop/bollywood"
	"golang.org/x/net/websocket"
)

// --- WebSocket Messages (Controller -> Server) ---

// ControllerInput is the single inbound message shape from a controller.
// MessageType selects the event: "aim", "shoot", "restart", "initials".
type ControllerInput struct {
	MessageType string  `json:"messageType"`
	Angle       float64 `json:"angle"`    // degrees, 90 = straight up; aim/shoot
	Initials    string  `json:"initials"` // initials submission
}

// --- WebSocket Messages (Server -> Display/Controller clients) ---

// PreviewUpdate carries the live trajectory preview polyline for the
// latest aim angle.
type PreviewUpdate struct {
	MessageType string  `json:"messageType"` // "previewUpdate"
	Angle       float64 `json:"angle"`
	Points      []Vec2  `json:"points"`
}

// ShotFired announces a resolved launch: the flight path for animation and
// the wall-clock flight duration in milliseconds.
type ShotFired struct {
	MessageType string  `json:"messageType"` // "shotFired"
	Color       int     `json:"color"`
	Points      []Vec2  `json:"points"`
	FlightMs    float64 `json:"flightMs"`
}

// BubbleSettled announces where the shot bubble landed.
type BubbleSettled struct {
	MessageType string `json:"messageType"` // "bubbleSettled"
	Bubble      Bubble `json:"bubble"`
}

// ShotDiscarded announces the no-placement fallback: the shot
// bubble vanished without effect.
type ShotDiscarded struct {
	MessageType string `json:"messageType"` // "shotDiscarded"
	Stop        Vec2   `json:"stop"`
}

// ScoreDelta carries one score credit with a world position for score-popup
// placement. Kind is "pop" or "fall".
type ScoreDelta struct {
	MessageType string  `json:"messageType"` // "scoreDelta"
	Kind        string  `json:"kind"`
	Points      int     `json:"points"`
	Score       int     `json:"score"` // cumulative after the credit
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// BubblesPopped lists the cells of a removed same-color component.
type BubblesPopped struct {
	MessageType string `json:"messageType"` // "bubblesPopped"
	Color       int    `json:"color"`
	Cells       []Cell `json:"cells"`
}

// BubblesDetached lists the bubbles of clusters that lost their ceiling
// connection and started falling.
type BubblesDetached struct {
	MessageType string   `json:"messageType"` // "bubblesDetached"
	Bubbles     []Bubble `json:"bubbles"`
}

// ColorUnlocked announces a one-time palette unlock.
type ColorUnlocked struct {
	MessageType string      `json:"messageType"` // "colorUnlocked"
	Unlock      ColorUnlock `json:"unlock"`
}

// DescentWarning is a countdown tick toward an imminent descent.
type DescentWarning struct {
	MessageType string `json:"messageType"` // "descentWarning"
	TicksLeft   int    `json:"ticksLeft"`
}

// DescentCompleted announces a finished downward shift.
type DescentCompleted struct {
	MessageType string `json:"messageType"` // "descentCompleted"
	Injected    int    `json:"injected"`    // bubbles in the fresh top row
}

// GridSnapshot is the full settled + falling state, sent on watcher attach
// and after grid mutations.
type GridSnapshot struct {
	MessageType string   `json:"messageType"` // "gridSnapshot"
	Parity      int      `json:"parity"`
	Score       int      `json:"score"`
	Colors      int      `json:"colors"`
	Paused      bool     `json:"paused"`
	Settled     []Bubble `json:"settled"`
	Falling     []Bubble `json:"falling"`
}

// SessionPaused / SessionResumed mirror the controller connection state.
type SessionPaused struct {
	MessageType string `json:"messageType"` // "sessionPaused"
}
type SessionResumed struct {
	MessageType string `json:"messageType"` // "sessionResumed"
}

// GameOverMessage signals the terminal state with the final outcome.
type GameOverMessage struct {
	MessageType string `json:"messageType"` // "gameOver"
	FinalScore  int    `json:"finalScore"`
	Qualified   bool   `json:"qualified"` // earns a leaderboard slot
	SessionPID  string `json:"sessionPid"`
}

// EnterInitialsRequest asks the controller for initials after a qualifying
// score. The session finalizes with "---" if no reply arrives in time.
type EnterInitialsRequest struct {
	MessageType string `json:"messageType"` // "enterInitials"
	FinalScore  int    `json:"finalScore"`
	TimeoutMs   int64  `json:"timeoutMs"`
}

// HighScoreList is the reply payload for the leaderboard endpoint.
type HighScoreList struct {
	MessageType string           `json:"messageType"` // "highScores"
	Entries     []HighScoreEntry `json:"entries"`
}

// --- Actor Messages (Internal Communication) ---

// --- SessionManagerActor Messages ---

// FindSessionRequest asks the manager to create a session for a controller.
type FindSessionRequest struct {
	ReplyTo *bollywood.PID // ConnectionHandlerActor awaiting the assignment
}

// AssignSessionResponse is the manager's reply with the session PID.
type AssignSessionResponse struct {
	SessionPID *bollywood.PID // nil if no session could be created
}

// SessionEnded notifies the manager that a session actor is gone.
type SessionEnded struct {
	SessionPID *bollywood.PID
}

// SessionPauseChanged keeps the manager's session listing current.
type SessionPauseChanged struct {
	SessionPID *bollywood.PID
	Paused     bool
}

// AttachWatcher routes a display client to a session's broadcaster.
// SessionID "" means the most recently created session.
type AttachWatcher struct {
	Conn      *websocket.Conn
	SessionID string
}

// GetSessionListRequest asks the manager for active sessions (used via Ask).
type GetSessionListRequest struct{}

// SessionListResponse maps session PID strings to their paused state.
type SessionListResponse struct {
	Sessions map[string]bool
}

// HighScoreQualifyRequest asks whether a final score earns a slot (Ask).
type HighScoreQualifyRequest struct {
	Score int
}

// HighScoreQualifyResponse is the reply to HighScoreQualifyRequest.
type HighScoreQualifyResponse struct {
	Qualified bool
}

// SubmitHighScore records a finished session's qualifying score.
type SubmitHighScore struct {
	Initials string
	Score    int
}

// GetHighScoresRequest asks the manager for the leaderboard (Ask).
type GetHighScoresRequest struct{}

// --- GameSessionActor Messages ---

// AssignControllerToSession binds a controller connection to the session.
type AssignControllerToSession struct {
	WsConn *websocket.Conn
}

// ControllerDisconnect tells the session its controller connection is gone;
// the session pauses until a controller returns.
type ControllerDisconnect struct {
	WsConn *websocket.Conn
}

// ForwardedControllerInput carries one parsed controller event.
type ForwardedControllerInput struct {
	WsConn *websocket.Conn
	Input  ControllerInput
}

// GameTick signals the session to advance falling bubbles and broadcast.
type GameTick struct{}

// --- Timer self-messages. Every scheduled callback carries the session
// epoch it was armed in and no-ops on a stale epoch or an unexpected
// descent state (pause, restart and game over bump the epoch). ---

// descentIdleElapsedMsg fires when the Idle delay toward a descent runs out.
type descentIdleElapsedMsg struct {
	Epoch int
}

// warningTickMsg fires one Warning countdown tick.
type warningTickMsg struct {
	Epoch     int
	TicksLeft int
}

// shotLandedMsg fires when the in-flight bubble's flight time elapses.
type shotLandedMsg struct {
	Epoch int
}

// floatCheckMsg fires the deferred post-pop ceiling-connectivity check.
type floatCheckMsg struct {
	Epoch int
}

// initialsTimeoutMsg finalizes a qualifying score with empty initials.
type initialsTimeoutMsg struct {
	Epoch int
}

// --- BroadcasterActor Messages ---

// AddClient tells the Broadcaster to start sending updates to a connection.
type AddClient struct {
	Conn *websocket.Conn
}

// RemoveClient tells the Broadcaster to stop sending to a connection.
type RemoveClient struct {
	Conn *websocket.Conn
}

// BroadcastEvents sends a batch of outbound event messages to all clients.
type BroadcastEvents struct {
	Events []interface{}
}

// --- ConnectionHandlerActor Messages ---

// InternalReadLoopMsg wraps one decoded controller message for the handler.
type InternalReadLoopMsg struct {
	Input ControllerInput
}

// --- Internal Test Messages ---

// internalSeedGridTestMsg lets tests place settled bubbles directly.
type internalSeedGridTestMsg struct {
	Bubbles []struct {
		Row, Col, Color int
	}
}

// internalGetStateRequest asks the session for a state summary (Ask).
type internalGetStateRequest struct{}

// internalGetStateResponse is the reply to internalGetStateRequest.
type internalGetStateResponse struct {
	Score          int
	UnlockedColors int
	GridCount      int
	FallingCount   int
	Paused         bool
	Terminal       bool
	InFlight       bool
	DescentState   DescentState
}
