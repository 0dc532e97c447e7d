// File: game/session_actor_handlers.go
package game

import (
	"fmt"
	"time"

	"github.com/bubblepop/bubblepop/utils"
	"golang.org/x/net/websocket"
)

// handleControllerAssigned binds (or re-binds) the controller connection.
// A returning controller resumes a paused session.
func (a *GameSessionActor) handleControllerAssigned(conn *websocket.Conn) {
	if conn == nil {
		return
	}
	a.controllerConn = conn
	a.sendToController(a.snapshot())
	if a.paused {
		a.resume()
	}
}

// handleControllerDisconnect pauses the session when its controller drops.
func (a *GameSessionActor) handleControllerDisconnect(conn *websocket.Conn) {
	if conn != nil && conn != a.controllerConn {
		return
	}
	a.controllerConn = nil
	if a.paused {
		return
	}
	a.paused = true
	a.stopDescentTimer()
	// Warning countdowns do not survive a pause; Idle restarts on resume.
	a.descentState = descentIdle
	a.emit(SessionPaused{MessageType: "sessionPaused"})
	a.engine.Send(a.managerPID, SessionPauseChanged{SessionPID: a.selfPID, Paused: true}, a.selfPID)
}

// resume lifts the paused flag, replays timer firings held back during the
// pause and restarts the descent Idle delay from scratch.
func (a *GameSessionActor) resume() {
	a.paused = false
	a.emit(SessionResumed{MessageType: "sessionResumed"})
	a.engine.Send(a.managerPID, SessionPauseChanged{SessionPID: a.selfPID, Paused: false}, a.selfPID)

	replay := a.deferred
	a.deferred = nil
	for _, msg := range replay {
		a.engine.Send(a.selfPID, msg, a.selfPID)
	}

	if !a.terminal {
		a.scheduleDescentIdle()
	}
}

// handleControllerInput dispatches one parsed controller event.
func (a *GameSessionActor) handleControllerInput(input ControllerInput) {
	switch input.MessageType {
	case "aim":
		a.handleAim(input.Angle)
	case "shoot":
		a.handleShoot(input.Angle)
	case "restart":
		a.handleRestart()
	case "initials":
		a.handleInitials(input.Initials)
	default:
		fmt.Printf("GameSessionActor %s: unknown controller input %q\n", a.selfPID, input.MessageType)
	}
}

// handleAim updates the live preview. Idempotent; only the latest angle is
// retained. No effect while paused or terminal.
func (a *GameSessionActor) handleAim(angle float64) {
	if a.paused || a.terminal {
		return
	}
	a.aimAngle = utils.Clamp(angle, a.cfg.MinAimAngle, a.cfg.MaxAimAngle)
	preview := SimulateTrajectory(a.cfg, a.grid, a.aimAngle, a.cfg.PreviewBounceCap)
	a.emit(PreviewUpdate{MessageType: "previewUpdate", Angle: a.aimAngle, Points: preview.Points})
}

// handleShoot resolves one shot. Shots are serialized: a new one is
// rejected while a previous shot is still in flight.
func (a *GameSessionActor) handleShoot(angle float64) {
	if a.paused || a.terminal || a.inFlight {
		return
	}

	a.aimAngle = utils.Clamp(angle, a.cfg.MinAimAngle, a.cfg.MaxAimAngle)
	result := SimulateTrajectory(a.cfg, a.grid, a.aimAngle, -1)
	if result.Kind == StopTruncated {
		// Step ceiling exhausted; treat like the no-placement fallback.
		fmt.Printf("WARN: GameSessionActor %s: shot at %.1f exhausted step ceiling, discarding\n",
			a.selfPID, a.aimAngle)
		a.emit(ShotDiscarded{MessageType: "shotDiscarded", Stop: result.Stop})
		return
	}

	a.inFlight = true
	a.pendingStop = result.Stop
	a.shotColor = a.nextColor
	a.nextColor = utils.RandomColor(a.progression.UnlockedColors())

	flight := time.Duration(result.PathLength / a.cfg.ShotSpeed * float64(time.Second))
	a.emit(ShotFired{
		MessageType: "shotFired",
		Color:       a.shotColor,
		Points:      result.Points,
		FlightMs:    float64(flight.Milliseconds()),
	})

	epoch := a.epoch
	time.AfterFunc(flight, func() {
		a.engine.Send(a.selfPID, shotLandedMsg{Epoch: epoch}, nil)
	})
}

// handleShotLanded settles the in-flight bubble once its flight time is up.
// The placement is looked up against the grid as it stands now, not as it
// stood at launch: a descent may have landed in between.
func (a *GameSessionActor) handleShotLanded(m shotLandedMsg) {
	if m.Epoch != a.epoch {
		return
	}
	if a.paused {
		a.deferred = append(a.deferred, m)
		return
	}
	if !a.inFlight {
		return
	}
	a.inFlight = false

	cell, ok := FindPlacement(a.grid, a.pendingStop)
	if !ok {
		// Should not happen under correct geometry; recoverable anomaly.
		fmt.Printf("WARN: GameSessionActor %s: no placement candidate near (%.1f, %.1f), shot discarded\n",
			a.selfPID, a.pendingStop.X, a.pendingStop.Y)
		a.emit(ShotDiscarded{MessageType: "shotDiscarded", Stop: a.pendingStop})
		return
	}

	bubble := a.grid.Insert(cell.Row, cell.Col, a.shotColor)
	if bubble == nil {
		fmt.Printf("WARN: GameSessionActor %s: placement cell (%d, %d) rejected insert, shot discarded\n",
			a.selfPID, cell.Row, cell.Col)
		a.emit(ShotDiscarded{MessageType: "shotDiscarded", Stop: a.pendingStop})
		return
	}

	events := []interface{}{BubbleSettled{MessageType: "bubbleSettled", Bubble: *bubble}}

	component := FindConnectedSameColor(a.grid, bubble)
	if len(component) >= a.cfg.PopThreshold {
		cells := make([]Cell, 0, len(component))
		for _, member := range component {
			cells = append(cells, Cell{Row: member.Row, Col: member.Col})
			a.grid.Remove(member)
		}
		events = append(events, BubblesPopped{MessageType: "bubblesPopped", Color: bubble.Color, Cells: cells})
		events = append(events, a.creditScore(len(component)*a.cfg.PointsPerPop, "pop", bubble.X, bubble.Y)...)
		a.scheduleFloatCheck()
	}

	events = append(events, a.snapshot())
	a.emit(events...)
	a.checkTerminal()
}

// scheduleFloatCheck arms the deferred post-pop connectivity check. The
// delay only sequences with pop presentation; the computation itself is
// synchronous when the message lands.
func (a *GameSessionActor) scheduleFloatCheck() {
	epoch := a.epoch
	time.AfterFunc(a.cfg.FloatCheckDelay, func() {
		a.engine.Send(a.selfPID, floatCheckMsg{Epoch: epoch}, nil)
	})
}

// handleFloatCheck detaches every cluster no longer reachable from row 0.
func (a *GameSessionActor) handleFloatCheck(m floatCheckMsg) {
	if m.Epoch != a.epoch {
		return
	}
	if a.paused {
		a.deferred = append(a.deferred, m)
		return
	}
	a.runFloatCheck()
}

// runFloatCheck performs the ceiling-connectivity sweep immediately.
func (a *GameSessionActor) runFloatCheck() {
	floating := FindFloating(a.grid)
	if len(floating) == 0 {
		return
	}

	detached := make([]Bubble, 0, len(floating))
	var anchorX, anchorY float64
	for _, bubble := range floating {
		a.grid.Detach(bubble)
		a.falling = append(a.falling, bubble)
		detached = append(detached, *bubble)
		anchorX, anchorY = bubble.X, bubble.Y
	}

	events := []interface{}{BubblesDetached{MessageType: "bubblesDetached", Bubbles: detached}}
	events = append(events, a.creditScore(len(floating)*a.cfg.PointsPerFall, "fall", anchorX, anchorY)...)
	events = append(events, a.snapshot())
	a.emit(events...)
}

// creditScore applies a score delta, collects any palette unlocks it
// crossed, and reschedules a running Idle descent timer for the shorter
// interval the new score may imply.
func (a *GameSessionActor) creditScore(points int, kind string, x, y float64) []interface{} {
	unlocks := a.progression.AddScore(points)

	events := []interface{}{ScoreDelta{
		MessageType: "scoreDelta",
		Kind:        kind,
		Points:      points,
		Score:       a.progression.Score(),
		X:           x,
		Y:           y,
	}}
	for _, unlock := range unlocks {
		events = append(events, ColorUnlocked{MessageType: "colorUnlocked", Unlock: unlock})
	}

	if a.descentState == descentIdle && !a.paused && !a.terminal {
		a.scheduleDescentIdle()
	}
	return events
}

// checkTerminal scans for overflow past the bottom boundary and, when
// found, drives the session into its terminal state: timers stopped, input
// frozen, outcome surfaced.
func (a *GameSessionActor) checkTerminal() {
	if a.terminal || !a.grid.Overflowed() {
		return
	}

	a.terminal = true
	a.epoch++
	a.stopDescentTimer()
	a.inFlight = false

	finalScore := a.progression.Score()
	qualified := false
	if a.managerPID != nil {
		reply, err := a.engine.Ask(a.managerPID, HighScoreQualifyRequest{Score: finalScore}, AskTimeout)
		if err != nil {
			fmt.Printf("WARN: GameSessionActor %s: high score query failed: %v\n", a.selfPID, err)
		} else if resp, isResp := reply.(HighScoreQualifyResponse); isResp {
			qualified = resp.Qualified
		}
	}

	gameOver := GameOverMessage{
		MessageType: "gameOver",
		FinalScore:  finalScore,
		Qualified:   qualified,
		SessionPID:  a.selfPID.String(),
	}
	a.emit(gameOver)
	a.sendToController(gameOver)

	if qualified {
		a.awaitingInitials = true
		a.sendToController(EnterInitialsRequest{
			MessageType: "enterInitials",
			FinalScore:  finalScore,
			TimeoutMs:   a.cfg.InitialsTimeout.Milliseconds(),
		})
		epoch := a.epoch
		time.AfterFunc(a.cfg.InitialsTimeout, func() {
			a.engine.Send(a.selfPID, initialsTimeoutMsg{Epoch: epoch}, nil)
		})
	}
}

// handleInitials finalizes a qualifying score with the submitted initials.
func (a *GameSessionActor) handleInitials(initials string) {
	if !a.awaitingInitials {
		return
	}
	a.awaitingInitials = false
	a.epoch++ // cancels the pending initials timeout
	a.engine.Send(a.managerPID, SubmitHighScore{Initials: initials, Score: a.progression.Score()}, a.selfPID)
}

// handleInitialsTimeout submits an empty result when the controller never
// answered the initials request. It fires even while paused: a controller
// that dropped without answering should not hold the entry open.
func (a *GameSessionActor) handleInitialsTimeout(m initialsTimeoutMsg) {
	if m.Epoch != a.epoch || !a.awaitingInitials {
		return
	}
	a.awaitingInitials = false
	a.engine.Send(a.managerPID, SubmitHighScore{Initials: "", Score: a.progression.Score()}, a.selfPID)
}

// handleRestart resets the session to a fresh game. Allowed any time,
// including terminal; all outstanding timers die with the epoch bump.
func (a *GameSessionActor) handleRestart() {
	a.epoch++
	a.stopDescentTimer()
	a.terminal = false
	a.awaitingInitials = false
	a.inFlight = false
	a.falling = nil
	a.deferred = nil
	a.progression.Reset()
	a.grid.Seed(a.cfg.InitialRows, a.cfg.InitialColors)
	a.nextColor = utils.RandomColor(a.cfg.InitialColors)
	a.descentState = descentIdle
	if !a.paused {
		a.scheduleDescentIdle()
	}
	a.emit(a.snapshot())
	a.sendToController(a.snapshot())
}
