// File: game/session_actor_descent.go
package game

import (
	"time"
)

// DescentState names the phases of the periodic grid compression.
type DescentState string

const (
	// descentIdle: timer running toward the next descent.
	descentIdle DescentState = "idle"
	// descentWarning: fixed countdown, descent imminent.
	descentWarning DescentState = "warning"
	// descentDescending: the one-shot shift is in progress.
	descentDescending DescentState = "descending"
)

// descentIdleDelay is the Idle portion of the interval: the score-dependent
// interval minus the fixed warning countdown.
func (a *GameSessionActor) descentIdleDelay() time.Duration {
	interval := a.progression.IntervalForScore(a.progression.Score())
	warning := time.Duration(a.cfg.WarningTicks) * a.cfg.WarningTickPeriod
	delay := interval - warning
	if delay < 0 {
		delay = 0
	}
	return delay
}

// scheduleDescentIdle (re)arms the Idle timer. Called at session start,
// after every completed descent, on resume, and whenever a score gain
// during Idle shortens the running interval.
func (a *GameSessionActor) scheduleDescentIdle() {
	a.stopDescentTimer()
	a.descentState = descentIdle

	epoch := a.epoch
	a.descentTimer = time.AfterFunc(a.descentIdleDelay(), func() {
		a.engine.Send(a.selfPID, descentIdleElapsedMsg{Epoch: epoch}, nil)
	})
}

func (a *GameSessionActor) stopDescentTimer() {
	if a.descentTimer != nil {
		a.descentTimer.Stop()
		a.descentTimer = nil
	}
}

// handleDescentIdleElapsed moves Idle -> Warning and emits the first
// countdown tick. A firing that races a pause is dropped: the Warning is
// deferred and the full Idle delay restarts on resume instead.
func (a *GameSessionActor) handleDescentIdleElapsed(m descentIdleElapsedMsg) {
	if m.Epoch != a.epoch || a.terminal {
		return
	}
	if a.paused {
		a.descentState = descentIdle
		return
	}
	if a.descentState != descentIdle {
		return
	}

	a.descentState = descentWarning
	a.emit(DescentWarning{MessageType: "descentWarning", TicksLeft: a.cfg.WarningTicks})
	a.scheduleWarningTick(a.cfg.WarningTicks - 1)
}

func (a *GameSessionActor) scheduleWarningTick(ticksLeft int) {
	epoch := a.epoch
	time.AfterFunc(a.cfg.WarningTickPeriod, func() {
		a.engine.Send(a.selfPID, warningTickMsg{Epoch: epoch, TicksLeft: ticksLeft}, nil)
	})
}

// handleWarningTick emits the remaining countdown ticks, then descends.
// Score gains during Warning do not interrupt the countdown.
func (a *GameSessionActor) handleWarningTick(m warningTickMsg) {
	if m.Epoch != a.epoch || a.terminal {
		return
	}
	if a.paused {
		// A pause mid-countdown abandons the Warning; resume restarts Idle.
		a.descentState = descentIdle
		return
	}
	if a.descentState != descentWarning {
		return
	}

	if m.TicksLeft > 0 {
		a.emit(DescentWarning{MessageType: "descentWarning", TicksLeft: m.TicksLeft})
		a.scheduleWarningTick(m.TicksLeft - 1)
		return
	}

	a.performDescent()
}

// performDescent shifts every bubble down one row, injects a fresh top row
// from the unlocked palette, re-runs the float check, and re-arms Idle with
// the interval the current score implies.
func (a *GameSessionActor) performDescent() {
	a.descentState = descentDescending

	injected := a.grid.ShiftDown(a.progression.UnlockedColors())
	a.emit(
		DescentCompleted{MessageType: "descentCompleted", Injected: len(injected)},
		a.snapshot(),
	)

	a.runFloatCheck()
	a.checkTerminal()

	if !a.terminal {
		a.scheduleDescentIdle()
	}
}
