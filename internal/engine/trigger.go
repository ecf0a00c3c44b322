package engine

import (
	"time"

	"parallax/internal/config"
)

// State names the phase of the current fulfillment cycle.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StatePolling
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StatePolling:
		return "polling"
	default:
		return "idle"
	}
}

// Machine is the debounce/trigger controller and poll loop for one session.
// It owns no timers and makes no network calls; it converts events into
// Effect values and validates every asynchronous outcome against generation
// counters. Single-threaded by contract: the host calls it from one event
// loop only.
type Machine struct {
	threshold    int
	idleDelay    time.Duration
	pollInterval time.Duration

	state        State
	pendingDelta int

	// timerGen invalidates superseded idle timers; cycle invalidates
	// superseded submit/poll outcomes.
	timerGen uint64
	cycle    uint64

	lastErr error
}

func NewMachine(cfg config.EditorSyncConfig) *Machine {
	return &Machine{
		threshold:    cfg.ChangeThreshold,
		idleDelay:    cfg.IdleDelay,
		pollInterval: cfg.PollInterval,
	}
}

func (m *Machine) State() State      { return m.state }
func (m *Machine) PendingDelta() int { return m.pendingDelta }
func (m *Machine) Cycle() uint64     { return m.cycle }
func (m *Machine) LastErr() error    { return m.lastErr }

// NoteEdit records one document edit of |delta| characters. Once the
// accumulated delta reaches the threshold and no cycle is in flight, each
// further edit restarts the idle timer. The delta is only reset when a
// submit actually fires.
func (m *Machine) NoteEdit(delta int) []Effect {
	if delta < 0 {
		delta = -delta
	}
	m.pendingDelta += delta

	if m.state != StateIdle || m.pendingDelta < m.threshold {
		return nil
	}

	m.timerGen++
	return []Effect{StartIdleTimer{Generation: m.timerGen, Delay: m.idleDelay}}
}

// IdleTimerFired handles an idle timer expiring. Timers restarted by a later
// edit, or obsoleted by a cycle that started meanwhile, are ignored.
func (m *Machine) IdleTimerFired(generation uint64) []Effect {
	if generation != m.timerGen || m.state != StateIdle {
		return nil
	}

	m.state = StateSubmitting
	m.cycle++
	m.pendingDelta = 0
	m.lastErr = nil
	return []Effect{Submit{Cycle: m.cycle}}
}

// rearm returns to idle and, when edits accumulated past the threshold while
// the cycle ran, immediately starts a fresh idle timer.
func (m *Machine) rearm() []Effect {
	m.state = StateIdle
	if m.pendingDelta < m.threshold {
		return nil
	}
	m.timerGen++
	return []Effect{StartIdleTimer{Generation: m.timerGen, Delay: m.idleDelay}}
}
