package engine

import "time"

// Effect is an instruction the state machine hands back to its host instead
// of performing I/O itself. The host (the editor event loop) executes each
// effect and reports the outcome through the matching Machine method, tagging
// it with the effect's generation so stale outcomes can be discarded.
type Effect interface {
	effect()
}

// StartIdleTimer asks the host to wait Delay and then call IdleTimerFired
// with this generation. Firing an outdated generation is a no-op, which is
// how debounce resets work on hosts whose timers cannot be cancelled.
type StartIdleTimer struct {
	Generation uint64
	Delay      time.Duration
}

// Submit asks the host to snapshot the document and issue the submit call,
// reporting through SubmitResult.
type Submit struct {
	Cycle uint64
}

// SchedulePoll asks the host to wait Interval, issue one poll call, and
// report through PollResult.
type SchedulePoll struct {
	Cycle    uint64
	Interval time.Duration
}

func (StartIdleTimer) effect() {}
func (Submit) effect()         {}
func (SchedulePoll) effect()   {}
