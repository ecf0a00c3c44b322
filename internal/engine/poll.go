package engine

import "parallax/pkg/client"

// SubmitResult lands the outcome of a Submit effect. Outcomes from a
// superseded cycle are dropped. The returned response is non-nil exactly
// when the host should route its cards; the effects say what runs next.
func (m *Machine) SubmitResult(cycle uint64, res *client.Response, err error) (*client.Response, []Effect) {
	if cycle != m.cycle || m.state != StateSubmitting {
		return nil, nil
	}

	if err != nil {
		m.lastErr = err
		return nil, m.rearm()
	}

	if res.Processing {
		m.state = StatePolling
		return res, []Effect{SchedulePoll{Cycle: m.cycle, Interval: m.pollInterval}}
	}

	return res, m.rearm()
}

// PollResult lands the outcome of a SchedulePoll effect. Any error ends the
// cycle; no further polls are scheduled. Each applied response is the
// authoritative snapshot for the cycle, so the host replaces, never merges.
func (m *Machine) PollResult(cycle uint64, res *client.Response, err error) (*client.Response, []Effect) {
	if cycle != m.cycle || m.state != StatePolling {
		return nil, nil
	}

	if err != nil {
		m.lastErr = err
		return nil, m.rearm()
	}

	if res.Processing {
		return res, []Effect{SchedulePoll{Cycle: m.cycle, Interval: m.pollInterval}}
	}

	return res, m.rearm()
}
