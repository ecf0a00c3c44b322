package tui

import (
	"fmt"

	"parallax/internal/engine"
	"parallax/pkg/card"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case idleTimerMsg:
		cmds = m.runEffects(m.machine.IdleTimerFired(msg.generation))
		if m.machine.State() == engine.StateSubmitting {
			m.setStatus("fulfilling…", false)
		}
		return m, tea.Batch(cmds...)

	case submitDoneMsg:
		res, effects := m.machine.SubmitResult(msg.cycle, msg.res, msg.err)
		if res != nil {
			m.applySnapshot(res)
		}
		m.reportCycle(msg.err)
		return m, tea.Batch(m.runEffects(effects)...)

	case pollDueMsg:
		// A tick from a superseded cycle must not issue a network call.
		if msg.cycle != m.machine.Cycle() {
			return m, nil
		}
		return m, m.pollCmd(msg.cycle)

	case pollDoneMsg:
		res, effects := m.machine.PollResult(msg.cycle, msg.res, msg.err)
		if res != nil {
			m.applySnapshot(res)
		}
		m.reportCycle(msg.err)
		return m, tea.Batch(m.runEffects(effects)...)

	case clearDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("clear failed: %v", msg.err), true)
		} else {
			m.setStatus("session cleared", false)
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("save failed: %v", msg.err), true)
		} else {
			m.dirty = false
			m.setStatus("saved "+m.workspace.PlanPath, false)
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Accept):
		if !m.slot.Active() {
			return m, nil
		}
		inserted := len(m.slot.Text())
		newPos, ok := m.slot.Accept(m.doc, m.cursor)
		if !ok {
			return m, nil
		}
		m.cursor = newPos
		m.dirty = true
		// Acceptance is still typed text as far as the trigger is concerned.
		return m, tea.Batch(m.runEffects(m.machine.NoteEdit(inserted))...)

	case key.Matches(msg, m.keys.Reject):
		m.slot.Reject()
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		cards := m.feed.Cards()
		if m.feedSel >= len(cards) {
			return m, nil
		}
		dismissed := cards[m.feedSel]
		m.feed.Remove(dismissed.ID)
		if err := m.tracker.Dismiss(dismissed.Card); err != nil {
			m.log.Warn("tui", "failed to persist dismissal", map[string]interface{}{"error": err.Error()})
		}
		if m.feedSel >= m.feed.Len() && m.feedSel > 0 {
			m.feedSel--
		}
		return m, nil

	case key.Matches(msg, m.keys.NextCard):
		if m.feedSel < m.feed.Len()-1 {
			m.feedSel++
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevCard):
		if m.feedSel > 0 {
			m.feedSel--
		}
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m, m.saveCmd()

	case key.Matches(msg, m.keys.ClearSession):
		return m, m.clearCmd()
	}

	return m.updateEdit(msg)
}

// updateEdit applies one editing keystroke. Every path that mutates the
// document invalidates the ghost slot and feeds the trigger.
func (m *Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var delta int

	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		text := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			text = " "
		}
		pos, err := m.doc.Splice(text, m.cursor)
		if err != nil {
			return m, nil
		}
		m.cursor = pos
		delta = len(text)

	case tea.KeyEnter:
		pos, err := m.doc.Newline(m.cursor)
		if err != nil {
			return m, nil
		}
		m.cursor = pos
		delta = 1

	case tea.KeyBackspace:
		pos, removed, err := m.doc.Backspace(m.cursor)
		if err != nil || removed == 0 {
			return m, nil
		}
		m.cursor = pos
		delta = removed

	case tea.KeyUp:
		m.moveCursor(-1, 0)
		return m, nil
	case tea.KeyDown:
		m.moveCursor(1, 0)
		return m, nil
	case tea.KeyLeft:
		m.moveCursor(0, -1)
		return m, nil
	case tea.KeyRight:
		m.moveCursor(0, 1)
		return m, nil

	default:
		return m, nil
	}

	m.dirty = true
	m.slot.Invalidate()
	return m, tea.Batch(m.runEffects(m.machine.NoteEdit(delta))...)
}

func (m *Model) moveCursor(dLine, dCol int) {
	pos := card.Position{Line: m.cursor.Line + dLine, Col: m.cursor.Col + dCol}
	if pos.Line < 0 || pos.Line >= m.doc.LineCount() {
		return
	}
	line := m.doc.Line(pos.Line)
	if dLine != 0 && pos.Col > len(line) {
		pos.Col = len(line)
	}
	if pos.Col < 0 || pos.Col > len(line) {
		return
	}
	m.cursor = pos
}

func (m *Model) setStatus(text string, isErr bool) {
	m.statusText = text
	m.statusIsErr = isErr
}

func (m *Model) reportCycle(err error) {
	if err != nil {
		// Backend trouble never interrupts editing; it is logged and shown
		// in the status line only.
		m.log.Warn("tui", "fulfillment cycle failed", map[string]interface{}{"error": err.Error()})
		m.setStatus(fmt.Sprintf("fulfillment unavailable: %v", err), true)
		return
	}
	if m.machine.State() == engine.StatePolling {
		m.setStatus("waiting for suggestions…", false)
	} else {
		m.setStatus("", false)
	}
}
