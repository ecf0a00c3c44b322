package tui

import (
	"context"
	"os"
	"time"

	"parallax/internal/config"
	"parallax/internal/editor"
	"parallax/internal/engine"
	"parallax/internal/pkg/logger"
	"parallax/pkg/card"
	"parallax/pkg/client"
	"parallax/pkg/suggestions"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Messages produced by timers and network commands. Each carries the
// generation it belongs to; the machine decides whether it still applies.
type idleTimerMsg struct{ generation uint64 }

type pollDueMsg struct{ cycle uint64 }

type submitDoneMsg struct {
	cycle uint64
	res   *client.Response
	err   error
}

type pollDoneMsg struct {
	cycle uint64
	res   *client.Response
	err   error
}

type clearDoneMsg struct{ err error }

type savedMsg struct{ err error }

// Model is the editor surface plus the fulfillment coordination state. All
// mutation happens inside Update on the bubbletea event loop, which gives
// the engine its single-threaded contract for free.
type Model struct {
	cfg       config.EditorSyncConfig
	workspace card.Workspace
	client    *client.Client
	log       logger.ILogger

	doc    *editor.Document
	cursor card.Position

	machine *engine.Machine
	slot    engine.Slot
	feed    *engine.Feed
	tracker *suggestions.Tracker

	// Document length at the moment the active cycle's submit was issued.
	// Routed completions anchor against it.
	snapshotLen int

	keys    keyMap
	styles  styles
	spinner spinner.Model

	width       int
	height      int
	feedSel     int
	statusText  string
	statusIsErr bool
	dirty       bool
}

func NewModel(cfg config.EditorSyncConfig, ws card.Workspace, cli *client.Client, log logger.ILogger) *Model {
	text := ""
	if data, err := os.ReadFile(ws.PlanPath); err == nil {
		text = string(data)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))

	return &Model{
		cfg:       cfg,
		workspace: ws,
		client:    cli,
		log:       log,
		doc:       editor.NewDocument(text),
		machine:   engine.NewMachine(cfg),
		feed:      engine.NewFeed(engine.DefaultFeedCap),
		tracker:   suggestions.LoadDefault(),
		keys:      defaultKeyMap(),
		styles:    defaultStyles(),
		spinner:   sp,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// runEffects turns engine effects into bubbletea commands.
func (m *Model) runEffects(effects []engine.Effect) []tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case engine.StartIdleTimer:
			generation := e.Generation
			cmds = append(cmds, tea.Tick(e.Delay, func(time.Time) tea.Msg {
				return idleTimerMsg{generation: generation}
			}))
		case engine.Submit:
			cmds = append(cmds, m.submitCmd(e.Cycle))
		case engine.SchedulePoll:
			cycle := e.Cycle
			cmds = append(cmds, tea.Tick(e.Interval, func(time.Time) tea.Msg {
				return pollDueMsg{cycle: cycle}
			}))
		}
	}
	return cmds
}

// submitCmd snapshots the document synchronously, then performs the network
// call off the event loop. Edits after the snapshot never leak into the
// in-flight request.
func (m *Model) submitCmd(cycle uint64) tea.Cmd {
	text := m.doc.String()
	cursor := m.cursor
	m.snapshotLen = len(text)

	return func() tea.Msg {
		res, err := m.client.Submit(context.Background(), m.workspace, text, cursor)
		return submitDoneMsg{cycle: cycle, res: res, err: err}
	}
}

func (m *Model) pollCmd(cycle uint64) tea.Cmd {
	sessionID := m.workspace.SessionID()
	return func() tea.Msg {
		res, err := m.client.Poll(context.Background(), sessionID)
		return pollDoneMsg{cycle: cycle, res: res, err: err}
	}
}

func (m *Model) clearCmd() tea.Cmd {
	sessionID := m.workspace.SessionID()
	return func() tea.Msg {
		return clearDoneMsg{err: m.client.Clear(context.Background(), sessionID)}
	}
}

func (m *Model) saveCmd() tea.Cmd {
	text := m.doc.String()
	path := m.workspace.PlanPath
	return func() tea.Msg {
		return savedMsg{err: os.WriteFile(path, []byte(text), 0o644)}
	}
}

// applySnapshot routes one backend snapshot into the slot and the feed,
// after dropping cards the user has dismissed before.
func (m *Model) applySnapshot(res *client.Response) {
	cards := m.tracker.Filter(res.Cards)
	engine.Apply(cards, &m.slot, m.feed, m.snapshotLen)
	if m.feedSel >= m.feed.Len() {
		m.feedSel = m.feed.Len() - 1
	}
	if m.feedSel < 0 {
		m.feedSel = 0
	}
}
