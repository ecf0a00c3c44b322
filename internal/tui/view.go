package tui

import (
	"fmt"
	"strings"

	"parallax/internal/engine"

	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 38

func (m *Model) View() string {
	if m.width == 0 {
		return "loading…"
	}

	editorW := m.width - sidebarWidth - 4
	if editorW < 20 {
		editorW = m.width - 4
	}
	paneH := m.height - 3

	editorPane := m.styles.editorPane.
		Width(editorW).
		Height(paneH).
		Render(m.renderDocument(editorW))

	var body string
	if m.width-sidebarWidth-4 >= 20 {
		sidebar := m.styles.sidebarPane.
			Width(sidebarWidth).
			Height(paneH).
			Render(m.renderFeed())
		body = lipgloss.JoinHorizontal(lipgloss.Top, editorPane, sidebar)
	} else {
		body = editorPane
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatus())
}

// renderDocument paints the buffer with the cursor reversed and any ghost
// text dimmed at the cursor position. Ghost text is render-only; the
// document itself is untouched until acceptance.
func (m *Model) renderDocument(width int) string {
	lines := m.doc.Lines()
	var b strings.Builder

	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i != m.cursor.Line {
			b.WriteString(truncate(line, width))
			continue
		}
		b.WriteString(m.renderCursorLine(line, width))
	}
	return b.String()
}

func (m *Model) renderCursorLine(line string, width int) string {
	col := m.cursor.Col
	if col > len(line) {
		col = len(line)
	}
	before, after := line[:col], line[col:]

	var ghost string
	if m.slot.Active() {
		ghostLines := strings.Split(m.slot.Text(), "\n")
		ghost = m.styles.ghost.Render(ghostLines[0])
		if len(ghostLines) > 1 {
			ghost += m.styles.ghost.Render(" ⏎×" + fmt.Sprint(len(ghostLines)-1))
		}
	}

	cursorCell := " "
	rest := after
	if len(after) > 0 {
		cursorCell = string(after[0])
		rest = after[1:]
	}

	return before + ghost + m.styles.cursor.Render(cursorCell) + truncate(rest, width)
}

func (m *Model) renderFeed() string {
	cards := m.feed.Cards()
	if len(cards) == 0 {
		return m.styles.helpLine.Render("no suggestions yet")
	}

	var sections []string
	for i, fc := range cards {
		badge := m.styles.kindBadge[fc.Kind]
		header := fc.Header
		if header == "" {
			header = string(fc.Kind)
		}

		box := m.styles.cardBox
		if i == m.feedSel {
			box = m.styles.cardBoxSel
		}

		content := lipgloss.JoinVertical(lipgloss.Left,
			badge.Render(string(fc.Kind))+" "+m.styles.cardHeader.Render(truncate(header, sidebarWidth-12)),
			truncate(fc.Text, (sidebarWidth-4)*3),
		)
		sections = append(sections, box.Width(sidebarWidth-2).Render(content))
	}
	return strings.Join(sections, "\n")
}

func (m *Model) renderStatus() string {
	left := fmt.Sprintf(" %s · %s", m.workspace.PlanPath, m.machine.State())
	if m.dirty {
		left += " · modified"
	}
	if m.machine.State() != engine.StateIdle {
		left += " " + m.spinner.View()
	}

	help := "tab accept · esc reject · ctrl+d dismiss · ctrl+s save · ctrl+c quit"

	status := m.styles.statusBar
	text := m.statusText
	if m.statusIsErr {
		status = m.styles.statusError
	}
	if text != "" {
		return status.Render(left + " · " + text)
	}
	return m.styles.statusBar.Render(left + " · ") + m.styles.helpLine.Render(help)
}

func truncate(s string, max int) string {
	if max <= 1 || len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
