package fulfiller

import "strings"

// CursorLine returns the text of the line the cursor sits on, or "" when the
// cursor is outside the document.
func CursorLine(req Request) string {
	lines := strings.Split(req.DocumentText, "\n")
	if req.Cursor.Line < 0 || req.Cursor.Line >= len(lines) {
		return ""
	}
	return lines[req.Cursor.Line]
}

// TextBeforeCursor returns everything up to the cursor position, clamped to
// document bounds. Completion prompts are built from this prefix.
func TextBeforeCursor(req Request) string {
	lines := strings.Split(req.DocumentText, "\n")
	if req.Cursor.Line < 0 {
		return ""
	}
	if req.Cursor.Line >= len(lines) {
		return req.DocumentText
	}
	prefix := lines[:req.Cursor.Line]
	line := lines[req.Cursor.Line]
	col := req.Cursor.Col
	if col > len(line) {
		col = len(line)
	}
	if col < 0 {
		col = 0
	}
	parts := append(append([]string{}, prefix...), line[:col])
	return strings.Join(parts, "\n")
}
