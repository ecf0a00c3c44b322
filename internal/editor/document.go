package editor

import (
	"errors"
	"strings"

	"parallax/pkg/card"
)

// ErrInvalidCursor means a mutation was attempted at a position the document
// no longer contains.
var ErrInvalidCursor = errors.New("cursor outside document bounds")

// Document is a plain-text buffer addressed by 0-indexed line and column.
// It is not safe for concurrent use; the editor event loop owns it.
type Document struct {
	lines []string
}

func NewDocument(text string) *Document {
	return &Document{lines: strings.Split(text, "\n")}
}

func (d *Document) String() string {
	return strings.Join(d.lines, "\n")
}

// Len is the total character count, counting the newlines between lines.
func (d *Document) Len() int {
	n := 0
	for _, line := range d.lines {
		n += len(line)
	}
	return n + len(d.lines) - 1
}

func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns the content of one line, empty when out of range.
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// Lines returns a copy of the line slice for rendering.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Valid reports whether pos addresses an existing line, with the column
// within that line (one past the end allowed for appends).
func (d *Document) Valid(pos card.Position) bool {
	if pos.Line < 0 || pos.Line >= len(d.lines) {
		return false
	}
	return pos.Col >= 0 && pos.Col <= len(d.lines[pos.Line])
}

// Splice inserts text at pos and returns the position immediately after the
// inserted text. Multi-line text splits the current line: everything after
// the cursor moves to the end of the last inserted line.
func (d *Document) Splice(text string, pos card.Position) (card.Position, error) {
	if !d.Valid(pos) {
		return pos, ErrInvalidCursor
	}

	line := d.lines[pos.Line]
	before, after := line[:pos.Col], line[pos.Col:]

	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		d.lines[pos.Line] = before + text + after
		return card.Position{Line: pos.Line, Col: pos.Col + len(text)}, nil
	}

	spliced := make([]string, 0, len(d.lines)+len(parts)-1)
	spliced = append(spliced, d.lines[:pos.Line]...)
	spliced = append(spliced, before+parts[0])
	spliced = append(spliced, parts[1:len(parts)-1]...)
	last := parts[len(parts)-1]
	spliced = append(spliced, last+after)
	spliced = append(spliced, d.lines[pos.Line+1:]...)
	d.lines = spliced

	return card.Position{Line: pos.Line + len(parts) - 1, Col: len(last)}, nil
}

// InsertRune types one character at pos.
func (d *Document) InsertRune(r rune, pos card.Position) (card.Position, error) {
	return d.Splice(string(r), pos)
}

// Newline breaks the line at pos.
func (d *Document) Newline(pos card.Position) (card.Position, error) {
	return d.Splice("\n", pos)
}

// Backspace deletes the character before pos, joining lines at column 0.
// Returns the new cursor position and the number of characters removed.
func (d *Document) Backspace(pos card.Position) (card.Position, int, error) {
	if !d.Valid(pos) {
		return pos, 0, ErrInvalidCursor
	}

	if pos.Col > 0 {
		line := d.lines[pos.Line]
		d.lines[pos.Line] = line[:pos.Col-1] + line[pos.Col:]
		return card.Position{Line: pos.Line, Col: pos.Col - 1}, 1, nil
	}

	if pos.Line == 0 {
		return pos, 0, nil
	}

	prev := d.lines[pos.Line-1]
	d.lines[pos.Line-1] = prev + d.lines[pos.Line]
	d.lines = append(d.lines[:pos.Line], d.lines[pos.Line+1:]...)
	return card.Position{Line: pos.Line - 1, Col: len(prev)}, 1, nil
}
