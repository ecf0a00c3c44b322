package engine

import (
	"parallax/internal/editor"
	"parallax/pkg/card"
)

// Slot holds at most one live ghost-text suggestion. Setting a new value
// silently discards the previous one; there is no queue.
type Slot struct {
	text      string
	anchorLen int
	populated bool
}

// Set overwrites the slot. anchorLen records the document length the
// suggestion was computed against.
func (s *Slot) Set(text string, anchorLen int) {
	s.text = text
	s.anchorLen = anchorLen
	s.populated = true
}

func (s *Slot) Active() bool   { return s.populated }
func (s *Slot) Text() string   { return s.text }
func (s *Slot) AnchorLen() int { return s.anchorLen }

// Reject clears the slot without touching the document.
func (s *Slot) Reject() {
	*s = Slot{}
}

// Invalidate clears the slot after a non-accepting document edit. A
// suggestion computed against a stale document is never reused.
func (s *Slot) Invalidate() {
	*s = Slot{}
}

// Accept splices the suggestion into the document at pos and clears the
// slot. When the cursor no longer fits the document, the accept is a silent
// no-op: the slot is cleared, the document is untouched, and the cursor
// stays put.
func (s *Slot) Accept(doc *editor.Document, pos card.Position) (card.Position, bool) {
	if !s.populated {
		return pos, false
	}
	text := s.text
	*s = Slot{}

	newPos, err := doc.Splice(text, pos)
	if err != nil {
		return pos, false
	}
	return newPos, true
}
