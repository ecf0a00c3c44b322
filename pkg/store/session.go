package store

import (
	"time"

	"parallax/pkg/card"
)

// Session is the backend-side accumulation state for one document identity.
// It is created implicitly on the first submit for a session id, mutated by
// each fulfiller landing asynchronously, and superseded wholesale by the next
// submit for the same id.
type Session struct {
	ID        string      `json:"id"`
	Cards     []card.Card `json:"cards"`
	Pending   int         `json:"pending"` // async fulfillers still running for the current cycle
	Cycle     uint64      `json:"cycle"`   // bumped on every submit; stale fulfiller results are dropped
	UpdatedAt time.Time   `json:"updated_at"`
}

// Processing reports whether background fulfillers for the most recent submit
// are still running.
func (s *Session) Processing() bool {
	return s.Pending > 0
}

// MaxCardsPerKind caps how many cards of one kind a session accumulates.
const MaxCardsPerKind = 3

// Merge appends new cards to the session, trimming each kind to its cap with
// oldest-evicted-first semantics. Cards of different kinds never evict each
// other.
func (s *Session) Merge(incoming []card.Card) {
	s.Cards = append(s.Cards, incoming...)
	s.Cards = TrimPerKind(s.Cards, MaxCardsPerKind)
	s.UpdatedAt = time.Now()
}

// TrimPerKind keeps the most recent max cards of each kind, preserving the
// relative order of survivors.
func TrimPerKind(cards []card.Card, max int) []card.Card {
	counts := make(map[card.Kind]int, len(card.Kinds))
	for _, c := range cards {
		counts[c.Kind]++
	}
	out := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		if counts[c.Kind] > max {
			counts[c.Kind]--
			continue
		}
		out = append(out, c)
	}
	return out
}
