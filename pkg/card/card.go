package card

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind is the closed set of suggestion card types produced by fulfillers.
type Kind string

const (
	KindCompletion Kind = "completion"
	KindQuestion   Kind = "question"
	KindContext    Kind = "context"
	KindMath       Kind = "math"
	KindEmail      Kind = "email"
)

// Kinds lists every valid kind in display order.
var Kinds = []Kind{KindCompletion, KindQuestion, KindContext, KindMath, KindEmail}

func (k Kind) Valid() bool {
	switch k {
	case KindCompletion, KindQuestion, KindContext, KindMath, KindEmail:
		return true
	}
	return false
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown card kind: %q", s)
	}
	return k, nil
}

// Card is a single suggestion unit. Cards are immutable once constructed;
// routing and eviction pass them around by value and never edit them in place.
type Card struct {
	// ID is assigned client-side on receipt. It exists only so the feed can
	// display and remove individual cards; it carries no dedup semantics.
	ID       string         `json:"id,omitempty"`
	Header   string         `json:"header"`
	Text     string         `json:"text"`
	Kind     Kind           `json:"type"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Tag assigns a fresh client-side identifier and returns the card.
func (c Card) Tag() Card {
	c.ID = uuid.NewString()
	return c
}

func (c Card) String() string {
	text := c.Text
	if len(text) > 50 {
		text = text[:50] + "..."
	}
	return fmt.Sprintf("[%s] %s: %s", c.Kind, c.Header, text)
}
