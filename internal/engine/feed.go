package engine

import (
	"parallax/pkg/card"
	"parallax/pkg/client"

	"github.com/google/uuid"
)

// DefaultFeedCap is the per-kind card limit.
const DefaultFeedCap = 3

// FeedCard is a routed card plus the display id assigned on receipt. The id
// exists for removal from the sidebar only; dedup never consults it.
type FeedCard struct {
	ID string
	client.Card
}

// Feed is the ordered collection of non-completion cards, capped per kind.
// Kinds never evict each other.
type Feed struct {
	cards  []FeedCard
	perCap int
}

func NewFeed(perCap int) *Feed {
	if perCap <= 0 {
		perCap = DefaultFeedCap
	}
	return &Feed{perCap: perCap}
}

func (f *Feed) Cards() []FeedCard {
	out := make([]FeedCard, len(f.cards))
	copy(out, f.cards)
	return out
}

func (f *Feed) Len() int { return len(f.cards) }

func (f *Feed) countKind(k card.Kind) int {
	n := 0
	for _, c := range f.cards {
		if c.Kind == k {
			n++
		}
	}
	return n
}

// Insert appends c and returns the evicted card, if the kind's bucket was
// full, or nil. Eviction removes the oldest card of the same kind only.
func (f *Feed) Insert(c client.Card) *FeedCard {
	var evicted *FeedCard
	if f.countKind(c.Kind) >= f.perCap {
		for i := range f.cards {
			if f.cards[i].Kind == c.Kind {
				old := f.cards[i]
				f.cards = append(f.cards[:i], f.cards[i+1:]...)
				evicted = &old
				break
			}
		}
	}
	f.cards = append(f.cards, FeedCard{ID: uuid.NewString(), Card: c})
	return evicted
}

// ReplaceAll discards the feed and inserts the batch in order. Per-kind caps
// still apply, so an oversized batch keeps only each kind's newest cards.
func (f *Feed) ReplaceAll(cards []client.Card) {
	f.cards = f.cards[:0]
	for _, c := range cards {
		f.Insert(c)
	}
}

// Remove deletes the card with the given display id.
func (f *Feed) Remove(id string) *FeedCard {
	for i := range f.cards {
		if f.cards[i].ID == id {
			removed := f.cards[i]
			f.cards = append(f.cards[:i], f.cards[i+1:]...)
			return &removed
		}
	}
	return nil
}
