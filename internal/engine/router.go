package engine

import (
	"parallax/pkg/card"
	"parallax/pkg/client"
)

// RouteResult splits one backend snapshot into the single completion
// candidate and the sidebar cards.
type RouteResult struct {
	Completion *client.Card
	FeedCards  []client.Card
}

// Route is pure. The first completion card wins; extra completions in the
// same batch are discarded. Everything else goes to the feed in order.
func Route(cards []client.Card) RouteResult {
	var res RouteResult
	for i := range cards {
		if cards[i].Kind == card.KindCompletion {
			if res.Completion == nil {
				res.Completion = &cards[i]
			}
			continue
		}
		res.FeedCards = append(res.FeedCards, cards[i])
	}
	return res
}

// Apply routes one snapshot into the slot and the feed. The feed is replaced
// wholesale; the slot is only overwritten when the batch carries a
// completion. A batch without one leaves existing ghost text alone.
func Apply(cards []client.Card, slot *Slot, feed *Feed, anchorLen int) RouteResult {
	res := Route(cards)
	if res.Completion != nil {
		slot.Set(res.Completion.Text, anchorLen)
	}
	feed.ReplaceAll(res.FeedCards)
	return res
}
