package engine

import (
	"testing"

	"parallax/pkg/card"
	"parallax/pkg/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteFirstCompletionWins(t *testing.T) {
	batch := []client.Card{
		{Kind: card.KindQuestion, Text: "q"},
		{Kind: card.KindCompletion, Text: "first"},
		{Kind: card.KindCompletion, Text: "second"},
		{Kind: card.KindMath, Text: "m"},
	}

	res := Route(batch)
	require.NotNil(t, res.Completion)
	assert.Equal(t, "first", res.Completion.Text)

	var texts []string
	for _, c := range res.FeedCards {
		texts = append(texts, c.Text)
	}
	assert.Equal(t, []string{"q", "m"}, texts)
}

func TestRouteWithoutCompletion(t *testing.T) {
	res := Route([]client.Card{{Kind: card.KindContext, Text: "c"}})
	assert.Nil(t, res.Completion)
	assert.Len(t, res.FeedCards, 1)
}

func TestApplyOverwritesSlotAndReplacesFeed(t *testing.T) {
	var slot Slot
	feed := NewFeed(3)
	feed.Insert(client.Card{Kind: card.KindQuestion, Text: "stale"})
	slot.Set("stale completion", 5)

	Apply([]client.Card{
		{Kind: card.KindCompletion, Text: "fresh"},
		{Kind: card.KindMath, Text: "2+2 = 4"},
	}, &slot, feed, 42)

	assert.Equal(t, "fresh", slot.Text())
	assert.Equal(t, 42, slot.AnchorLen())
	assert.Equal(t, []string{"2+2 = 4"}, feedTexts(feed))
}

func TestApplyWithoutCompletionLeavesSlotAlone(t *testing.T) {
	var slot Slot
	feed := NewFeed(3)
	slot.Set("keep me", 10)

	Apply([]client.Card{{Kind: card.KindQuestion, Text: "q"}}, &slot, feed, 99)

	// Zero completion cards is not "clear the ghost text".
	assert.True(t, slot.Active())
	assert.Equal(t, "keep me", slot.Text())
	assert.Equal(t, 10, slot.AnchorLen())
}
