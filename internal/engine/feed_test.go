package engine

import (
	"testing"

	"parallax/pkg/card"
	"parallax/pkg/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedCard(kind card.Kind, text string) client.Card {
	return client.Card{Header: "h", Text: text, Kind: kind}
}

func feedTexts(f *Feed) []string {
	var out []string
	for _, c := range f.Cards() {
		out = append(out, c.Text)
	}
	return out
}

func TestFeedEvictsOldestOfSameKind(t *testing.T) {
	f := NewFeed(3)

	for _, text := range []string{"Q1", "Q2", "Q3"} {
		assert.Nil(t, f.Insert(feedCard(card.KindQuestion, text)))
	}

	evicted := f.Insert(feedCard(card.KindQuestion, "Q4"))
	require.NotNil(t, evicted)
	assert.Equal(t, "Q1", evicted.Text)
	assert.Equal(t, []string{"Q2", "Q3", "Q4"}, feedTexts(f))
}

func TestFeedKindsNeverEvictEachOther(t *testing.T) {
	f := NewFeed(3)

	f.Insert(feedCard(card.KindQuestion, "Q1"))
	f.Insert(feedCard(card.KindQuestion, "Q2"))
	f.Insert(feedCard(card.KindQuestion, "Q3"))
	f.Insert(feedCard(card.KindContext, "C1"))

	assert.Nil(t, f.Insert(feedCard(card.KindMath, "M1")))
	assert.Equal(t, []string{"Q1", "Q2", "Q3", "C1", "M1"}, feedTexts(f))

	evicted := f.Insert(feedCard(card.KindQuestion, "Q4"))
	require.NotNil(t, evicted)
	assert.Equal(t, card.KindQuestion, evicted.Kind)
	assert.Equal(t, []string{"Q2", "Q3", "C1", "M1", "Q4"}, feedTexts(f))
}

func TestFeedReplaceAll(t *testing.T) {
	f := NewFeed(3)
	f.Insert(feedCard(card.KindQuestion, "old"))

	f.ReplaceAll([]client.Card{
		feedCard(card.KindContext, "C1"),
		feedCard(card.KindMath, "M1"),
	})

	assert.Equal(t, []string{"C1", "M1"}, feedTexts(f))
}

func TestFeedReplaceAllAppliesCaps(t *testing.T) {
	f := NewFeed(2)

	f.ReplaceAll([]client.Card{
		feedCard(card.KindQuestion, "Q1"),
		feedCard(card.KindQuestion, "Q2"),
		feedCard(card.KindQuestion, "Q3"),
	})

	assert.Equal(t, []string{"Q2", "Q3"}, feedTexts(f))
}

func TestFeedRemoveByID(t *testing.T) {
	f := NewFeed(3)
	f.Insert(feedCard(card.KindQuestion, "Q1"))
	f.Insert(feedCard(card.KindQuestion, "Q2"))

	target := f.Cards()[0]
	removed := f.Remove(target.ID)
	require.NotNil(t, removed)
	assert.Equal(t, "Q1", removed.Text)
	assert.Equal(t, []string{"Q2"}, feedTexts(f))

	assert.Nil(t, f.Remove("no-such-id"))
}

func TestFeedAssignsDistinctIDs(t *testing.T) {
	f := NewFeed(3)
	f.Insert(feedCard(card.KindQuestion, "same"))
	f.Insert(feedCard(card.KindQuestion, "same"))

	cards := f.Cards()
	assert.NotEqual(t, cards[0].ID, cards[1].ID)
}
