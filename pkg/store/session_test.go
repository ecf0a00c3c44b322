package store

import (
	"testing"

	"parallax/pkg/card"

	"github.com/stretchr/testify/assert"
)

func kindCards(kind card.Kind, texts ...string) []card.Card {
	out := make([]card.Card, 0, len(texts))
	for _, text := range texts {
		out = append(out, card.Card{Text: text, Kind: kind})
	}
	return out
}

func texts(cards []card.Card) []string {
	var out []string
	for _, c := range cards {
		out = append(out, c.Text)
	}
	return out
}

func TestTrimPerKindKeepsNewest(t *testing.T) {
	cards := kindCards(card.KindQuestion, "Q1", "Q2", "Q3", "Q4")
	trimmed := TrimPerKind(cards, 3)
	assert.Equal(t, []string{"Q2", "Q3", "Q4"}, texts(trimmed))
}

func TestTrimPerKindIsPerKind(t *testing.T) {
	cards := append(kindCards(card.KindQuestion, "Q1", "Q2", "Q3", "Q4"),
		kindCards(card.KindMath, "M1")...)
	trimmed := TrimPerKind(cards, 3)
	assert.Equal(t, []string{"Q2", "Q3", "Q4", "M1"}, texts(trimmed))
}

func TestTrimPerKindPreservesInterleavedOrder(t *testing.T) {
	cards := []card.Card{
		{Text: "Q1", Kind: card.KindQuestion},
		{Text: "C1", Kind: card.KindContext},
		{Text: "Q2", Kind: card.KindQuestion},
		{Text: "Q3", Kind: card.KindQuestion},
		{Text: "Q4", Kind: card.KindQuestion},
	}
	trimmed := TrimPerKind(cards, 3)
	assert.Equal(t, []string{"C1", "Q2", "Q3", "Q4"}, texts(trimmed))
}

func TestMergeAccumulatesAndTrims(t *testing.T) {
	s := &Session{ID: "s1"}
	s.Merge(kindCards(card.KindQuestion, "Q1", "Q2"))
	s.Merge(kindCards(card.KindQuestion, "Q3", "Q4"))

	assert.Equal(t, []string{"Q2", "Q3", "Q4"}, texts(s.Cards))
	assert.False(t, s.UpdatedAt.IsZero())
}

func TestProcessing(t *testing.T) {
	s := &Session{}
	assert.False(t, s.Processing())
	s.Pending = 2
	assert.True(t, s.Processing())
}
