// Package ambiguities surfaces clarifying questions about vague phrasing in
// the document.
package ambiguities

import (
	"context"
	"strings"

	"parallax/pkg/card"
	"parallax/pkg/fulfiller"
	"parallax/pkg/llm"
)

const prompt = `You review a plan document and point out ambiguity. List at
most two genuinely unclear points as short questions, one per line. If nothing
is unclear, reply with the single word NONE.`

type Ambiguities struct {
	provider llm.LLMProvider
	health   *llm.Health
}

func New(provider llm.LLMProvider) *Ambiguities {
	return &Ambiguities{provider: provider, health: llm.NewHealth(provider)}
}

func (a *Ambiguities) Name() string      { return "ambiguities" }
func (a *Ambiguities) Synchronous() bool { return false }

func (a *Ambiguities) Available(ctx context.Context) bool {
	return a.health.Available(ctx)
}

func (a *Ambiguities) Fulfill(ctx context.Context, req fulfiller.Request) ([]card.Card, error) {
	doc := strings.TrimSpace(req.DocumentText)
	if doc == "" {
		return nil, nil
	}

	history := []llm.Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: doc},
	}
	answer, err := a.provider.Chat(ctx, history, llm.WithTemperature(0.5))
	if err != nil {
		return nil, err
	}

	var cards []card.Card
	for _, line := range strings.Split(answer, "\n") {
		q := strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if q == "" || strings.EqualFold(q, "NONE") {
			continue
		}
		cards = append(cards, card.Card{
			Header:   "Clarify",
			Text:     q,
			Kind:     card.KindQuestion,
			Metadata: map[string]any{"source": "ambiguities"},
		})
		if len(cards) == 2 {
			break
		}
	}
	return cards, nil
}
