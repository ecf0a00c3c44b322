// Package completions drafts inline ghost-text continuations for the text at
// the cursor.
package completions

import (
	"context"
	"strings"

	"parallax/pkg/card"
	"parallax/pkg/fulfiller"
	"parallax/pkg/llm"
)

const prompt = `You are an inline completion engine for a plan document editor.
Continue the text exactly from where it stops. Reply with the continuation
only: no preamble, no quotes, no markdown fences. Keep it under 40 words.`

type Completions struct {
	provider llm.LLMProvider
	health   *llm.Health
}

func New(provider llm.LLMProvider) *Completions {
	return &Completions{provider: provider, health: llm.NewHealth(provider)}
}

func (c *Completions) Name() string      { return "completions" }
func (c *Completions) Synchronous() bool { return false }

func (c *Completions) Available(ctx context.Context) bool {
	return c.health.Available(ctx)
}

func (c *Completions) Fulfill(ctx context.Context, req fulfiller.Request) ([]card.Card, error) {
	prefix := fulfiller.TextBeforeCursor(req)
	if strings.TrimSpace(prefix) == "" {
		return nil, nil
	}

	history := []llm.Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: prefix},
	}
	text, err := c.provider.Chat(ctx, history, llm.WithTemperature(0.3), llm.WithMaxTokens(80))
	if err != nil {
		return nil, err
	}

	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	return []card.Card{{
		Header:   "",
		Text:     text,
		Kind:     card.KindCompletion,
		Metadata: map[string]any{"source": "completions", "anchor_len": len(req.DocumentText)},
	}}, nil
}
