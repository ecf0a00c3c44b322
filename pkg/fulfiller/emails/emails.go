// Package emails drafts outreach emails when the plan document calls for one.
package emails

import (
	"context"
	"strings"

	"parallax/pkg/card"
	"parallax/pkg/fulfiller"
	"parallax/pkg/llm"
)

const prompt = `The user is writing a plan that mentions contacting someone by
email. Draft a short, professional email body for that outreach based on the
document. Reply with the email body only. First line must be "Subject: ..."`

// triggers gate the LLM call: no email language in the document, no card.
var triggers = []string{"email", "reach out", "follow up", "contact"}

type Emails struct {
	provider llm.LLMProvider
	health   *llm.Health
}

func New(provider llm.LLMProvider) *Emails {
	return &Emails{provider: provider, health: llm.NewHealth(provider)}
}

func (e *Emails) Name() string      { return "emails" }
func (e *Emails) Synchronous() bool { return false }

func (e *Emails) Available(ctx context.Context) bool {
	return e.health.Available(ctx)
}

func (e *Emails) Fulfill(ctx context.Context, req fulfiller.Request) ([]card.Card, error) {
	lower := strings.ToLower(req.DocumentText)
	triggered := false
	for _, t := range triggers {
		if strings.Contains(lower, t) {
			triggered = true
			break
		}
	}
	if !triggered {
		return nil, nil
	}

	history := []llm.Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: req.DocumentText},
	}
	draft, err := e.provider.Chat(ctx, history, llm.WithTemperature(0.6))
	if err != nil {
		return nil, err
	}
	draft = strings.TrimSpace(draft)
	if draft == "" {
		return nil, nil
	}

	header := "Email draft"
	if subj, rest, ok := splitSubject(draft); ok {
		header = subj
		draft = rest
	}

	return []card.Card{{
		Header:   header,
		Text:     draft,
		Kind:     card.KindEmail,
		Metadata: map[string]any{"source": "emails"},
	}}, nil
}

func splitSubject(draft string) (subject, body string, ok bool) {
	first, rest, found := strings.Cut(draft, "\n")
	if !found {
		first = draft
	}
	if !strings.HasPrefix(strings.ToLower(first), "subject:") {
		return "", "", false
	}
	subject = strings.TrimSpace(first[len("subject:"):])
	return subject, strings.TrimSpace(rest), subject != ""
}
