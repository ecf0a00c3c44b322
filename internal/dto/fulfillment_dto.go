package dto

import "parallax/pkg/card"

type WorkspaceContext struct {
	ScopeRoot string `json:"scopeRoot" validate:"required"`
	PlanPath  string `json:"planPath,omitempty"`
}

type FulfillRequest struct {
	SessionID    string           `json:"sessionId" validate:"required"`
	DocumentText string           `json:"documentText"`
	Cursor       [2]int           `json:"cursor"`
	Context      WorkspaceContext `json:"context" validate:"required"`
}

// CardResponse is the wire shape of a single card.
type CardResponse struct {
	Header   string         `json:"header"`
	Text     string         `json:"text"`
	Type     string         `json:"type"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// FulfillResponse carries the session's current accumulated card set plus the
// processing flag. The same shape answers both /fulfill and /session/:id/cached.
type FulfillResponse struct {
	Cards      []CardResponse `json:"cards"`
	Processing bool           `json:"processing"`
}

type HealthResponse struct {
	Status     string          `json:"status"`
	Fulfillers map[string]bool `json:"fulfillers"`
}

type SendEmailCardRequest struct {
	CardIndex int    `json:"cardIndex"`
	To        string `json:"to" validate:"required,email"`
}

// FulfillJobMessage is the watermill payload dispatching one asynchronous
// fulfiller run for a session cycle.
type FulfillJobMessage struct {
	SessionID    string `json:"session_id"`
	Cycle        uint64 `json:"cycle"`
	Fulfiller    string `json:"fulfiller"`
	DocumentText string `json:"document_text"`
	CursorLine   int    `json:"cursor_line"`
	CursorCol    int    `json:"cursor_col"`
	ScopeRoot    string `json:"scope_root"`
	PlanPath     string `json:"plan_path,omitempty"`
}

// CardsToResponse maps domain cards onto the wire shape.
func CardsToResponse(cards []card.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, CardResponse{
			Header:   c.Header,
			Text:     c.Text,
			Type:     string(c.Kind),
			Metadata: c.Metadata,
		})
	}
	return out
}
