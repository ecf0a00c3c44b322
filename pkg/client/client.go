package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"parallax/pkg/card"
)

const defaultTimeout = 10 * time.Second

// TransportError means the request never produced an HTTP response: refused
// connection, DNS failure, timeout. The wrapped error carries the cause.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fulfillment backend unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BackendError means the backend answered with a non-2xx status.
type BackendError struct {
	Status int
	Body   string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("fulfillment backend returned %d: %s", e.Status, e.Body)
}

// Card is the wire shape of one suggestion card.
type Card struct {
	Header   string         `json:"header"`
	Text     string         `json:"text"`
	Kind     card.Kind      `json:"type"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Response is the session snapshot both Submit and Poll answer with.
type Response struct {
	Cards      []Card `json:"cards"`
	Processing bool   `json:"processing"`
}

type Health struct {
	Status     string          `json:"status"`
	Fulfillers map[string]bool `json:"fulfillers"`
}

type fulfillRequest struct {
	SessionID    string           `json:"sessionId"`
	DocumentText string           `json:"documentText"`
	Cursor       [2]int           `json:"cursor"`
	Context      workspaceContext `json:"context"`
}

type workspaceContext struct {
	ScopeRoot string `json:"scopeRoot"`
	PlanPath  string `json:"planPath,omitempty"`
}

// Client talks to the fulfillment backend. Every call makes exactly one HTTP
// request; retrying and scheduling are the caller's concern.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit sends the current document state for fulfillment. The response holds
// the session's accumulated cards plus the processing flag; processing=true
// means slower fulfillers are still running and Poll will surface their cards.
func (c *Client) Submit(ctx context.Context, ws card.Workspace, documentText string, cursor card.Position) (*Response, error) {
	req := fulfillRequest{
		SessionID:    ws.SessionID(),
		DocumentText: documentText,
		Cursor:       [2]int{cursor.Line, cursor.Col},
		Context: workspaceContext{
			ScopeRoot: ws.ScopeRoot,
			PlanPath:  ws.PlanPath,
		},
	}

	var res Response
	if err := c.do(ctx, http.MethodPost, "/fulfill", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Poll reads the session's current card set without triggering new work.
func (c *Client) Poll(ctx context.Context, sessionID string) (*Response, error) {
	var res Response
	if err := c.do(ctx, http.MethodGet, "/session/"+sessionID+"/cached", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Clear discards the session's server-side state. Clearing an unknown
// session succeeds.
func (c *Client) Clear(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/session/"+sessionID, nil, nil)
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var res Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &BackendError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding backend response: %w", err)
		}
	}
	return nil
}
