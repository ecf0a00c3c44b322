package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"parallax/internal/pkg/logger"
	"parallax/internal/pkg/serverutils"
	"parallax/internal/repository/memory"
	"parallax/internal/service"
	"parallax/pkg/card"
	"parallax/pkg/fulfiller"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mathStub struct{}

func (mathStub) Name() string                       { return "mathjax" }
func (mathStub) Synchronous() bool                  { return true }
func (mathStub) Available(ctx context.Context) bool { return true }

func (mathStub) Fulfill(ctx context.Context, req fulfiller.Request) ([]card.Card, error) {
	return []card.Card{{Header: "Math", Text: "2 + 2 = 4", Kind: card.KindMath}}, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := service.NewFulfillmentService(
		fulfiller.NewRegistry(mathStub{}),
		memory.NewSessionRepository(),
		service.NewPublisherService(pubSub, service.FulfillJobsTopic),
		nil,
		nil,
		nil,
		logger.NopLogger{},
	)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewFulfillmentController(svc, nil).RegisterRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func TestFulfillEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/fulfill", map[string]any{
		"sessionId":    "abc",
		"documentText": "2 + 2 =",
		"cursor":       []int{0, 7},
		"context":      map[string]any{"scopeRoot": "/w", "planPath": "plan.md"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["processing"])
	cards := body["cards"].([]any)
	require.Len(t, cards, 1)
	first := cards[0].(map[string]any)
	assert.Equal(t, "math", first["type"])
	assert.Equal(t, "2 + 2 = 4", first["text"])
}

func TestFulfillValidationFailure(t *testing.T) {
	app := newTestApp(t)

	// Missing sessionId and context.
	resp, body := doJSON(t, app, http.MethodPost, "/fulfill", map[string]any{
		"documentText": "x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestCachedUnknownSession(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/session/nope/cached", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["processing"])
	assert.Empty(t, body["cards"])
}

func TestCachedReturnsAccumulatedCards(t *testing.T) {
	app := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/fulfill", map[string]any{
		"sessionId":    "abc",
		"documentText": "2 + 2 =",
		"cursor":       []int{0, 7},
		"context":      map[string]any{"scopeRoot": "/w"},
	})

	resp, body := doJSON(t, app, http.MethodGet, "/session/abc/cached", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["cards"].([]any), 1)
}

func TestClearEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodDelete, "/session/whatever", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	fulfillers := body["fulfillers"].(map[string]any)
	assert.Equal(t, true, fulfillers["mathjax"])
}

func TestSendEmailWithoutMailerFails(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/session/abc/email", map[string]any{
		"cardIndex": 0,
		"to":        "someone@example.com",
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
