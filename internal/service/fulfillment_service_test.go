package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"parallax/internal/dto"
	"parallax/internal/pkg/logger"
	"parallax/internal/repository/memory"
	"parallax/pkg/card"
	"parallax/pkg/fulfiller"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFulfiller struct {
	name     string
	sync     bool
	cards    []card.Card
	err      error
	disabled bool
	calls    int
}

func (f *fakeFulfiller) Name() string                       { return f.name }
func (f *fakeFulfiller) Synchronous() bool                  { return f.sync }
func (f *fakeFulfiller) Available(ctx context.Context) bool { return !f.disabled }

func (f *fakeFulfiller) Fulfill(ctx context.Context, req fulfiller.Request) ([]card.Card, error) {
	f.calls++
	return f.cards, f.err
}

type capturingPublisher struct {
	payloads [][]byte
	err      error
}

func (p *capturingPublisher) Publish(ctx context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func newTestService(pub IPublisherService, fs ...fulfiller.Fulfiller) IFulfillmentService {
	return NewFulfillmentService(
		fulfiller.NewRegistry(fs...),
		memory.NewSessionRepository(),
		pub,
		nil,
		nil,
		nil,
		logger.NopLogger{},
	)
}

func fulfillReq(sessionID string) *dto.FulfillRequest {
	return &dto.FulfillRequest{
		SessionID:    sessionID,
		DocumentText: "The budget is 12 + 8 =",
		Cursor:       [2]int{0, 22},
		Context:      dto.WorkspaceContext{ScopeRoot: "/w", PlanPath: "plan.md"},
	}
}

func TestSubmitRunsSyncInlineAndDispatchesAsync(t *testing.T) {
	inline := &fakeFulfiller{name: "math", sync: true, cards: []card.Card{
		{Header: "12 + 8", Text: "20", Kind: card.KindMath},
	}}
	slow := &fakeFulfiller{name: "completions", sync: false}
	pub := &capturingPublisher{}
	svc := newTestService(pub, inline, slow)

	res, err := svc.Submit(context.Background(), fulfillReq("s1"))
	require.NoError(t, err)

	assert.Equal(t, 1, inline.calls)
	assert.Equal(t, 0, slow.calls, "async fulfillers run in the consumer, not inline")
	require.Len(t, res.Cards, 1)
	assert.Equal(t, "math", res.Cards[0].Type)
	assert.True(t, res.Processing)

	require.Len(t, pub.payloads, 1)
	var job dto.FulfillJobMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &job))
	assert.Equal(t, "s1", job.SessionID)
	assert.Equal(t, "completions", job.Fulfiller)
	assert.Equal(t, uint64(1), job.Cycle)
}

func TestSubmitWithOnlySyncFulfillersIsNotProcessing(t *testing.T) {
	inline := &fakeFulfiller{name: "math", sync: true}
	svc := newTestService(&capturingPublisher{}, inline)

	res, err := svc.Submit(context.Background(), fulfillReq("s1"))
	require.NoError(t, err)
	assert.False(t, res.Processing)
}

func TestSubmitSkipsFailingInlineFulfiller(t *testing.T) {
	broken := &fakeFulfiller{name: "broken", sync: true, err: errors.New("boom")}
	working := &fakeFulfiller{name: "math", sync: true, cards: []card.Card{
		{Text: "4", Kind: card.KindMath},
	}}
	svc := newTestService(&capturingPublisher{}, broken, working)

	res, err := svc.Submit(context.Background(), fulfillReq("s1"))
	require.NoError(t, err, "a failing fulfiller never fails the submit")
	assert.Len(t, res.Cards, 1)
}

func TestSubmitSkipsUnavailableFulfillers(t *testing.T) {
	offline := &fakeFulfiller{name: "completions", sync: false, disabled: true}
	svc := newTestService(&capturingPublisher{}, offline)

	res, err := svc.Submit(context.Background(), fulfillReq("s1"))
	require.NoError(t, err)
	assert.False(t, res.Processing)
}

func TestDispatchFailureDoesNotLeaveSessionProcessing(t *testing.T) {
	slow := &fakeFulfiller{name: "completions", sync: false}
	svc := newTestService(&capturingPublisher{err: errors.New("bus down")}, slow)

	res, err := svc.Submit(context.Background(), fulfillReq("s1"))
	require.NoError(t, err)
	assert.False(t, res.Processing)

	cached, err := svc.Cached(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, cached.Processing, "client must not poll forever")
}

type failNthPublisher struct {
	capturingPublisher
	failAt int
	n      int
}

func (p *failNthPublisher) Publish(ctx context.Context, payload []byte) error {
	p.n++
	if p.n == p.failAt {
		return errors.New("bus hiccup")
	}
	return p.capturingPublisher.Publish(ctx, payload)
}

func TestPartialDispatchFailureKeepsSurvivorsPending(t *testing.T) {
	a := &fakeFulfiller{name: "completions", sync: false}
	b := &fakeFulfiller{name: "questions", sync: false}
	pub := &failNthPublisher{failAt: 2}
	svc := newTestService(pub, a, b)

	res, err := svc.Submit(context.Background(), fulfillReq("s1"))
	require.NoError(t, err)
	require.Len(t, pub.payloads, 1)
	assert.True(t, res.Processing, "the surviving job is still pending")

	cached, err := svc.Cached(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, cached.Processing)

	// The one dispatched job lands and drains the cycle.
	var job dto.FulfillJobMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &job))
	_, applied, err := svc.ApplyJobResult(context.Background(), &job, []card.Card{
		{Text: "done", Kind: card.KindCompletion},
	}, nil)
	require.NoError(t, err)
	assert.True(t, applied)

	cached, err = svc.Cached(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, cached.Processing)
	require.Len(t, cached.Cards, 1)
}

func TestApplyJobResultDrainsProcessing(t *testing.T) {
	slow := &fakeFulfiller{name: "completions", sync: false}
	svc := newTestService(&capturingPublisher{}, slow)

	_, err := svc.Submit(context.Background(), fulfillReq("s1"))
	require.NoError(t, err)

	job := &dto.FulfillJobMessage{SessionID: "s1", Cycle: 1, Fulfiller: "completions"}
	res, applied, err := svc.ApplyJobResult(context.Background(), job, []card.Card{
		{Text: "the rest of the sentence", Kind: card.KindCompletion},
	}, nil)
	require.NoError(t, err)
	require.True(t, applied)
	assert.False(t, res.Processing)
	assert.Len(t, res.Cards, 1)

	cached, err := svc.Cached(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, cached.Processing)
	assert.Len(t, cached.Cards, 1)
}

func TestApplyJobResultDropsStaleCycle(t *testing.T) {
	slow := &fakeFulfiller{name: "completions", sync: false}
	svc := newTestService(&capturingPublisher{}, slow)

	// Two submits; the first cycle's jobs are superseded.
	_, err := svc.Submit(context.Background(), fulfillReq("s1"))
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), fulfillReq("s1"))
	require.NoError(t, err)

	stale := &dto.FulfillJobMessage{SessionID: "s1", Cycle: 1, Fulfiller: "completions"}
	res, applied, err := svc.ApplyJobResult(context.Background(), stale, []card.Card{
		{Text: "stale", Kind: card.KindCompletion},
	}, nil)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Nil(t, res)

	cached, err := svc.Cached(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, cached.Cards)
	assert.True(t, cached.Processing, "cycle 2's job is still pending")
}

func TestApplyJobResultWithErrorStillDecrementsPending(t *testing.T) {
	slow := &fakeFulfiller{name: "completions", sync: false}
	svc := newTestService(&capturingPublisher{}, slow)

	_, err := svc.Submit(context.Background(), fulfillReq("s1"))
	require.NoError(t, err)

	job := &dto.FulfillJobMessage{SessionID: "s1", Cycle: 1, Fulfiller: "completions"}
	res, applied, err := svc.ApplyJobResult(context.Background(), job, nil, errors.New("model timeout"))
	require.NoError(t, err)
	require.True(t, applied)
	assert.False(t, res.Processing)
	assert.Empty(t, res.Cards)
}

func TestCachedUnknownSessionIsEmpty(t *testing.T) {
	svc := newTestService(&capturingPublisher{})

	res, err := svc.Cached(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Empty(t, res.Cards)
	assert.False(t, res.Processing)
}

func TestClearIsIdempotent(t *testing.T) {
	svc := newTestService(&capturingPublisher{})

	require.NoError(t, svc.Clear(context.Background(), "never-seen"))

	_, err := svc.Submit(context.Background(), fulfillReq("s1"))
	require.NoError(t, err)
	require.NoError(t, svc.Clear(context.Background(), "s1"))
	require.NoError(t, svc.Clear(context.Background(), "s1"))

	res, err := svc.Cached(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, res.Cards)
}

func TestCardsAccumulateAcrossCyclesWithPerKindCap(t *testing.T) {
	inline := &fakeFulfiller{name: "questions", sync: true, cards: []card.Card{
		{Text: "q", Kind: card.KindQuestion},
	}}
	svc := newTestService(&capturingPublisher{}, inline)

	for i := 0; i < 5; i++ {
		_, err := svc.Submit(context.Background(), fulfillReq("s1"))
		require.NoError(t, err)
	}

	res, err := svc.Cached(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, res.Cards, 3, "per-kind cap keeps the newest three")
}

func TestHealthReportsPerFulfiller(t *testing.T) {
	up := &fakeFulfiller{name: "math", sync: true}
	down := &fakeFulfiller{name: "completions", sync: false, disabled: true}
	svc := newTestService(&capturingPublisher{}, up, down)

	health := svc.Health(context.Background())
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.Fulfillers["math"])
	assert.False(t, health.Fulfillers["completions"])
}
