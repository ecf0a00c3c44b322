package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingingProvider struct {
	pings   int
	pingErr error
	lastCtx context.Context
}

func (p *pingingProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return "", nil
}

func (p *pingingProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return "", nil
}

func (p *pingingProvider) Ping(ctx context.Context) error {
	p.pings++
	p.lastCtx = ctx
	return p.pingErr
}

type plainProvider struct{}

func (plainProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return "", nil
}

func (plainProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return "", nil
}

func TestHealthCachesPingResult(t *testing.T) {
	p := &pingingProvider{}
	h := NewHealth(p)

	assert.True(t, h.Available(context.Background()))
	assert.True(t, h.Available(context.Background()))
	assert.True(t, h.Available(context.Background()))
	assert.Equal(t, 1, p.pings, "repeated checks inside the TTL must not re-ping")
}

func TestHealthCachesUnreachableResult(t *testing.T) {
	p := &pingingProvider{pingErr: errors.New("connection refused")}
	h := NewHealth(p)

	assert.False(t, h.Available(context.Background()))
	assert.False(t, h.Available(context.Background()))
	assert.Equal(t, 1, p.pings)
}

func TestHealthPingGetsItsOwnDeadline(t *testing.T) {
	p := &pingingProvider{}
	h := NewHealth(p)

	h.Available(context.Background())
	require.NotNil(t, p.lastCtx)
	_, ok := p.lastCtx.Deadline()
	assert.True(t, ok, "the ping must not inherit the caller's unbounded context")
}

func TestHealthWithoutProvider(t *testing.T) {
	assert.False(t, NewHealth(nil).Available(context.Background()))
}

func TestHealthProviderWithoutPing(t *testing.T) {
	assert.True(t, NewHealth(plainProvider{}).Available(context.Background()))
}
