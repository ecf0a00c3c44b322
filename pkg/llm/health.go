package llm

import (
	"context"
	"sync"
	"time"
)

const (
	pingTimeout  = 2 * time.Second
	pingCacheTTL = 30 * time.Second
)

// Pinger is implemented by providers that can report whether the model host
// is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health memoizes a provider's reachability. Availability checks run on the
// submit path, so the ping gets a short timeout of its own and its result is
// reused for a while instead of hitting the model host on every request.
type Health struct {
	provider LLMProvider

	mu        sync.Mutex
	checkedAt time.Time
	reachable bool
}

func NewHealth(provider LLMProvider) *Health {
	return &Health{provider: provider}
}

func (h *Health) Available(ctx context.Context) bool {
	if h == nil || h.provider == nil {
		return false
	}
	p, ok := h.provider.(Pinger)
	if !ok {
		return true
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.checkedAt.IsZero() && time.Since(h.checkedAt) < pingCacheTTL {
		return h.reachable
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	h.reachable = p.Ping(pingCtx) == nil
	h.checkedAt = time.Now()
	return h.reachable
}
