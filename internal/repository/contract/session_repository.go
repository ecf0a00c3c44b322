package contract

import (
	"context"

	"parallax/pkg/store"
)

// ISessionRepository holds per-session fulfillment state. Implementations own
// the eviction policy; callers only control explicit deletion.
type ISessionRepository interface {
	Save(ctx context.Context, session *store.Session) error
	Get(ctx context.Context, sessionID string) (*store.Session, bool, error)
	Delete(ctx context.Context, sessionID string) error
	Count(ctx context.Context) (int, error)
}
