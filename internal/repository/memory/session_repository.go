package memory

import (
	"context"
	"time"

	"parallax/internal/repository/contract"
	"parallax/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps sessions in process memory with a TTL. Sessions
// untouched for an hour are evicted; the contract exposes no GC beyond this,
// so the TTL is the operational eviction policy for abandoned documents.
type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.ISessionRepository = (*SessionRepository)(nil)

func NewSessionRepository() *SessionRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{cache: c}
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.Session, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}

func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	return r.cache.ItemCount(), nil
}
