package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"parallax/internal/repository/contract"
	"parallax/pkg/store"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "parallax:session:"
	sessionTTL = 1 * time.Hour
)

// SessionRepository stores sessions in Redis so multiple backend instances
// can serve the same session id. Same TTL policy as the in-memory store.
type SessionRepository struct {
	rdb *redis.Client
}

var _ contract.ISessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.rdb.Set(ctx, keyPrefix+session.ID, payload, sessionTTL).Err()
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.Session, bool, error) {
	payload, err := r.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var session store.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, true, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, keyPrefix+sessionID).Err()
}

func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	keys, err := r.rdb.Keys(ctx, keyPrefix+"*").Result()
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
