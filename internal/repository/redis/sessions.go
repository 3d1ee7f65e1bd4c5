package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avelorn/staygo/internal/domain"
	"github.com/avelorn/staygo/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps server-side sessions in redis: one key per opaque
// token, holding the resolved identity as JSON, expiring with the TTL.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// Create stores the session and returns the new opaque token.
func (s *SessionStore) Create(ctx context.Context, sess domain.Session) (string, error) {
	const op = "redisrepo.SessionStore.Create"

	token := uuid.NewString()

	b, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("%s:%w", op, err)
	}

	if err := s.rdb.Set(ctx, KeySession(token), b, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%s:%w", op, err)
	}

	return token, nil
}

// Get resolves a token, refreshing its TTL on hit. Returns
// repository.ErrNotFound for unknown or expired tokens.
func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	const op = "redisrepo.SessionStore.Get"

	v, err := s.rdb.Get(ctx, KeySession(token)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(v), &sess); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	_ = s.rdb.Expire(ctx, KeySession(token), s.ttl).Err()

	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	const op = "redisrepo.SessionStore.Delete"

	if err := s.rdb.Del(ctx, KeySession(token)).Err(); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}
