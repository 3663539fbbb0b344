// Package redis backs the login session store with Redis, so sessions
// survive process restarts and are shared between instances.
package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/rlunar/ionize/internal/domain"
)

const sessionPrefix = "ion:sess:"

type SessionStore struct {
	rdb *goredis.Client
}

func NewSessionStore(rdb *goredis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// NewClient dials a Redis instance.
func NewClient(addr string) *goredis.Client {
	return goredis.NewClient(&goredis.Options{Addr: addr})
}

func (s *SessionStore) Create(ctx context.Context, username string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", domain.ErrInvalidField("username", "empty")
	}
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionPrefix+token, username, ttl).Err(); err != nil {
		return "", domain.ErrStore("session_set", err)
	}
	return token, nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (string, error) {
	username, err := s.rdb.Get(ctx, sessionPrefix+token).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", domain.ErrSessionExpired()
		}
		return "", domain.ErrStore("session_get", err)
	}
	return username, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, sessionPrefix+token).Err(); err != nil {
		return domain.ErrStore("session_del", err)
	}
	return nil
}
