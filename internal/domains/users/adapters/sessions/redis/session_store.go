package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	userports "github.com/bdotrack/bdo-api/internal/domains/users/ports"
)

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

const keyPrefix = "bdo:session:"

// SessionStore keeps sessions in Redis. Each token key expires on its own;
// a per-user set indexes the tokens so logout can revoke all of them.
type SessionStore struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

func NewSessionStore(rdb goredis.UniversalClient, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func tokenKey(token string) string { return keyPrefix + "token:" + token }

func userKey(username string) string { return keyPrefix + "user:" + username }

func (s *SessionStore) Save(ctx context.Context, username, token string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	token = strings.TrimSpace(token)
	if username == "" || token == "" {
		return errors.New("username and token are required")
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, tokenKey(token), username, s.ttl)
		pipe.SAdd(ctx, userKey(username), token)
		pipe.Expire(ctx, userKey(username), s.ttl)
		return nil
	})
	return err
}

func (s *SessionStore) Exists(ctx context.Context, token string) (bool, error) {
	if err := s.ensureClient(); err != nil {
		return false, err
	}
	n, err := s.rdb.Exists(ctx, tokenKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SessionStore) Delete(ctx context.Context, username string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	tokens, err := s.rdb.SMembers(ctx, userKey(username)).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, tokenKey(token))
	}
	keys = append(keys, userKey(username))
	return s.rdb.Del(ctx, keys...).Err()
}

func (s *SessionStore) ensureClient() error {
	if s == nil || s.rdb == nil {
		return errors.New("redis session store not configured")
	}
	return nil
}

var _ userports.SessionStore = (*SessionStore)(nil)
