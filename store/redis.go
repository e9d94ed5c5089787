package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Mizuri0x/contentblast/app/models"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "session:"

// RedisSessions stores sessions as JSON values with a native key TTL, so
// expired tokens disappear without a lazy purge.
type RedisSessions struct {
	rdb *redis.Client
}

// NewRedisSessions wraps an existing redis client.
func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

var _ SessionStore = (*RedisSessions)(nil)

func (s *RedisSessions) Get(ctx context.Context, token string) (models.Session, error) {
	b, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	var sess models.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return models.Session{}, err
	}
	sess.Token = token
	return sess, nil
}

func (s *RedisSessions) Put(ctx context.Context, session models.Session) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ttl := sessionTTL(session)
	if ttl <= 0 {
		return s.Delete(ctx, session.Token)
	}
	return s.rdb.Set(ctx, sessionKeyPrefix+session.Token, b, ttl).Err()
}

// sessionTTL is the lifetime the session manager stamped onto the record.
// Sessions are only written at creation, so this span is the remaining TTL
// under the manager's clock rather than the wall clock.
func sessionTTL(s models.Session) time.Duration {
	return s.ExpiresAt.Sub(s.CreatedAt)
}

func (s *RedisSessions) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}
