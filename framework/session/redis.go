package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each flash list in a Redis list at
// "<prefix><sessionID>:<key>", expiring after lifetime.
type RedisStore struct {
	client   redis.UniversalClient
	prefix   string
	lifetime time.Duration
}

// NewRedisStore wraps an existing client. An empty prefix defaults to "flash:".
func NewRedisStore(client redis.UniversalClient, prefix string, lifetime time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "flash:"
	}
	return &RedisStore{client: client, prefix: prefix, lifetime: lifetime}
}

func (s *RedisStore) key(sessionID, key string) string {
	return s.prefix + sessionID + ":" + key
}

func (s *RedisStore) Push(ctx context.Context, sessionID, key string, value []byte) error {
	k := s.key(sessionID, key)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, k, value)
		if s.lifetime > 0 {
			pipe.Expire(ctx, k, s.lifetime)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session: push %s: %w", k, err)
	}
	return nil
}

func (s *RedisStore) Pull(ctx context.Context, sessionID, key string) ([][]byte, error) {
	k := s.key(sessionID, key)
	var values *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		values = pipe.LRange(ctx, k, 0, -1)
		pipe.Del(ctx, k)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("session: pull %s: %w", k, err)
	}

	out := make([][]byte, 0, len(values.Val()))
	for _, v := range values.Val() {
		out = append(out, []byte(v))
	}
	return out, nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
