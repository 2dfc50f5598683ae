package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "museumtrail:quiz:"

// RedisStore keeps attempts in Redis so that several app instances can share
// them. Expiry is enforced by the key TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: defaultKeyPrefix}
}

// NewRedisStoreFromURL parses a redis:// URL and checks the server answers.
func NewRedisStoreFromURL(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client), nil
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, a Attempt) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode quiz attempt: %w", err)
	}

	var ttl time.Duration
	if !a.ExpiresAt.IsZero() {
		ttl = time.Until(a.ExpiresAt)
		if ttl <= 0 {
			return s.client.Del(ctx, s.key(sessionID)).Err()
		}
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("store quiz attempt: %w", err)
	}
	return nil
}

func (s *RedisStore) Take(ctx context.Context, sessionID string) (*Attempt, error) {
	data, err := s.client.GetDel(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("take quiz attempt: %w", err)
	}

	var a Attempt
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode quiz attempt: %w", err)
	}
	if a.Expired(time.Now()) {
		return nil, nil
	}
	return &a, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
