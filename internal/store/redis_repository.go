/**
 * @description
 * Redis-backed implementation of SessionRepository. The whole session is
 * stored as one JSON envelope under a single configurable key, matching the
 * single-document persistence layout of the product.
 */
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionKey is the Redis key holding the session envelope.
const DefaultSessionKey = "pledg:session:v1"

// RedisSessionRepository persists the session document in Redis.
type RedisSessionRepository struct {
	client *redis.Client
	key    string
}

// NewRedisSessionRepository builds a repository around an existing client.
// An empty key falls back to DefaultSessionKey.
func NewRedisSessionRepository(client *redis.Client, key string) *RedisSessionRepository {
	if key == "" {
		key = DefaultSessionKey
	}
	return &RedisSessionRepository{client: client, key: key}
}

// Save writes the versioned envelope. The document has no TTL; the session
// survives process restarts until cleared.
func (r *RedisSessionRepository) Save(ctx context.Context, session Session) error {
	payload, err := encodeSession(session)
	if err != nil {
		return fmt.Errorf("failed to encode session document: %w", err)
	}
	if err := r.client.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to write session document: %w", err)
	}
	return nil
}

// Load reads and unwraps the stored envelope. A missing key reports
// ErrSessionNotFound, as do corrupt payloads and schema mismatches.
func (r *RedisSessionRepository) Load(ctx context.Context) (*Session, error) {
	payload, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session document: %w", err)
	}
	return decodeSession(payload)
}

// Clear removes the stored document. Clearing an absent key is not an error.
func (r *RedisSessionRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session document: %w", err)
	}
	return nil
}
