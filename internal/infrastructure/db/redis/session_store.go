package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// rotateScript swaps the session value only if it still holds the expected
// token id, keeping refresh rotation atomic across concurrent requests.
var rotateScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
	return 1
end
return 0
`)

// SessionStore keeps one refresh-token id per user.
// Key format: session:<user_id>
type SessionStore struct {
	client redis.Cmdable
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client redis.Cmdable) *SessionStore {
	return &SessionStore{client: client}
}

// Save makes tokenID the user's live session until ttl elapses.
func (s *SessionStore) Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(userID), tokenID, ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Rotate replaces expect with next. It returns false when the stored session
// is missing or differs from expect.
func (s *SessionStore) Rotate(ctx context.Context, userID, expect, next string, ttl time.Duration) (bool, error) {
	n, err := rotateScript.Run(ctx, s.client, []string{s.key(userID)}, expect, next, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("session rotate: %w", err)
	}
	return n == 1, nil
}

// Current returns the live token id, or "" when the user has none.
func (s *SessionStore) Current(ctx context.Context, userID string) (string, error) {
	v, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session lookup: %w", err)
	}
	return v, nil
}

func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(userID string) string {
	return "session:" + userID
}
