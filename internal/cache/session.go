package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campusmart/campusmart/internal/model"
)

// sessionKeyPrefix is the Redis key prefix for server-side sessions.
// Keys are derived from the hashed session token, never the raw cookie value.
const sessionKeyPrefix = "session:"

// cachedSession is the Redis representation of an authenticated session.
type cachedSession struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// SetSession stores an identity under the hashed session token with a TTL.
// The TTL is the absolute session lifetime; it is not refreshed on reads.
func (c *Cache) SetSession(ctx context.Context, tokenHash string, id *model.Identity, ttl time.Duration) error {
	key := sessionKeyPrefix + tokenHash

	data, err := json.Marshal(cachedSession{
		UserID:   id.UserID,
		Email:    id.Email,
		Username: id.Username,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// GetSession retrieves the identity for a hashed session token.
// Returns nil if the session does not exist or has expired (not an error:
// an absent session simply means a guest request).
func (c *Cache) GetSession(ctx context.Context, tokenHash string) (*model.Identity, error) {
	key := sessionKeyPrefix + tokenHash

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Miss or expired - treat as no session
		return nil, nil //nolint:nilerr
	}

	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted entry - treat as no session
		return nil, nil //nolint:nilerr
	}

	return &model.Identity{
		UserID:   cached.UserID,
		Email:    cached.Email,
		Username: cached.Username,
	}, nil
}

// DeleteSession removes a session. Used on logout.
func (c *Cache) DeleteSession(ctx context.Context, tokenHash string) error {
	key := sessionKeyPrefix + tokenHash
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
