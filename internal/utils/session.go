package utils

import (
	"context" // Context for Redis operations
	"strconv" // User ID to key conversion

	"github.com/redis/go-redis/v9" // Redis client
)

// sessionKey builds the Redis key holding a user's current bearer token
func sessionKey(userID uint) string {
	return "session:user:" + strconv.Itoa(int(userID))
}

// SetSession stores the user's bearer token, replacing any previous one.
// A token is only honored while its session entry exists, which makes
// logout able to revoke it before the JWT itself expires.
func SetSession(ctx context.Context, rdb *redis.Client, userID uint, token string) error {
	return rdb.Set(ctx, sessionKey(userID), token, TokenTTL).Err() // Expires with the token
}

// GetSession returns the stored token; found is false when no session exists
func GetSession(ctx context.Context, rdb *redis.Client, userID uint) (string, bool, error) {
	val, err := rdb.Get(ctx, sessionKey(userID)).Result() // Look up the session entry
	if err == redis.Nil {
		return "", false, nil // No session stored
	} else if err != nil {
		return "", false, err // Other Redis error
	}
	return val, true, nil // Session found
}

// DeleteSession revokes the user's bearer token.
// Deleting an absent session is a no-op, so logout is idempotent.
func DeleteSession(ctx context.Context, rdb *redis.Client, userID uint) error {
	return rdb.Del(ctx, sessionKey(userID)).Err() // Delete the session entry
}
