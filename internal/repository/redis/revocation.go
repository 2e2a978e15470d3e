// Package redis implements the revocation ledger on Redis. Entries carry a
// TTL equal to the remaining token lifetime, so the store cleans itself up
// without a sweeper.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked_token:"

// RevocationRepository implements repository.RevocationRepository using Redis.
type RevocationRepository struct {
	client *redis.Client
}

// NewRevocationRepository creates a new Redis-backed revocation ledger.
func NewRevocationRepository(client *redis.Client) *RevocationRepository {
	return &RevocationRepository{client: client}
}

// Record marks a token's jti as revoked until the token would have expired
// anyway. Recording an already-expired token is a no-op: the token can no
// longer validate, so there is nothing to revoke. Re-recording the same jti
// is idempotent.
func (r *RevocationRepository) Record(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := r.client.Set(ctx, keyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis record revocation: %w", err)
	}

	return nil
}

// IsRevoked reports whether the jti has been recorded and not yet expired.
func (r *RevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("redis check revocation: %w", err)
	}

	return n > 0, nil
}
