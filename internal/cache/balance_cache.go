// Package cache holds the Redis balance cache. The cache is strictly an
// optimization for balance reads: the redemption ledger invalidates entries
// after every commit and cache failures fall back to the database, so a
// cold or unreachable Redis never affects correctness.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/campushub/rewards-service/internal/service"
)

// BalanceCache caches user point balances in Redis with a short TTL.
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBalanceCache connects to Redis and verifies the connection.
func NewBalanceCache(ctx context.Context, addr, password string, ttl time.Duration) (*BalanceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          0,
		MaxRetries:  5,
		DialTimeout: 10 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &BalanceCache{client: client, ttl: ttl}, nil
}

func balanceKey(userID uuid.UUID) string {
	return "balance:" + userID.String()
}

// GetBalance returns the cached balance for the user.
// Returns service.ErrCacheMiss when the key is absent.
func (c *BalanceCache) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	val, err := c.client.Get(ctx, balanceKey(userID)).Result()
	if err == redis.Nil {
		return 0, service.ErrCacheMiss
	} else if err != nil {
		return 0, err
	}

	points, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parse cached balance: %w", err)
	}
	return points, nil
}

// SetBalance caches the user's balance for the configured TTL.
func (c *BalanceCache) SetBalance(ctx context.Context, userID uuid.UUID, points int) error {
	return c.client.Set(ctx, balanceKey(userID), points, c.ttl).Err()
}

// InvalidateBalance drops the user's cached balance. Called after every
// successful redemption so the next read observes the committed total.
func (c *BalanceCache) InvalidateBalance(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, balanceKey(userID)).Err()
}

// Close releases the Redis connection.
func (c *BalanceCache) Close() error {
	return c.client.Close()
}
