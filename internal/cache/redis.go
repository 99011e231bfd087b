package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache handles caching and fast state storage
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Set stores a key-value pair with TTL
func (rc *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return rc.client.Set(ctx, key, value, ttl).Err()
}

// Get retrieves a value by key
func (rc *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return rc.client.Get(ctx, key).Result()
}

// Delete removes a key
func (rc *RedisCache) Delete(ctx context.Context, keys ...string) error {
	return rc.client.Del(ctx, keys...).Err()
}

// MarkGameIngested records when a game's play-by-play was last ingested,
// so the nightly sweep can skip games that were just processed.
func (rc *RedisCache) MarkGameIngested(ctx context.Context, gameID int, ttl time.Duration) error {
	return rc.Set(ctx, ingestMarkKey(gameID), time.Now().Unix(), ttl)
}

// WasGameIngested reports whether a game's ingestion marker is still live.
func (rc *RedisCache) WasGameIngested(ctx context.Context, gameID int) (bool, error) {
	_, err := rc.Get(ctx, ingestMarkKey(gameID))
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ClearGameIngested drops a game's ingestion marker so the next sweep
// picks it up again.
func (rc *RedisCache) ClearGameIngested(ctx context.Context, gameID int) error {
	return rc.Delete(ctx, ingestMarkKey(gameID))
}

func ingestMarkKey(gameID int) string {
	return fmt.Sprintf("ingest:game:%d", gameID)
}
