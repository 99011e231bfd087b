package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	playsStream    = "plays.ingested.football_nfl"
	backfillStream = "backfill.progress.football_nfl"
)

// GameIngestedEvent announces that a game's play-by-play finished ingesting.
type GameIngestedEvent struct {
	GameID       int    `json:"game_id"`
	ExternalID   string `json:"external_id"`
	PlaysStored  int    `json:"plays_stored"`
	CardsSeen    int    `json:"cards_seen"`
	CardsDropped int    `json:"cards_dropped"`
}

// RedisStreamPublisher publishes events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
	}
}

// NewRedisPublisher creates a publisher with its own connection
func NewRedisPublisher(redisURL string) (*RedisStreamPublisher, error) {
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

	return &RedisStreamPublisher{
		client: client,
	}, nil
}

// Close closes the Redis connection
func (rsp *RedisStreamPublisher) Close() error {
	return rsp.client.Close()
}

// PublishGameIngested publishes a finished ingestion to the plays stream
func (rsp *RedisStreamPublisher) PublishGameIngested(ctx context.Context, event GameIngestedEvent) error {
	return rsp.publish(ctx, playsStream, event)
}

// PublishBackfillProgress publishes a backfill job snapshot to the backfill stream
func (rsp *RedisStreamPublisher) PublishBackfillProgress(ctx context.Context, jobData interface{}) error {
	return rsp.publish(ctx, backfillStream, jobData)
}

func (rsp *RedisStreamPublisher) publish(ctx context.Context, stream string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return rsp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
