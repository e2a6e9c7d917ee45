package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		RedisClient = nil
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// PublishBookingEvent publishes a workflow event to Redis pub/sub so that
// reporting and other read-only consumers can follow the core state.
func PublishBookingEvent(ctx context.Context, event string, payload map[string]interface{}) error {
	if RedisClient == nil {
		return nil
	}

	eventData := map[string]interface{}{
		"event":     event,
		"data":      payload,
		"timestamp": time.Now().Unix(),
	}

	data, err := json.Marshal(eventData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "booking:events", data).Err()
}
