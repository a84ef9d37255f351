package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis and verifies the connection. The client
// is handed to the rate limiter and the event publisher; it is not stored
// as package state.
func NewRedisClient() (*redis.Client, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return client, nil
}

// PublishBookingUpdate publishes a reservation lifecycle event to Redis
// pub/sub for external consumers.
func PublishBookingUpdate(ctx context.Context, client *redis.Client, kind string, bookingID uint, status string, data map[string]interface{}) error {
	updateData := map[string]interface{}{
		"kind":      kind,
		"bookingId": bookingID,
		"status":    status,
		"data":      data,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return client.Publish(ctx, "bookings:updates", jsonData).Err()
}
