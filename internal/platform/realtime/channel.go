// Package realtime carries best-effort push delivery of notifications to
// connected clients. Fan-out goes through a per-recipient Redis pub/sub
// channel so every API instance sees publishes from every other instance.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher is the capability handed to the notification dispatcher. Delivery
// is fire-and-forget: a failed publish is not an error the caller acts on.
type Publisher interface {
	Publish(ctx context.Context, userID string, payload interface{}) error
}

// Connect opens the Redis client backing the realtime channel.
func Connect(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return rdb, nil
}

type RedisChannel struct {
	rdb *redis.Client
}

func NewRedisChannel(rdb *redis.Client) *RedisChannel {
	return &RedisChannel{rdb: rdb}
}

func channelName(userID string) string {
	return "notifications:" + userID
}

func (c *RedisChannel) Publish(ctx context.Context, userID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal realtime payload: %w", err)
	}
	if err := c.rdb.Publish(ctx, channelName(userID), data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channelName(userID), err)
	}
	return nil
}

// Subscribe opens the recipient's channel and returns a stream of raw JSON
// payloads. The returned close function must be called when the consumer
// disconnects.
func (c *RedisChannel) Subscribe(ctx context.Context, userID string) (<-chan *redis.Message, func() error) {
	sub := c.rdb.Subscribe(ctx, channelName(userID))
	return sub.Channel(), sub.Close
}
