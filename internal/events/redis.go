package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

// RedisPublisher forwards bus events to Redis channels named <prefix>:<topic>
type RedisPublisher struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

func NewRedisPublisher(client *redis.Client, prefix string, logger *zap.Logger) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{client: client, prefix: prefix, logger: logger}
}

// Channel returns the Redis channel used for a topic
func (p *RedisPublisher) Channel(topic Topic) string {
	return fmt.Sprintf("%s:%s", p.prefix, topic)
}

// Forward publishes one event; failures are returned to the caller
func (p *RedisPublisher) Forward(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.client.Publish(ctx, p.Channel(e.Topic), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Attach subscribes the publisher to every topic on bus. Publish errors are logged, never raised.
func (p *RedisPublisher) Attach(bus *Bus) {
	bus.SubscribeAll(func(e Event) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.Forward(ctx, e); err != nil {
			p.logger.Warn("redis event publish failed",
				zap.String("channel", p.Channel(e.Topic)),
				zap.Error(err),
			)
		}
	})
}
