package publish

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/common/validation"
	"github.com/vnykmshr/taskpool/pkg/pool"
)

// DefaultPublishTimeout bounds each publish when the config leaves
// PublishTimeout unset.
const DefaultPublishTimeout = 500 * time.Millisecond

// RedisConfig holds configuration for the Redis publisher.
type RedisConfig struct {
	// Redis is the client used to publish. The publisher does not own the
	// client; closing the publisher leaves it open.
	Redis redis.UniversalClient

	// Channel is the pub/sub channel events are published to.
	Channel string

	// PublishTimeout bounds each publish operation.
	// Defaults to DefaultPublishTimeout.
	PublishTimeout time.Duration
}

type redisPublisher struct {
	client  redis.UniversalClient
	channel string
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

// NewRedis creates a publisher that emits one event per task result on a
// Redis pub/sub channel.
func NewRedis(config RedisConfig) (Publisher, error) {
	if config.Redis == nil {
		return nil, tperrors.NewValidationError("publish", "Redis", nil, "cannot be nil").
			WithHint("provide a redis.UniversalClient")
	}
	if err := validation.ValidateNotEmpty("publish", "Channel", config.Channel); err != nil {
		return nil, err
	}

	timeout := config.PublishTimeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}

	return &redisPublisher{
		client:  config.Redis,
		channel: config.Channel,
		timeout: timeout,
	}, nil
}

// PublishResult marshals r into an Event and publishes it.
func (p *redisPublisher) PublishResult(ctx context.Context, r *pool.Result) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return tperrors.ErrClosed
	}

	payload, err := json.Marshal(FromResult(r))
	if err != nil {
		return tperrors.NewOperationError("publish", "PublishResult", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return tperrors.NewOperationError("publish", "PublishResult", err).
			WithContext("channel " + p.channel)
	}

	return nil
}

// Close marks the publisher closed. It is safe to call more than once.
func (p *redisPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
