package publish

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/taskpool/pkg/metrics"
	"github.com/vnykmshr/taskpool/pkg/pool"
)

// MetricsPublisher wraps a Publisher with Prometheus metrics collection.
type MetricsPublisher struct {
	publisher Publisher
	channel   string
	registry  *metrics.Registry
	enabled   bool
}

// NewRedisWithMetrics creates a Redis publisher with metrics enabled on its
// own registry.
func NewRedisWithMetrics(config RedisConfig) (Publisher, error) {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	metricsConfig := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewRedisWithConfigAndMetrics(config, metricsConfig)
}

// NewRedisWithConfigAndMetrics creates a Redis publisher with custom metrics
// configuration.
func NewRedisWithConfigAndMetrics(config RedisConfig, metricsConfig metrics.Config) (Publisher, error) {
	base, err := NewRedis(config)
	if err != nil {
		return nil, err
	}

	if !metricsConfig.Enabled {
		return base, nil
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	return &MetricsPublisher{
		publisher: base,
		channel:   config.Channel,
		registry:  registry,
		enabled:   true,
	}, nil
}

// PublishResult publishes r and counts the outcome.
func (mp *MetricsPublisher) PublishResult(ctx context.Context, r *pool.Result) error {
	err := mp.publisher.PublishResult(ctx, r)

	if mp.enabled {
		if err != nil {
			mp.registry.PublishErrors.WithLabelValues(mp.channel).Inc()
		} else {
			mp.registry.EventsPublished.WithLabelValues(mp.channel).Inc()
		}
	}

	return err
}

// Close closes the wrapped publisher.
func (mp *MetricsPublisher) Close() error {
	return mp.publisher.Close()
}

// EnableMetrics enables metrics collection.
func (mp *MetricsPublisher) EnableMetrics(config metrics.Config) error {
	mp.enabled = config.Enabled

	if config.Registry != nil {
		mp.registry = metrics.NewRegistry(config.Registry)
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (mp *MetricsPublisher) DisableMetrics() {
	mp.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mp *MetricsPublisher) MetricsEnabled() bool {
	return mp.enabled
}
