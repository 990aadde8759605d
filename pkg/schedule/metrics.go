package schedule

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/taskpool/pkg/metrics"
	"github.com/vnykmshr/taskpool/pkg/pool"
)

// MetricsScheduler wraps a Scheduler with Prometheus metrics collection.
// Scheduled entries are counted as they register; firings are counted
// through the base scheduler's OnEntryFired callback, chained ahead of any
// caller-provided callback.
type MetricsScheduler struct {
	scheduler Scheduler
	name      string
	registry  *metrics.Registry
	enabled   bool
}

// NewWithMetrics creates a scheduler with metrics enabled on its own
// registry.
func NewWithMetrics(p pool.Pool, name string) Scheduler {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config{Pool: p}, name, config)
}

// NewWithConfigAndMetrics creates a scheduler with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) Scheduler {
	if !metricsConfig.Enabled {
		return NewWithConfig(config)
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	ms := &MetricsScheduler{
		name:     name,
		registry: registry,
		enabled:  true,
	}

	userFired := config.OnEntryFired
	config.OnEntryFired = func(id string, t *pool.Task) {
		if ms.enabled {
			ms.registry.EntriesFired.WithLabelValues(ms.name).Inc()
		}
		if userFired != nil {
			userFired(id, t)
		}
	}

	ms.scheduler = NewWithConfig(config)
	return ms
}

func (ms *MetricsScheduler) countScheduled(err error) {
	if err == nil && ms.enabled {
		ms.registry.EntriesScheduled.WithLabelValues(ms.name).Inc()
	}
}

// Schedule registers a one-shot entry and counts the registration.
func (ms *MetricsScheduler) Schedule(id string, t *pool.Task, runAt time.Time) error {
	err := ms.scheduler.Schedule(id, t, runAt)
	ms.countScheduled(err)
	return err
}

// ScheduleAfter registers a delayed one-shot entry and counts the
// registration.
func (ms *MetricsScheduler) ScheduleAfter(id string, t *pool.Task, delay time.Duration) error {
	err := ms.scheduler.ScheduleAfter(id, t, delay)
	ms.countScheduled(err)
	return err
}

// ScheduleEvery registers a repeating entry and counts the registration.
func (ms *MetricsScheduler) ScheduleEvery(id string, t *pool.Task, interval time.Duration) error {
	err := ms.scheduler.ScheduleEvery(id, t, interval)
	ms.countScheduled(err)
	return err
}

// ScheduleCron registers a cron entry and counts the registration.
func (ms *MetricsScheduler) ScheduleCron(id string, spec string, t *pool.Task) error {
	err := ms.scheduler.ScheduleCron(id, spec, t)
	ms.countScheduled(err)
	return err
}

// Cancel removes the entry with the given id.
func (ms *MetricsScheduler) Cancel(id string) bool {
	return ms.scheduler.Cancel(id)
}

// CancelAll removes every entry.
func (ms *MetricsScheduler) CancelAll() {
	ms.scheduler.CancelAll()
}

// Entries returns a snapshot of all entries sorted by next run time.
func (ms *MetricsScheduler) Entries() []Entry {
	return ms.scheduler.Entries()
}

// Start launches the base scheduler's tick loop.
func (ms *MetricsScheduler) Start() error {
	return ms.scheduler.Start()
}

// Stop signals the base scheduler's tick loop.
func (ms *MetricsScheduler) Stop() <-chan struct{} {
	return ms.scheduler.Stop()
}

// EnableMetrics enables metrics collection.
func (ms *MetricsScheduler) EnableMetrics(config metrics.Config) error {
	ms.enabled = config.Enabled

	if config.Registry != nil {
		ms.registry = metrics.NewRegistry(config.Registry)
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (ms *MetricsScheduler) DisableMetrics() {
	ms.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (ms *MetricsScheduler) MetricsEnabled() bool {
	return ms.enabled
}
