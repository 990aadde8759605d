package pool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/taskpool/pkg/metrics"
)

// MetricsPool wraps a Pool with Prometheus metrics collection. It registers
// its own result handlers on the base pool's event managers at construction
// time, so they run ahead of any caller-added handlers and are included in
// the managers' handler counts.
type MetricsPool struct {
	pool     Pool
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a pool with metrics enabled on its own registry.
func NewWithMetrics(slots int, name string) Pool {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config{Slots: slots}, name, config)
}

// NewWithConfigAndMetrics creates a pool with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) Pool {
	basePool := NewWithConfig(config)

	if !metricsConfig.Enabled {
		return basePool
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	mp := &MetricsPool{
		pool:     basePool,
		name:     name,
		registry: registry,
		enabled:  true,
	}

	mp.observeResults()
	mp.updateGauges()

	return mp
}

// observeResults installs the handlers that record attempt outcomes.
func (mp *MetricsPool) observeResults() {
	mp.pool.OnTaskComplete().Add(HandlerFunc(func(r *Result) {
		if !mp.enabled {
			return
		}
		mp.registry.TasksCompleted.WithLabelValues(mp.name).Inc()
		mp.registry.TaskDuration.WithLabelValues(mp.name).Observe(r.Duration.Seconds())
		mp.updateGauges()
	}))

	mp.pool.OnTaskError().Add(HandlerFunc(func(r *Result) {
		if !mp.enabled {
			return
		}
		mp.registry.TasksFailed.WithLabelValues(mp.name).Inc()
		mp.registry.TaskDuration.WithLabelValues(mp.name).Observe(r.Duration.Seconds())

		// The retry decision is applied after this dispatch, so the task
		// still carries the pre-increment RetryCount here.
		t := r.Task
		if t.MaxRetry < 0 || t.RetryCount < t.MaxRetry {
			mp.registry.TasksRetried.WithLabelValues(mp.name).Inc()
		} else {
			mp.registry.TasksDropped.WithLabelValues(mp.name).Inc()
		}
		mp.updateGauges()
	}))
}

// updateGauges refreshes the current state metrics.
func (mp *MetricsPool) updateGauges() {
	if !mp.enabled {
		return
	}

	mp.registry.PoolSlots.WithLabelValues(mp.name).Set(float64(mp.pool.Slots()))
	mp.registry.PoolQueued.WithLabelValues(mp.name).Set(float64(mp.pool.QueueCount()))
	mp.registry.PoolRunning.WithLabelValues(mp.name).Set(float64(mp.pool.RunningCount()))
}

// Add enqueues t and counts the submission.
func (mp *MetricsPool) Add(t *Task) {
	mp.pool.Add(t)

	if mp.enabled && t != nil {
		mp.registry.TasksSubmitted.WithLabelValues(mp.name).Inc()
		mp.updateGauges()
	}
}

// AddFunc builds and enqueues a task and counts the submission.
func (mp *MetricsPool) AddFunc(name string, action Action, args ...any) *Task {
	t := mp.pool.AddFunc(name, action, args...)

	if mp.enabled {
		mp.registry.TasksSubmitted.WithLabelValues(mp.name).Inc()
		mp.updateGauges()
	}

	return t
}

// Run drains the base pool and records the drain duration, including drains
// aborted by a start error or a panicking handler.
func (mp *MetricsPool) Run() error {
	if !mp.enabled {
		return mp.pool.Run()
	}

	start := time.Now()
	defer func() {
		mp.registry.DrainDuration.WithLabelValues(mp.name).Observe(time.Since(start).Seconds())
		mp.updateGauges()
	}()

	return mp.pool.Run()
}

// OnTaskComplete returns the base pool's completion event manager.
func (mp *MetricsPool) OnTaskComplete() *EventManager {
	return mp.pool.OnTaskComplete()
}

// OnTaskError returns the base pool's error event manager.
func (mp *MetricsPool) OnTaskError() *EventManager {
	return mp.pool.OnTaskError()
}

// Slots returns the number of concurrent execution slots.
func (mp *MetricsPool) Slots() int {
	return mp.pool.Slots()
}

// QueueCount returns the number of queued tasks.
func (mp *MetricsPool) QueueCount() int {
	queued := mp.pool.QueueCount()

	if mp.enabled {
		mp.registry.PoolQueued.WithLabelValues(mp.name).Set(float64(queued))
	}

	return queued
}

// RunningCount returns the number of tasks currently executing.
func (mp *MetricsPool) RunningCount() int {
	running := mp.pool.RunningCount()

	if mp.enabled {
		mp.registry.PoolRunning.WithLabelValues(mp.name).Set(float64(running))
	}

	return running
}

// Count returns queued plus running tasks.
func (mp *MetricsPool) Count() int {
	return mp.pool.Count()
}

// EnableMetrics enables metrics collection.
func (mp *MetricsPool) EnableMetrics(config metrics.Config) error {
	mp.enabled = config.Enabled

	if config.Registry != nil {
		mp.registry = metrics.NewRegistry(config.Registry)
	}

	if mp.enabled {
		mp.updateGauges()
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (mp *MetricsPool) DisableMetrics() {
	mp.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mp *MetricsPool) MetricsEnabled() bool {
	return mp.enabled
}
