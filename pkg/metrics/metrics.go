package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for taskpool components.
type Registry struct {
	// Pool Metrics
	PoolSlots      *prometheus.GaugeVec
	PoolQueued     *prometheus.GaugeVec
	PoolRunning    *prometheus.GaugeVec
	TasksSubmitted *prometheus.CounterVec
	TasksCompleted *prometheus.CounterVec
	TasksFailed    *prometheus.CounterVec
	TasksRetried   *prometheus.CounterVec
	TasksDropped   *prometheus.CounterVec
	TaskDuration   *prometheus.HistogramVec
	DrainDuration  *prometheus.HistogramVec

	// Schedule Metrics
	EntriesScheduled *prometheus.CounterVec
	EntriesFired     *prometheus.CounterVec

	// Publish Metrics
	EventsPublished *prometheus.CounterVec
	PublishErrors   *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by taskpool components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Pool Metrics
		PoolSlots: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "slots",
				Help:      "Number of concurrent execution slots",
			},
			[]string{"pool_name"},
		),

		PoolQueued: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "queued_tasks",
				Help:      "Number of tasks waiting in the pending queue",
			},
			[]string{"pool_name"},
		),

		PoolRunning: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "running_tasks",
				Help:      "Number of tasks currently executing",
			},
			[]string{"pool_name"},
		),

		TasksSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "tasks_submitted_total",
				Help:      "Total number of tasks added to the pool",
			},
			[]string{"pool_name"},
		),

		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "tasks_completed_total",
				Help:      "Total number of successful task attempts",
			},
			[]string{"pool_name"},
		),

		TasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "tasks_failed_total",
				Help:      "Total number of failed task attempts",
			},
			[]string{"pool_name"},
		),

		TasksRetried: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "tasks_retried_total",
				Help:      "Total number of failed tasks re-queued for retry",
			},
			[]string{"pool_name"},
		),

		TasksDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "tasks_dropped_total",
				Help:      "Total number of tasks dropped after exhausting retries",
			},
			[]string{"pool_name"},
		),

		TaskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "task_duration_seconds",
				Help:      "Time spent executing task attempts",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pool_name"},
		),

		DrainDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "drain_duration_seconds",
				Help:      "Time spent draining the pool per Run call",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pool_name"},
		),

		// Schedule Metrics
		EntriesScheduled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "schedule",
				Name:      "entries_scheduled_total",
				Help:      "Total number of entries registered with the scheduler",
			},
			[]string{"scheduler_name"},
		),

		EntriesFired: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "schedule",
				Name:      "entries_fired_total",
				Help:      "Total number of entry firings submitted to the pool",
			},
			[]string{"scheduler_name"},
		),

		// Publish Metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "publish",
				Name:      "events_total",
				Help:      "Total number of task results published",
			},
			[]string{"channel"},
		),

		PublishErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "publish",
				Name:      "errors_total",
				Help:      "Total number of publish failures",
			},
			[]string{"channel"},
		),
	}
}
