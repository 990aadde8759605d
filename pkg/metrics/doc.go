// Package metrics provides Prometheus instrumentation for taskpool components.
//
// This package enables monitoring and observability for pools, schedulers,
// and result publishers through Prometheus metrics.
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	// Pool with metrics
//	p := pool.NewWithMetrics(4, "ingest_pool")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
//	p := pool.NewWithConfigAndMetrics(
//		pool.Config{Slots: 4},
//		"ingest_pool",
//		config,
//	)
//
// # Available Metrics
//
// ## Pool Metrics
//
//   - taskpool_pool_slots: Number of concurrent execution slots
//   - taskpool_pool_queued_tasks: Number of tasks waiting in the pending queue
//   - taskpool_pool_running_tasks: Number of tasks currently executing
//   - taskpool_pool_tasks_submitted_total: Total number of tasks added to the pool
//   - taskpool_pool_tasks_completed_total: Total number of successful task attempts
//   - taskpool_pool_tasks_failed_total: Total number of failed task attempts
//   - taskpool_pool_tasks_retried_total: Total number of failed tasks re-queued for retry
//   - taskpool_pool_tasks_dropped_total: Total number of tasks dropped after exhausting retries
//   - taskpool_pool_task_duration_seconds: Time spent executing task attempts
//   - taskpool_pool_drain_duration_seconds: Time spent draining the pool per Run call
//
// ## Schedule Metrics
//
//   - taskpool_schedule_entries_scheduled_total: Total number of entries registered
//   - taskpool_schedule_entries_fired_total: Total number of entry firings submitted
//
// ## Publish Metrics
//
//   - taskpool_publish_events_total: Total number of task results published
//   - taskpool_publish_errors_total: Total number of publish failures
//
// # Labels
//
// Metrics include relevant labels for filtering and aggregation:
//
//   - pool_name: User-provided name for the pool instance
//   - scheduler_name: User-provided name for the scheduler instance
//   - channel: Destination channel for published results
//
// # Runtime Control
//
// Components implementing the Instrumentable interface support runtime control:
//
//	p := pool.NewWithMetrics(4, "ingest_pool")
//	mp := p.(metrics.Instrumentable)
//	mp.DisableMetrics()            // Stop collecting metrics
//	mp.EnableMetrics(config)       // Re-enable with new config
//	enabled := mp.MetricsEnabled() // Check current state
//
// # Performance
//
// Metrics collection is designed for minimal overhead:
//   - Metrics are updated only when scheduling events occur
//   - No background goroutines or timers
//   - Conditional updates based on enabled state
package metrics
