// Package integration contains integration tests that verify cross-package functionality.
// These tests ensure that different components work together correctly in realistic scenarios.
package integration

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/taskpool/internal/testutil"
	"github.com/vnykmshr/taskpool/pkg/metrics"
	"github.com/vnykmshr/taskpool/pkg/pool"
	"github.com/vnykmshr/taskpool/pkg/schedule"
)

// gatherCounts flattens a registry's counter families into a name-to-total map.
func gatherCounts(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()

	families, err := reg.Gather()
	testutil.AssertNoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				counts[mf.GetName()] += c.GetValue()
			}
		}
	}
	return counts
}

// TestScheduledDrainsRecordMetrics verifies that entries fired by a scheduler
// drain through a metrics-wrapped pool and land in its Prometheus counters.
func TestScheduledDrainsRecordMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := pool.NewWithConfigAndMetrics(
		pool.Config{Slots: 2},
		"integration_pool",
		metrics.Config{Enabled: true, Registry: reg},
	)

	var executed int32
	beat := &pool.Task{
		Name: "heartbeat",
		Action: func(ec pool.ExecContext, args ...any) (any, error) {
			atomic.AddInt32(&executed, 1)
			return nil, nil
		},
	}

	s := schedule.NewWithConfig(schedule.Config{
		Pool:         p,
		TickInterval: 10 * time.Millisecond,
	})
	testutil.AssertNoError(t, s.ScheduleEvery("heartbeat", beat, 20*time.Millisecond))
	testutil.AssertNoError(t, s.Start())

	testutil.Eventually(t, func() bool {
		return atomic.LoadInt32(&executed) >= 3
	}, 2*time.Second, 10*time.Millisecond)
	<-s.Stop()

	// After Stop no drain is in flight, so the counters are settled.
	final := float64(atomic.LoadInt32(&executed))
	counts := gatherCounts(t, reg)
	testutil.AssertEqual(t, counts["taskpool_pool_tasks_submitted_total"], final)
	testutil.AssertEqual(t, counts["taskpool_pool_tasks_completed_total"], final)
	testutil.AssertEqual(t, counts["taskpool_pool_tasks_failed_total"], 0.0)
}

// TestScheduledRetriesShowInMetricsAndEvents verifies that a flaky scheduled
// task retries inside its firing's drain, with every attempt visible both to
// the pool's event handlers and to the metrics counters.
func TestScheduledRetriesShowInMetricsAndEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := pool.NewWithConfigAndMetrics(
		pool.Config{Slots: 1},
		"retry_pool",
		metrics.Config{Enabled: true, Registry: reg},
	)

	// Handlers run on the scheduler's tick goroutine.
	var failures, completions int32
	p.OnTaskError().Add(pool.HandlerFunc(func(r *pool.Result) {
		atomic.AddInt32(&failures, 1)
	}))
	p.OnTaskComplete().Add(pool.HandlerFunc(func(r *pool.Result) {
		atomic.AddInt32(&completions, 1)
	}))

	var attempts int32
	flaky := &pool.Task{
		Name: "flaky-sync",
		Action: func(ec pool.ExecContext, args ...any) (any, error) {
			if n := atomic.AddInt32(&attempts, 1); n < 3 {
				return nil, fmt.Errorf("transient failure %d", n)
			}
			return "synced", nil
		},
		MaxRetry: 5,
	}

	s := schedule.NewWithConfig(schedule.Config{
		Pool:         p,
		TickInterval: 10 * time.Millisecond,
	})
	testutil.AssertNoError(t, s.ScheduleAfter("sync", flaky, 20*time.Millisecond))
	testutil.AssertNoError(t, s.Start())

	testutil.WaitForInt32(t, &completions, 1, 2*time.Second)
	<-s.Stop()

	testutil.AssertEqual(t, atomic.LoadInt32(&attempts), int32(3))
	testutil.AssertEqual(t, atomic.LoadInt32(&failures), int32(2))

	counts := gatherCounts(t, reg)
	testutil.AssertEqual(t, counts["taskpool_pool_tasks_submitted_total"], 1.0)
	testutil.AssertEqual(t, counts["taskpool_pool_tasks_failed_total"], 2.0)
	testutil.AssertEqual(t, counts["taskpool_pool_tasks_retried_total"], 2.0)
	testutil.AssertEqual(t, counts["taskpool_pool_tasks_completed_total"], 1.0)
	testutil.AssertEqual(t, counts["taskpool_pool_tasks_dropped_total"], 0.0)
}
