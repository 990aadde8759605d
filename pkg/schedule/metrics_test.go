package schedule

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/taskpool/internal/testutil"
	"github.com/vnykmshr/taskpool/pkg/metrics"
	"github.com/vnykmshr/taskpool/pkg/pool"
)

func TestMetricsSchedulerCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewWithConfigAndMetrics(
		Config{Pool: pool.New(1), TickInterval: 10 * time.Millisecond},
		"test_sched",
		metrics.Config{Enabled: true, Registry: reg},
	)
	defer func() { <-s.Stop() }()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	var executed int32
	if err := s.Schedule("one", countingTask("one", &executed), time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := s.Schedule("bad", nil, time.Now()); err == nil {
		t.Error("expected validation error")
	}

	testutil.WaitForInt32(t, &executed, 1, 2*time.Second)

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

	// The rejected registration is not counted.
	testutil.AssertEqual(t, counts["taskpool_schedule_entries_scheduled_total"], 1.0)
	testutil.AssertEqual(t, counts["taskpool_schedule_entries_fired_total"], 1.0)
}

func TestMetricsSchedulerDisabled(t *testing.T) {
	s := NewWithConfigAndMetrics(Config{Pool: pool.New(1)}, "plain", metrics.Config{Enabled: false})

	if _, ok := s.(*MetricsScheduler); ok {
		t.Error("disabled metrics should not wrap the scheduler")
	}
}

func TestMetricsSchedulerToggle(t *testing.T) {
	s := NewWithMetrics(pool.New(1), "toggle_sched")
	ms, ok := s.(*MetricsScheduler)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, ms.MetricsEnabled(), true)

	ms.DisableMetrics()
	testutil.AssertEqual(t, ms.MetricsEnabled(), false)

	err := ms.EnableMetrics(metrics.Config{Enabled: true, Registry: prometheus.NewRegistry()})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ms.MetricsEnabled(), true)
}
