// Package schedule fires tasks into a pool at scheduled times.
//
// A Scheduler keeps a set of named entries, each pairing a task prototype with
// a firing rule: a one-shot time, a fixed interval, or a cron expression. A
// background tick loop checks for due entries, enqueues a clone of each
// prototype, and drains the pool. Cloning keeps firings independent: retry
// bookkeeping from one firing never bleeds into the next.
//
// Basic Usage:
//
//	p := pool.New(4)
//	s := schedule.New(p)
//	defer func() { <-s.Stop() }()
//
//	if err := s.Start(); err != nil {
//		log.Fatal(err)
//	}
//
//	report := &pool.Task{
//		Name: "report",
//		Action: func(ec pool.ExecContext, args ...any) (any, error) {
//			return buildReport()
//		},
//	}
//
//	// One-shot, ten seconds from now.
//	s.ScheduleAfter("startup-report", report, 10*time.Second)
//
//	// Repeating, every minute.
//	s.ScheduleEvery("minute-report", report, time.Minute)
//
// Cron Scheduling:
//
// Cron entries use six-field expressions with a seconds field, evaluated in
// the configured Location:
//
//	// Every day at 02:30:00.
//	s.ScheduleCron("nightly", "0 30 2 * * *", report)
//
//	// Every 15 seconds.
//	s.ScheduleCron("frequent", "*/15 * * * * *", report)
//
// Entry Management:
//
// Entry IDs are unique; scheduling a second entry under a live ID fails.
// Entries can be inspected and removed at any time:
//
//	for _, e := range s.Entries() {
//		fmt.Printf("%s fires at %v\n", e.ID, e.RunAt)
//	}
//
//	s.Cancel("nightly")
//	s.CancelAll()
//
// Pool Ownership:
//
// While the scheduler runs, its tick loop owns the pool: it enqueues due
// clones and drives the pool's drain cycle. Handlers registered on the pool
// see every firing's results as usual. Callers must not add tasks to the pool
// or run it themselves until the channel returned by Stop closes.
//
// Metrics:
//
// NewWithMetrics and NewWithConfigAndMetrics wrap a scheduler with Prometheus
// counters for registered and fired entries, following the same decorator
// shape as the pool's metrics support.
package schedule
