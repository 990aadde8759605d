/*
Package taskpool provides bounded-concurrency task execution with retries,
completion events, scheduling, and result publishing.

Task Execution (pkg/pool):
  - pool: FIFO task pool with a fixed number of execution slots
  - retries: per-task retry budgets, exhausted-budget reporting
  - events: deduplicated completion and error handler chains

Scheduling (pkg/schedule):
  - one-shot, interval, and cron entries that feed a pool

Publishing (pkg/publish):
  - redis: task results exported as JSON events over pub/sub

Observability (pkg/metrics):
  - Prometheus collectors for pools, schedulers, and publishers

Example usage:

	import "github.com/vnykmshr/taskpool/pkg/pool"

	p := pool.New(4)
	p.OnTaskComplete().Add(pool.HandlerFunc(func(r *pool.Result) {
		log.Printf("%s: %v", r.Task.Name, r.Value)
	}))

	p.AddFunc("resize", resizeImage, "photo.png")
	if err := p.Run(); err != nil {
		log.Fatal(err)
	}
*/
package taskpool
