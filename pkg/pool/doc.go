/*
Package pool provides a bounded-concurrency, run-to-drain task engine.

A pool holds a FIFO queue of named tasks and a fixed number of execution
slots. Run starts queued tasks as slots free up, waits for completions,
dispatches each outcome to event handlers exactly once, and applies the
task's retry policy, returning only when no queued or running work remains.

Basic usage:

	p := pool.New(4) // 4 concurrent slots

	p.AddFunc("resize", func(ec pool.ExecContext, args ...any) (any, error) {
		return resize(args[0].(string))
	}, "photo.jpg")

	p.OnTaskComplete().Add(pool.HandlerFunc(func(r *pool.Result) {
		log.Printf("%s finished in %v", r.Task.Name, r.Duration)
	}))
	p.OnTaskError().Add(pool.HandlerFunc(func(r *pool.Result) {
		log.Printf("%s attempt failed: %v", r.Task.Name, r.Error)
	}))

	if err := p.Run(); err != nil {
		log.Fatalf("drain: %v", err)
	}

Tasks and attempts:

Each Start of a task is one attempt. The action receives an ExecContext
carrying the task name, a fresh execution ID, and the retry counters for
that attempt:

	p.Add(&pool.Task{
		Name:     "sync-orders",
		MaxRetry: 3,
		Action: func(ec pool.ExecContext, args ...any) (any, error) {
			return syncOrders(ec.ExecutionID)
		},
	})

Retry policy:

MaxRetry bounds how often a failed task is re-queued: zero means a single
attempt, a positive value allows exactly that many retries, and a negative
value retries until the task succeeds. Every failed attempt is dispatched to
OnTaskError before the retry is queued, so a task with MaxRetry of 3 that
never succeeds produces exactly four error events. Retries re-enter the
queue at the tail, behind work that is already waiting.

Dynamic workloads:

Handlers run synchronously on the draining goroutine and may add more tasks
to the pool; those tasks join the ongoing drain. A completion handler that
enqueues a follow-up task therefore builds chains of work that drain fully
in a single Run call.

Ordering:

With a single slot the pool is a strict FIFO executor: tasks start and
finish in submission order. With more slots, admission order is FIFO but
completion order depends on task durations.

Failure handling:

Action errors and panics become failed Results; they never abort the drain.
A panic inside an event handler is different: it is caller code misbehaving,
so it propagates out of Run after the task's executor handle has been
released. Tasks that fail validation at start (missing Name or Action) abort
Run with an error naming the field.

Metrics:

NewWithMetrics and NewWithConfigAndMetrics wrap the pool with Prometheus
instrumentation; see the metrics package for the exported families.

Ownership:

A pool is single-owner state. One goroutine adds tasks, runs the drain, and
mutates the event managers; the pool performs no internal locking. Pools are
cheap: create one per workload rather than sharing one across goroutines.
*/
package pool
