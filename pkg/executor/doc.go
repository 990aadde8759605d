/*
Package executor provides the execution capability that task pools schedule
against: start a function out-of-line, wait for any of a set of executions to
complete, fetch an outcome, and release the bookkeeping.

Separating execution behind an interface keeps the scheduling logic
independent of how work actually runs. The default implementation launches
one goroutine per execution; tests substitute fakes to drive completion
deterministically.

Basic usage:

	exec := executor.New()

	h, err := exec.Start(func() (any, error) {
		return compute(), nil
	})
	if err != nil {
		log.Fatalf("start: %v", err)
	}

	value, err := exec.Result(h) // blocks until the run completes
	exec.Release(h)

Waiting on multiple executions:

	done, err := exec.WaitAny(handles)
	if err != nil {
		log.Fatalf("wait: %v", err)
	}
	// done is a handle whose Result is now available without blocking.

Panic handling:

A panic inside a run is recovered and surfaced as an ordinary error carrying
the panic value and stack trace, so a misbehaving function produces a failed
result instead of crashing the process.

Ownership:

Each handle belongs to the caller that started it. Operations on a single
handle must not race; coordinate through WaitAny when multiple executions are
in flight.
*/
package executor
