package executor

// Handle identifies one in-flight execution. Handles are comparable and
// usable as map keys; no two executions ever share a handle.
//
// A handle is owned by the caller that started it. Operations on a single
// handle are not safe for concurrent use from multiple goroutines.
type Handle interface {
	// Done returns a channel that is closed once the execution completes,
	// whether it succeeded, failed, or panicked.
	Done() <-chan struct{}
}

// Executor runs work out-of-line and coordinates completion. It is the
// capability the pool schedules against: start a function, wait for any of
// a set of executions to finish, fetch an outcome, release the bookkeeping.
type Executor interface {
	// Start begins executing run concurrently and returns a handle for it.
	// Start never waits for run to make progress. It fails only when run
	// is nil.
	Start(run func() (any, error)) (Handle, error)

	// WaitAny blocks until at least one of the given handles has completed
	// and returns one such handle. Waiting on an empty slice fails with
	// ErrEmptyWait; a handle produced by a different executor fails with
	// ErrUnknownHandle.
	WaitAny(handles []Handle) (Handle, error)

	// Result blocks until h completes, then returns the value or error the
	// run produced. Results remain fetchable until the handle is released.
	Result(h Handle) (any, error)

	// Release frees the value and error retained for h. It never blocks,
	// and releasing an already-released handle is a no-op.
	Release(h Handle)
}
