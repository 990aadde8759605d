package pool

import (
	"time"

	"github.com/google/uuid"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/common/validation"
	"github.com/vnykmshr/taskpool/pkg/executor"
)

// Action is the work a task performs. It receives the execution context for
// the current attempt along with the task's arguments, and returns a result
// value or an error. Actions that need cancellation or deadlines capture a
// context.Context in their closure; the pool never cancels running work.
type Action func(ec ExecContext, args ...any) (any, error)

// ExecContext is an immutable snapshot describing a single execution
// attempt. A fresh one is built for every Start, so actions can log or tag
// their work per attempt without touching the task itself.
type ExecContext struct {
	// TaskName is the name of the task being executed.
	TaskName string

	// ExecutionID uniquely identifies this attempt. Two starts of the same
	// task always observe different IDs.
	ExecutionID string

	// RetryCount is the number of failed attempts before this one.
	RetryCount int

	// MaxRetry is the task's retry limit at start time.
	MaxRetry int
}

// Task couples a named action with its arguments and retry bookkeeping.
// Name, Action, Args, MaxRetry, and RetryCount persist across attempts; the
// executor handle and execution ID exist per attempt, created by Start and
// cleared by Teardown.
//
// A task is in at most one place at a time: the pending queue, the running
// set, or finished.
type Task struct {
	// Name identifies the task in logs and results. Required.
	Name string

	// Action is the work to perform. Required.
	Action Action

	// Args are passed to the action on every attempt.
	Args []any

	// MaxRetry bounds retries after failed attempts: negative retries
	// without limit, zero disables retries, positive allows exactly that
	// many retries.
	MaxRetry int

	// RetryCount is the number of failed attempts so far. The pool
	// increments it before each re-enqueue.
	RetryCount int

	exec    executor.Executor
	handle  executor.Handle
	execID  string
	started time.Time
}

// Start validates the task and launches its action on exec. On success the
// task owns exactly one executor handle until Teardown. Starting a task
// whose previous attempt has not been torn down fails with ErrAlreadyStarted.
func (t *Task) Start(exec executor.Executor) error {
	if err := validation.ValidateNotEmpty("task", "Name", t.Name); err != nil {
		return err
	}
	if t.Action == nil {
		return tperrors.NewValidationError("task", "Action", nil, "cannot be nil").
			WithHint("provide an Action func")
	}
	if t.handle != nil {
		return tperrors.ErrAlreadyStarted
	}

	ec := ExecContext{
		TaskName:    t.Name,
		ExecutionID: uuid.NewString(),
		RetryCount:  t.RetryCount,
		MaxRetry:    t.MaxRetry,
	}

	// The closure binds this attempt's inputs; mutating the task after
	// Start does not affect an attempt already in flight.
	action, args := t.Action, t.Args
	handle, err := exec.Start(func() (any, error) {
		return action(ec, args...)
	})
	if err != nil {
		return err
	}

	t.exec = exec
	t.handle = handle
	t.execID = ec.ExecutionID
	t.started = time.Now()
	return nil
}

// Join blocks until the current attempt completes and converts the outcome
// into a Result. Join itself never fails: action errors, recovered panics,
// and joining a task that was never started all come back as failed Results.
func (t *Task) Join() *Result {
	if t.handle == nil {
		return &Result{Task: t, Error: tperrors.ErrNotStarted}
	}

	value, err := t.exec.Result(t.handle)
	res := &Result{
		Task:        t,
		ExecutionID: t.execID,
		Duration:    time.Since(t.started),
	}
	if err != nil {
		res.Error = err
		return res
	}
	res.Success = true
	res.Value = value
	return res
}

// Teardown releases the attempt's executor handle and clears the per-attempt
// state. It is idempotent and safe to call when the handle is already
// cleared. Every Start must be followed by a Teardown before the task can
// start again.
func (t *Task) Teardown() {
	if t.handle != nil {
		t.exec.Release(t.handle)
	}
	t.exec = nil
	t.handle = nil
	t.execID = ""
	t.started = time.Time{}
}

// Clone returns a fresh task with the same name, action, arguments, and
// retry limit, a zero RetryCount, and no per-attempt state. Repeating
// schedules clone their prototype so every firing is an independent task.
func (t *Task) Clone() *Task {
	return &Task{
		Name:     t.Name,
		Action:   t.Action,
		Args:     append([]any(nil), t.Args...),
		MaxRetry: t.MaxRetry,
	}
}
