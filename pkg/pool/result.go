package pool

import "time"

// Result is the outcome of one task execution attempt. Exactly one of the
// success arm (Value) and the failure arm (Error) is populated.
type Result struct {
	// Task is the task that produced this result.
	Task *Task

	// ExecutionID identifies the attempt that produced this result.
	ExecutionID string

	// Success reports whether the action returned without error.
	Success bool

	// Value is the action's return value. Set only on success.
	Value any

	// Error is the failure cause. Set only when Success is false.
	Error error

	// Duration is how long the attempt ran, from Start to completion.
	Duration time.Duration
}
