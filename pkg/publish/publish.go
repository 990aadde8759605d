package publish

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/taskpool/pkg/pool"
)

// Event is the wire form of a task result. Consumers on the other side of
// the channel see one event per execution attempt, failures included.
type Event struct {
	// Task is the name of the task that produced the result.
	Task string `json:"task"`

	// ExecutionID identifies the attempt that produced the result.
	ExecutionID string `json:"execution_id"`

	// Success reports whether the attempt succeeded.
	Success bool `json:"success"`

	// Error is the failure message. Omitted on success.
	Error string `json:"error,omitempty"`

	// RetryCount is the attempt's retry count at execution time.
	RetryCount int `json:"retry_count"`

	// DurationMS is how long the attempt ran, in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// At is when the event was published, in UTC.
	At time.Time `json:"at"`
}

// FromResult builds the event for r, stamped with the current time.
func FromResult(r *pool.Result) Event {
	e := Event{
		Task:        r.Task.Name,
		ExecutionID: r.ExecutionID,
		Success:     r.Success,
		RetryCount:  r.Task.RetryCount,
		DurationMS:  r.Duration.Milliseconds(),
		At:          time.Now().UTC(),
	}
	if r.Error != nil {
		e.Error = r.Error.Error()
	}
	return e
}

// Publisher exports task results to an external system.
type Publisher interface {
	// PublishResult exports r as an Event. Implementations bound the call
	// with their own timeout, so it is safe to invoke from event handlers.
	PublishResult(ctx context.Context, r *pool.Result) error

	// Close marks the publisher closed. Publishing afterwards fails with
	// ErrClosed. Close does not release resources the caller handed in,
	// such as a shared Redis client.
	Close() error
}

// Handler adapts a publisher into a pool event handler. Publish failures
// are logged and swallowed so a slow or unreachable broker never disturbs
// the drain. Register the returned handler on both event managers to
// export every attempt.
func Handler(p Publisher, logger *zerolog.Logger) pool.Handler {
	log := zerolog.Nop()
	if logger != nil {
		log = *logger
	}

	return pool.HandlerFunc(func(r *pool.Result) {
		if err := p.PublishResult(context.Background(), r); err != nil {
			log.Warn().
				Err(err).
				Str("task", r.Task.Name).
				Str("execution_id", r.ExecutionID).
				Msg("publish failed")
		}
	})
}
