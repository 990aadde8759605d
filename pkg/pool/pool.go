package pool

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/executor"
)

// Pool schedules tasks across a fixed number of concurrent execution slots,
// draining its pending queue to completion on Run.
//
// A pool is single-owner state: one goroutine adds tasks, runs the drain,
// and mutates the event managers. Event handlers run on that same goroutine
// during Run, which is what makes adding tasks from handlers safe.
type Pool interface {
	// Add enqueues t at the tail of the pending queue. It is legal before
	// Run and from event handlers during Run; tasks added mid-drain join
	// the ongoing drain.
	Add(t *Task)

	// AddFunc builds a task from name, action, and args, enqueues it, and
	// returns it. An empty name is replaced with a generated one.
	AddFunc(name string, action Action, args ...any) *Task

	// Run drains the pool: queued tasks start as slots free up, each
	// completion is dispatched to exactly one event manager, and failed
	// tasks retry per their MaxRetry. It returns nil once no queued or
	// running work remains, or an error when a task cannot be started or
	// a scheduling invariant is violated.
	Run() error

	// OnTaskComplete returns the event manager invoked for successful
	// attempts.
	OnTaskComplete() *EventManager

	// OnTaskError returns the event manager invoked once per failed
	// attempt, before any retry of that task is queued.
	OnTaskError() *EventManager

	// Slots returns the number of concurrent execution slots.
	Slots() int

	// QueueCount returns the number of tasks waiting in the pending queue.
	QueueCount() int

	// RunningCount returns the number of tasks currently executing.
	RunningCount() int

	// Count returns queued plus running tasks.
	Count() int
}

// Config holds configuration options for creating a pool.
type Config struct {
	// Slots is the number of tasks allowed to execute concurrently.
	// Values below 1 are clamped to 1 so a pool always makes progress.
	Slots int

	// Executor runs the task actions. Defaults to executor.New().
	Executor executor.Executor

	// Logger receives engine lifecycle events at debug level.
	// Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// taskPool implements the Pool interface.
type taskPool struct {
	slots    int
	exec     executor.Executor
	log      zerolog.Logger
	queue    []*Task
	running  *RunningSet
	complete *EventManager
	failed   *EventManager
	draining bool
}

// New creates a pool with the given number of slots and default settings.
func New(slots int) Pool {
	return NewWithConfig(Config{Slots: slots})
}

// NewWithConfig creates a pool from config, applying defaults for unset
// fields.
func NewWithConfig(config Config) Pool {
	slots := config.Slots
	if slots < 1 {
		slots = 1
	}

	exec := config.Executor
	if exec == nil {
		exec = executor.New()
	}

	log := zerolog.Nop()
	if config.Logger != nil {
		log = *config.Logger
	}

	return &taskPool{
		slots:    slots,
		exec:     exec,
		log:      log,
		running:  NewRunningSet(exec),
		complete: NewEventManager(),
		failed:   NewEventManager(),
	}
}

func (p *taskPool) Add(t *Task) {
	if t == nil {
		return
	}
	p.queue = append(p.queue, t)
}

func (p *taskPool) AddFunc(name string, action Action, args ...any) *Task {
	if name == "" {
		name = "task-" + uuid.NewString()[:8]
	}
	t := &Task{Name: name, Action: action, Args: args}
	p.Add(t)
	return t
}

func (p *taskPool) OnTaskComplete() *EventManager { return p.complete }

func (p *taskPool) OnTaskError() *EventManager { return p.failed }

func (p *taskPool) Slots() int { return p.slots }

func (p *taskPool) QueueCount() int { return len(p.queue) }

func (p *taskPool) RunningCount() int { return p.running.Count() }

func (p *taskPool) Count() int { return len(p.queue) + p.running.Count() }

// Run drains the pool. Calling Run from inside a drain (for example from an
// event handler) fails with ErrDraining. On a start error the drain aborts
// with the remaining queued and running tasks left in place, so a later Run
// can pick them up.
func (p *taskPool) Run() error {
	if p.draining {
		return tperrors.ErrDraining
	}
	p.draining = true
	defer func() { p.draining = false }()

	for p.Count() > 0 {
		if err := p.admit(); err != nil {
			return err
		}

		t, err := p.running.WaitAny()
		if err != nil {
			return err
		}

		res := t.Join()
		p.running.Remove(t)
		p.dispatch(res)

		if !res.Success {
			p.requeueOrDrop(t)
		}
	}

	p.log.Debug().Msg("drain finished")
	return nil
}

// admit starts queued tasks until the queue empties or every slot is taken.
// A task that fails to start has already left the queue; the error carries
// its name so the caller can repair and re-add it.
func (p *taskPool) admit() error {
	for len(p.queue) > 0 && p.running.Count() < p.slots {
		t := p.queue[0]
		p.queue = p.queue[1:]

		if err := t.Start(p.exec); err != nil {
			return fmt.Errorf("start task %q: %w", t.Name, err)
		}
		if err := p.running.Add(t); err != nil {
			return fmt.Errorf("track task %q: %w", t.Name, err)
		}

		p.log.Debug().
			Str("task", t.Name).
			Str("execution_id", t.execID).
			Int("retry", t.RetryCount).
			Msg("task started")
	}
	return nil
}

// dispatch invokes the matching event manager exactly once for res. The
// task's handle is released even when a handler panics.
func (p *taskPool) dispatch(res *Result) {
	defer res.Task.Teardown()

	if res.Success {
		p.log.Debug().
			Str("task", res.Task.Name).
			Str("execution_id", res.ExecutionID).
			Dur("duration", res.Duration).
			Msg("task completed")
		p.complete.Invoke(res)
		return
	}

	p.log.Debug().
		Str("task", res.Task.Name).
		Str("execution_id", res.ExecutionID).
		Dur("duration", res.Duration).
		Err(res.Error).
		Msg("task failed")
	p.failed.Invoke(res)
}

// requeueOrDrop applies the retry policy to a failed task: negative MaxRetry
// retries without limit, otherwise the task retries until RetryCount reaches
// MaxRetry. Retries re-enter the queue at the tail behind already-pending
// work.
func (p *taskPool) requeueOrDrop(t *Task) {
	if t.MaxRetry < 0 || t.RetryCount < t.MaxRetry {
		t.RetryCount++
		p.queue = append(p.queue, t)
		p.log.Debug().
			Str("task", t.Name).
			Int("retry", t.RetryCount).
			Int("max_retry", t.MaxRetry).
			Msg("task requeued")
		return
	}

	p.log.Debug().
		Str("task", t.Name).
		Int("retry", t.RetryCount).
		Msg("retries exhausted")
}
