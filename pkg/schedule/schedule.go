package schedule

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/common/validation"
	"github.com/vnykmshr/taskpool/pkg/pool"
)

// Entry is a snapshot of one scheduled entry.
type Entry struct {
	ID       string
	RunAt    time.Time
	Interval time.Duration // zero for one-shot and cron entries
	Spec     string        // cron expression, empty otherwise
	Created  time.Time
}

// Scheduler fires tasks into a pool at scheduled times. Scheduled tasks are
// prototypes: every firing enqueues a clone, so retry bookkeeping and
// per-attempt state never leak between firings.
type Scheduler interface {
	// Schedule registers a one-shot entry that fires at runAt. Times in the
	// past fire on the next tick. The task becomes the entry's prototype and
	// must not be mutated after scheduling.
	Schedule(id string, t *pool.Task, runAt time.Time) error

	// ScheduleAfter registers a one-shot entry that fires after delay.
	ScheduleAfter(id string, t *pool.Task, delay time.Duration) error

	// ScheduleEvery registers a repeating entry. The first firing happens on
	// the next tick, then every interval after.
	ScheduleEvery(id string, t *pool.Task, interval time.Duration) error

	// ScheduleCron registers a repeating entry driven by a six-field cron
	// expression, seconds included.
	ScheduleCron(id string, spec string, t *pool.Task) error

	// Cancel removes the entry with the given id and reports whether it
	// existed.
	Cancel(id string) bool

	// CancelAll removes every entry.
	CancelAll()

	// Entries returns a snapshot of all entries sorted by next run time.
	Entries() []Entry

	// Start launches the tick loop. It fails with ErrAlreadyStarted when the
	// scheduler is already running. A stopped scheduler can be started again
	// once its Stop channel has closed.
	Start() error

	// Stop signals the tick loop and returns a channel that closes once the
	// loop, including any drain in progress, has finished. Stopping a
	// scheduler that is not running returns an already-closed channel.
	Stop() <-chan struct{}
}

// Config holds scheduler configuration.
type Config struct {
	// Pool receives fired tasks and is drained after each firing tick. The
	// tick loop owns the pool while the scheduler runs; callers must not add
	// to it or run it themselves until Stop's channel closes. Defaults to
	// pool.New(4).
	Pool pool.Pool

	// Location is the time zone for cron evaluation. Defaults to time.Local.
	Location *time.Location

	// TickInterval is how often due entries are checked. Defaults to 50ms.
	TickInterval time.Duration

	// MaxEntries caps the number of scheduled entries. Defaults to 10000.
	MaxEntries int

	// Logger receives scheduler lifecycle events at debug level. Defaults to
	// a no-op logger.
	Logger *zerolog.Logger

	// OnEntryFired, when set, is called with the entry id and the enqueued
	// clone after each firing, before the drain. The clone must be treated
	// as read-only.
	OnEntryFired func(id string, t *pool.Task)
}

type entry struct {
	id       string
	task     *pool.Task
	runAt    time.Time
	interval time.Duration
	cron     cron.Schedule
	spec     string
	created  time.Time
}

// firing is the under-lock snapshot of an entry that came due.
type firing struct {
	id    string
	runAt time.Time
	task  *pool.Task
}

type scheduler struct {
	pool         pool.Pool
	location     *time.Location
	tickInterval time.Duration
	maxEntries   int
	log          zerolog.Logger
	onFired      func(id string, t *pool.Task)
	cronParser   cron.Parser

	mu      sync.RWMutex
	entries map[string]*entry
	running bool
	done    chan struct{}
	stopped chan struct{}
}

// New creates a scheduler that fires entries into p with default settings.
func New(p pool.Pool) Scheduler {
	return NewWithConfig(Config{Pool: p})
}

// NewWithConfig creates a scheduler from config, applying defaults for unset
// fields.
func NewWithConfig(config Config) Scheduler {
	p := config.Pool
	if p == nil {
		p = pool.New(4)
	}

	location := config.Location
	if location == nil {
		location = time.Local
	}

	tickInterval := config.TickInterval
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}

	maxEntries := config.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 10000
	}

	log := zerolog.Nop()
	if config.Logger != nil {
		log = *config.Logger
	}

	return &scheduler{
		pool:         p,
		location:     location,
		tickInterval: tickInterval,
		maxEntries:   maxEntries,
		log:          log,
		onFired:      config.OnEntryFired,
		cronParser:   cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		entries:      make(map[string]*entry),
	}
}

func (s *scheduler) Schedule(id string, t *pool.Task, runAt time.Time) error {
	if err := s.validate(id, t); err != nil {
		return err
	}
	if runAt.IsZero() {
		return tperrors.NewValidationError("schedule", "runAt", runAt, "cannot be zero").
			WithHint("use time.Now() or later")
	}

	return s.insert(&entry{id: id, task: t, runAt: runAt, created: time.Now()})
}

func (s *scheduler) ScheduleAfter(id string, t *pool.Task, delay time.Duration) error {
	return s.Schedule(id, t, time.Now().Add(delay))
}

func (s *scheduler) ScheduleEvery(id string, t *pool.Task, interval time.Duration) error {
	if err := s.validate(id, t); err != nil {
		return err
	}
	if err := validation.ValidatePositiveDuration("schedule", "interval", interval); err != nil {
		return err
	}

	return s.insert(&entry{id: id, task: t, runAt: time.Now(), interval: interval, created: time.Now()})
}

func (s *scheduler) ScheduleCron(id string, spec string, t *pool.Task) error {
	if err := s.validate(id, t); err != nil {
		return err
	}
	if err := validation.ValidateNotEmpty("schedule", "spec", spec); err != nil {
		return err
	}

	sched, err := s.cronParser.Parse(spec)
	if err != nil {
		return fmt.Errorf("parse cron spec %q: %w", spec, err)
	}

	now := time.Now().In(s.location)
	return s.insert(&entry{
		id:      id,
		task:    t,
		runAt:   sched.Next(now),
		cron:    sched,
		spec:    spec,
		created: time.Now(),
	})
}

func (s *scheduler) validate(id string, t *pool.Task) error {
	if err := validation.ValidateNotEmpty("schedule", "id", id); err != nil {
		return err
	}
	if len(id) > 255 {
		return tperrors.NewValidationError("schedule", "id", id, "too long (max 255 characters)")
	}
	if t == nil {
		return tperrors.NewValidationError("schedule", "task", nil, "cannot be nil").
			WithHint("provide the task to fire")
	}
	return nil
}

func (s *scheduler) insert(e *entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[e.id]; exists {
		return fmt.Errorf("entry %q already scheduled", e.id)
	}
	if len(s.entries) >= s.maxEntries {
		return fmt.Errorf("entry limit reached (%d)", s.maxEntries)
	}

	s.entries[e.id] = e
	s.log.Debug().
		Str("entry", e.id).
		Str("task", e.task.Name).
		Time("run_at", e.runAt).
		Msg("entry scheduled")
	return nil
}

func (s *scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists {
		delete(s.entries, id)
		return true
	}
	return false
}

func (s *scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*entry)
}

func (s *scheduler) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, Entry{
			ID:       e.id,
			RunAt:    e.runAt,
			Interval: e.interval,
			Spec:     e.spec,
			Created:  e.created,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RunAt.Before(entries[j].RunAt)
	})
	return entries
}

func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return tperrors.ErrAlreadyStarted
	}

	s.running = true
	s.done = make(chan struct{})
	s.stopped = make(chan struct{})

	go s.run(time.NewTicker(s.tickInterval), s.done, s.stopped)
	return nil
}

func (s *scheduler) Stop() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		closed := make(chan struct{})
		close(closed)
		return closed
	}

	s.running = false
	close(s.done)
	return s.stopped
}

func (s *scheduler) run(ticker *time.Ticker, done, stopped chan struct{}) {
	defer close(stopped)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick fires due entries and keeps the loop alive across panicking handlers.
func (s *scheduler) tick() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("tick panicked")
		}
	}()
	s.fireDue()
}

// fireDue snapshots the entries that came due, reschedules or removes them,
// then enqueues a clone of each prototype and drains the pool.
func (s *scheduler) fireDue() {
	now := time.Now()

	s.mu.Lock()
	var due []firing
	for id, e := range s.entries {
		if now.Before(e.runAt) {
			continue
		}
		due = append(due, firing{id: e.id, runAt: e.runAt, task: e.task})

		switch {
		case e.interval > 0:
			e.runAt = now.Add(e.interval)
		case e.cron != nil:
			e.runAt = e.cron.Next(now.In(s.location))
		default:
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	if len(due) == 0 {
		return
	}

	// Entries due on the same tick fire in schedule order, ties by id.
	sort.Slice(due, func(i, j int) bool {
		if !due[i].runAt.Equal(due[j].runAt) {
			return due[i].runAt.Before(due[j].runAt)
		}
		return due[i].id < due[j].id
	})

	for _, f := range due {
		clone := f.task.Clone()
		s.pool.Add(clone)
		s.log.Debug().
			Str("entry", f.id).
			Str("task", clone.Name).
			Msg("entry fired")
		if s.onFired != nil {
			s.onFired(f.id, clone)
		}
	}

	if err := s.pool.Run(); err != nil {
		s.log.Error().Err(err).Msg("scheduled drain failed")
	}
}
