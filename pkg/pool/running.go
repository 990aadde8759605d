package pool

import (
	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/executor"
)

// RunningSet tracks the tasks whose executor handles are live, keyed by
// handle identity. It is the pool's record of in-flight work and the place
// where slot occupancy is counted.
type RunningSet struct {
	exec  executor.Executor
	tasks map[executor.Handle]*Task
}

// NewRunningSet returns an empty set that waits against exec.
func NewRunningSet(exec executor.Executor) *RunningSet {
	return &RunningSet{
		exec:  exec,
		tasks: make(map[executor.Handle]*Task),
	}
}

// Add tracks a started task under its current handle. A task without a live
// handle fails with ErrNotStarted; a handle that is already tracked fails
// with ErrDuplicateTask. Both point at scheduling bugs, not runtime
// conditions.
func (s *RunningSet) Add(t *Task) error {
	if t == nil || t.handle == nil {
		return tperrors.ErrNotStarted
	}
	if _, ok := s.tasks[t.handle]; ok {
		return tperrors.ErrDuplicateTask
	}
	s.tasks[t.handle] = t
	return nil
}

// Remove drops the entry for t's current handle. Untracked or handle-less
// tasks are a no-op.
func (s *RunningSet) Remove(t *Task) {
	if t == nil || t.handle == nil {
		return
	}
	delete(s.tasks, t.handle)
}

// Count returns the number of tracked tasks.
func (s *RunningSet) Count() int {
	return len(s.tasks)
}

// WaitAny blocks until any tracked task completes and returns it. The task
// stays tracked until the caller removes it after joining. Waiting on an
// empty set fails with ErrEmptyWait.
func (s *RunningSet) WaitAny() (*Task, error) {
	if len(s.tasks) == 0 {
		return nil, tperrors.ErrEmptyWait
	}

	handles := make([]executor.Handle, 0, len(s.tasks))
	for h := range s.tasks {
		handles = append(handles, h)
	}
	h, err := s.exec.WaitAny(handles)
	if err != nil {
		return nil, err
	}
	return s.tasks[h], nil
}
