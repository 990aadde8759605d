package executor

import (
	"fmt"
	"runtime/debug"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/common/validation"
)

// goroutineExecutor runs each execution on its own goroutine. Completion is
// published by closing the handle's done channel after the outcome has been
// stored, so readers that wait on Done observe a fully written result.
type goroutineExecutor struct{}

// New returns the default goroutine-backed executor. It is stateless and
// safe to share across pools.
func New() Executor {
	return &goroutineExecutor{}
}

type handle struct {
	done     chan struct{}
	value    any
	err      error
	released bool
}

func (h *handle) Done() <-chan struct{} {
	return h.done
}

func (e *goroutineExecutor) Start(run func() (any, error)) (Handle, error) {
	if run == nil {
		return nil, validation.ValidateNotNil("executor", "run", nil)
	}

	h := &handle{done: make(chan struct{})}
	go func() {
		defer close(h.done)
		defer func() {
			if r := recover(); r != nil {
				h.err = fmt.Errorf("execution panicked: %v\nStack trace:\n%s", r, debug.Stack())
			}
		}()
		h.value, h.err = run()
	}()
	return h, nil
}

func (e *goroutineExecutor) WaitAny(handles []Handle) (Handle, error) {
	if len(handles) == 0 {
		return nil, tperrors.ErrEmptyWait
	}

	// Buffered to len(handles): every watcher can deliver and exit even
	// when nobody reads past the first ready handle.
	ready := make(chan Handle, len(handles))
	for _, h := range handles {
		hh, ok := h.(*handle)
		if !ok {
			return nil, tperrors.ErrUnknownHandle
		}
		go func(hh *handle) {
			<-hh.done
			ready <- hh
		}(hh)
	}
	return <-ready, nil
}

func (e *goroutineExecutor) Result(h Handle) (any, error) {
	hh, ok := h.(*handle)
	if !ok {
		return nil, tperrors.ErrUnknownHandle
	}
	<-hh.done
	if hh.released {
		return nil, tperrors.ErrReleased
	}
	return hh.value, hh.err
}

func (e *goroutineExecutor) Release(h Handle) {
	hh, ok := h.(*handle)
	if !ok {
		return
	}
	select {
	case <-hh.done:
		hh.released = true
		hh.value, hh.err = nil, nil
	default:
		// Still running; nothing retained to free yet.
	}
}
