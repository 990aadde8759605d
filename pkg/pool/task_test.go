package pool

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vnykmshr/taskpool/internal/testutil"
	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/executor"
)

// noopAction satisfies tasks that only need to complete successfully.
func noopAction(ec ExecContext, args ...any) (any, error) {
	return nil, nil
}

func TestTaskStartValidation(t *testing.T) {
	tests := []struct {
		name      string
		task      *Task
		wantField string
	}{
		{"missing name", &Task{Action: noopAction}, "Name"},
		{"missing action", &Task{Name: "hollow"}, "Action"},
	}

	exec := executor.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Start(exec)
			testutil.AssertError(t, err)
			testutil.AssertEqual(t, tperrors.IsValidationError(err), true)
			testutil.AssertEqual(t, strings.Contains(err.Error(), tt.wantField), true)
		})
	}
}

func TestTaskStartAndJoin(t *testing.T) {
	exec := executor.New()
	task := &Task{
		Name: "sum",
		Action: func(ec ExecContext, args ...any) (any, error) {
			time.Sleep(5 * time.Millisecond)
			total := 0
			for _, a := range args {
				total += a.(int)
			}
			return total, nil
		},
		Args: []any{1, 2, 3},
	}

	testutil.AssertNoError(t, task.Start(exec))
	res := task.Join()
	task.Teardown()

	testutil.AssertEqual(t, res.Success, true)
	testutil.AssertNoError(t, res.Error)
	testutil.AssertEqual(t, res.Value.(int), 6)
	testutil.AssertEqual(t, res.Task == task, true)
	testutil.AssertNotEqual(t, res.ExecutionID, "")
	testutil.AssertEqual(t, res.Duration >= 5*time.Millisecond, true)
}

func TestTaskJoinFailure(t *testing.T) {
	exec := executor.New()
	wantErr := errors.New("boom")
	task := &Task{
		Name: "fails",
		Action: func(ec ExecContext, args ...any) (any, error) {
			return nil, wantErr
		},
	}

	testutil.AssertNoError(t, task.Start(exec))
	res := task.Join()
	task.Teardown()

	testutil.AssertEqual(t, res.Success, false)
	testutil.AssertEqual(t, res.Error, error(wantErr))
	testutil.AssertEqual(t, res.Value, nil)
}

func TestTaskJoinRecoversPanic(t *testing.T) {
	exec := executor.New()
	task := &Task{
		Name: "panics",
		Action: func(ec ExecContext, args ...any) (any, error) {
			panic("task panic")
		},
	}

	testutil.AssertNoError(t, task.Start(exec))
	res := task.Join()
	task.Teardown()

	testutil.AssertEqual(t, res.Success, false)
	testutil.AssertError(t, res.Error)
	testutil.AssertEqual(t, strings.Contains(res.Error.Error(), "task panic"), true)
}

func TestTaskJoinWithoutStart(t *testing.T) {
	task := &Task{Name: "idle", Action: noopAction}

	res := task.Join()
	testutil.AssertEqual(t, res.Success, false)
	testutil.AssertEqual(t, errors.Is(res.Error, tperrors.ErrNotStarted), true)
	testutil.AssertEqual(t, res.ExecutionID, "")
}

func TestTaskStartTwice(t *testing.T) {
	exec := executor.New()
	task := &Task{Name: "once", Action: noopAction}

	testutil.AssertNoError(t, task.Start(exec))
	err := task.Start(exec)
	testutil.AssertEqual(t, errors.Is(err, tperrors.ErrAlreadyStarted), true)

	task.Join()
	task.Teardown()
}

func TestExecContextPerAttempt(t *testing.T) {
	exec := executor.New()

	var contexts []ExecContext
	task := &Task{
		Name:     "probe",
		MaxRetry: 2,
		Action: func(ec ExecContext, args ...any) (any, error) {
			contexts = append(contexts, ec)
			return nil, nil
		},
	}

	for attempt := 0; attempt < 2; attempt++ {
		testutil.AssertNoError(t, task.Start(exec))
		task.Join()
		task.Teardown()
		task.RetryCount++ // the pool bumps this between attempts
	}

	testutil.AssertEqual(t, len(contexts), 2)
	testutil.AssertNotEqual(t, contexts[0].ExecutionID, contexts[1].ExecutionID)
	testutil.AssertEqual(t, contexts[0].TaskName, "probe")
	testutil.AssertEqual(t, contexts[0].MaxRetry, 2)
	testutil.AssertEqual(t, contexts[0].RetryCount, 0)
	testutil.AssertEqual(t, contexts[1].RetryCount, 1)
}

func TestTaskTeardownIdempotent(t *testing.T) {
	exec := executor.New()
	task := &Task{Name: "cleanup", Action: noopAction}

	task.Teardown() // never started

	testutil.AssertNoError(t, task.Start(exec))
	task.Join()
	task.Teardown()
	task.Teardown() // second teardown is a no-op

	// Teardown leaves the task ready for another attempt.
	testutil.AssertNoError(t, task.Start(exec))
	task.Join()
	task.Teardown()
}

func TestTaskClone(t *testing.T) {
	task := &Task{
		Name:       "proto",
		Action:     noopAction,
		Args:       []any{"a", "b"},
		MaxRetry:   3,
		RetryCount: 2,
	}

	clone := task.Clone()
	testutil.AssertEqual(t, clone.Name, "proto")
	testutil.AssertEqual(t, clone.MaxRetry, 3)
	testutil.AssertEqual(t, clone.RetryCount, 0)
	testutil.AssertEqual(t, len(clone.Args), 2)

	// Args are copied, not shared.
	clone.Args[0] = "mutated"
	testutil.AssertEqual(t, task.Args[0].(string), "a")
}

func TestTaskCloneOfRunningTask(t *testing.T) {
	exec := executor.New()
	task := &Task{Name: "live", Action: noopAction}
	testutil.AssertNoError(t, task.Start(exec))

	// The clone carries no per-attempt state, so it starts independently.
	clone := task.Clone()
	testutil.AssertEqual(t, clone.handle == nil, true)
	testutil.AssertNoError(t, clone.Start(exec))

	clone.Join()
	clone.Teardown()
	task.Join()
	task.Teardown()
}
