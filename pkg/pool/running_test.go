package pool

import (
	"errors"
	"testing"

	"github.com/vnykmshr/taskpool/internal/testutil"
	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/executor"
)

func TestRunningSetAddRequiresStart(t *testing.T) {
	set := NewRunningSet(executor.New())

	err := set.Add(&Task{Name: "idle", Action: noopAction})
	testutil.AssertEqual(t, errors.Is(err, tperrors.ErrNotStarted), true)

	err = set.Add(nil)
	testutil.AssertEqual(t, errors.Is(err, tperrors.ErrNotStarted), true)
	testutil.AssertEqual(t, set.Count(), 0)
}

func TestRunningSetAddDuplicate(t *testing.T) {
	exec := executor.New()
	set := NewRunningSet(exec)

	task := &Task{Name: "tracked", Action: noopAction}
	testutil.AssertNoError(t, task.Start(exec))
	testutil.AssertNoError(t, set.Add(task))

	err := set.Add(task)
	testutil.AssertEqual(t, errors.Is(err, tperrors.ErrDuplicateTask), true)
	testutil.AssertEqual(t, tperrors.IsPrecondition(err), true)
	testutil.AssertEqual(t, set.Count(), 1)

	task.Join()
	task.Teardown()
}

func TestRunningSetRemoveUntracked(t *testing.T) {
	set := NewRunningSet(executor.New())

	set.Remove(nil)
	set.Remove(&Task{Name: "idle", Action: noopAction})
	testutil.AssertEqual(t, set.Count(), 0)
}

func TestRunningSetWaitAnyEmpty(t *testing.T) {
	set := NewRunningSet(executor.New())

	_, err := set.WaitAny()
	testutil.AssertEqual(t, errors.Is(err, tperrors.ErrEmptyWait), true)
	testutil.AssertEqual(t, tperrors.IsPrecondition(err), true)
}

func TestRunningSetWaitAnyReturnsCompleted(t *testing.T) {
	exec := executor.New()
	set := NewRunningSet(exec)

	gate := make(chan struct{})
	blocked := &Task{
		Name: "blocked",
		Action: func(ec ExecContext, args ...any) (any, error) {
			<-gate
			return "late", nil
		},
	}
	quick := &Task{
		Name: "quick",
		Action: func(ec ExecContext, args ...any) (any, error) {
			return "early", nil
		},
	}

	testutil.AssertNoError(t, blocked.Start(exec))
	testutil.AssertNoError(t, set.Add(blocked))
	testutil.AssertNoError(t, quick.Start(exec))
	testutil.AssertNoError(t, set.Add(quick))
	testutil.AssertEqual(t, set.Count(), 2)

	// Only the unblocked task can be the one that completes first.
	done, err := set.WaitAny()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, done == quick, true)

	set.Remove(done)
	testutil.AssertEqual(t, set.Count(), 1)
	quick.Join()
	quick.Teardown()

	close(gate)
	done, err = set.WaitAny()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, done == blocked, true)

	set.Remove(done)
	blocked.Join()
	blocked.Teardown()
	testutil.AssertEqual(t, set.Count(), 0)
}
