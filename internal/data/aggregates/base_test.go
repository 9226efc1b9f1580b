package aggregates

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/coachdesk-backend/internal/platform/dbctx"
)

func TestExecuteWriteObservesSuccessStatus(t *testing.T) {
	hooks := &spyHooks{}
	runner := spyTxRunner{}

	err := executeWrite(context.Background(), BaseDeps{
		Runner: runner,
		Hooks:  hooks,
	}, "aggregate.test.success", func(_ dbctx.Context) error { return nil })
	if err != nil {
		t.Fatalf("executeWrite success: %v", err)
	}
	if len(hooks.Operations) != 1 {
		t.Fatalf("operations count: want=1 got=%d", len(hooks.Operations))
	}
	if hooks.Operations[0].Status != "success" {
		t.Fatalf("operation status: want=success got=%s", hooks.Operations[0].Status)
	}
}

func TestExecuteWriteObservesInvalidStateStatus(t *testing.T) {
	hooks := &spyHooks{}
	err := executeWrite(context.Background(), BaseDeps{
		Runner: spyTxRunner{},
		Hooks:  hooks,
	}, "aggregate.test.state", func(_ dbctx.Context) error {
		return InvalidStateError("only draft courses can be made live")
	})
	if !domainagg.IsCode(err, domainagg.CodeInvalidState) {
		t.Fatalf("expected invalid_state code, got=%v", err)
	}
	if len(hooks.Operations) != 1 || hooks.Operations[0].Status != string(domainagg.CodeInvalidState) {
		t.Fatalf("unexpected op status: %+v", hooks.Operations)
	}
	if len(hooks.Conflicts) != 0 || len(hooks.IOFailures) != 0 {
		t.Fatalf("state errors must not count as conflict or io: %+v", hooks)
	}
}

func TestExecuteWriteTracksConflictAndIOCounters(t *testing.T) {
	t.Run("conflict", func(t *testing.T) {
		hooks := &spyHooks{}
		err := executeWrite(context.Background(), BaseDeps{
			Runner: spyTxRunner{},
			Hooks:  hooks,
		}, "aggregate.test.conflict", func(_ dbctx.Context) error {
			return ConflictError("student already enrolled in this course")
		})
		if !domainagg.IsCode(err, domainagg.CodeConflict) {
			t.Fatalf("expected conflict code, got=%v", err)
		}
		if len(hooks.Conflicts) != 1 || hooks.Conflicts[0] != "aggregate.test.conflict" {
			t.Fatalf("conflict hooks: %+v", hooks.Conflicts)
		}
		if len(hooks.IOFailures) != 0 {
			t.Fatalf("io hooks should be empty, got=%+v", hooks.IOFailures)
		}
	})

	t.Run("io", func(t *testing.T) {
		hooks := &spyHooks{}
		storeErr := errors.New("connection reset by peer")
		err := executeWrite(context.Background(), BaseDeps{
			Runner: failingTxRunner{err: storeErr},
			Hooks:  hooks,
		}, "aggregate.test.io", func(_ dbctx.Context) error { return nil })
		if !domainagg.IsCode(err, domainagg.CodeIO) {
			t.Fatalf("expected io code, got=%v", err)
		}
		if !errors.Is(err, storeErr) {
			t.Fatalf("store error should be the cause: %v", err)
		}
		if len(hooks.IOFailures) != 1 || hooks.IOFailures[0] != "aggregate.test.io" {
			t.Fatalf("io hooks: %+v", hooks.IOFailures)
		}
		if len(hooks.Operations) != 1 || hooks.Operations[0].Status != string(domainagg.CodeIO) {
			t.Fatalf("unexpected op status: %+v", hooks.Operations)
		}
	})
}

func TestExecuteFamilyWriteHoldsLockAroundTx(t *testing.T) {
	locker := &spyLocker{}
	hooks := &spyHooks{}
	baseID := uuid.New()
	err := executeFamilyWrite(context.Background(), BaseDeps{
		Runner: spyTxRunner{},
		Hooks:  hooks,
		Locker: locker,
	}, "aggregate.test.lock", baseID, func(_ dbctx.Context) error {
		if locker.held != 1 {
			t.Fatalf("tx body ran without the family lock")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("executeFamilyWrite: %v", err)
	}
	if locker.held != 0 || len(locker.locked) != 1 || locker.locked[0] != baseID {
		t.Fatalf("lock not released or wrong key: %+v", locker)
	}
	if len(hooks.LockWaits) != 1 || !hooks.LockWaits[0].Acquired {
		t.Fatalf("expected one acquired lock wait, got %+v", hooks.LockWaits)
	}
}

func TestExecuteFamilyWriteLockFailureSkipsTx(t *testing.T) {
	ran := false
	hooks := &spyHooks{}
	err := executeFamilyWrite(context.Background(), BaseDeps{
		Runner: spyTxRunner{},
		Hooks:  hooks,
		Locker: &spyLocker{err: ConflictError("busy")},
	}, "aggregate.test.lockfail", uuid.New(), func(_ dbctx.Context) error {
		ran = true
		return nil
	})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if ran {
		t.Fatalf("tx body must not run when the lock is not acquired")
	}
	if len(hooks.LockWaits) != 1 || hooks.LockWaits[0].Acquired {
		t.Fatalf("expected one failed lock wait, got %+v", hooks.LockWaits)
	}
	if len(hooks.Conflicts) != 1 {
		t.Fatalf("lock timeout should count as a conflict: %+v", hooks.Conflicts)
	}
}

func TestAggregateErrorStatus(t *testing.T) {
	if got := aggregateErrorStatus(nil); got != "success" {
		t.Fatalf("nil status: want=success got=%s", got)
	}
	if got := aggregateErrorStatus(ValidationError("x")); got != string(domainagg.CodeValidation) {
		t.Fatalf("validation status: got=%s", got)
	}
	if got := aggregateErrorStatus(NotFoundError("x")); got != string(domainagg.CodeNotFound) {
		t.Fatalf("not found status: got=%s", got)
	}
	if got := aggregateErrorStatus(context.DeadlineExceeded); got != string(domainagg.CodeIO) {
		t.Fatalf("deadline status: got=%s", got)
	}
}

type spyTxRunner struct{}

func (spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(dbctx.Context{Ctx: ctx})
}

type failingTxRunner struct{ err error }

func (r failingTxRunner) InTx(context.Context, func(dbc dbctx.Context) error) error {
	return r.err
}

type spyHooks struct {
	mu         sync.Mutex
	Operations []spyOperation
	Conflicts  []string
	IOFailures []string
	LockWaits  []spyLockWait
}

type spyLockWait struct {
	Name     string
	Acquired bool
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) ObserveLockWait(name string, _ time.Duration, acquired bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LockWaits = append(h.LockWaits, spyLockWait{Name: name, Acquired: acquired})
}

func (h *spyHooks) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, name)
}

func (h *spyHooks) IncIOFailure(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.IOFailures = append(h.IOFailures, name)
}

type spyLocker struct {
	mu     sync.Mutex
	err    error
	held   int
	locked []uuid.UUID
}

func (l *spyLocker) Lock(_ context.Context, baseID uuid.UUID) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.held++
	l.locked = append(l.locked, baseID)
	return func() {
		l.mu.Lock()
		l.held--
		l.mu.Unlock()
	}, nil
}
