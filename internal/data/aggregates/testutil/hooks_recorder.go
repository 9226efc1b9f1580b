package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/coachdesk-backend/internal/data/aggregates"
)

// HooksRecorder captures aggregate hook signals in tests.
type HooksRecorder struct {
	mu sync.Mutex

	Operations []OperationEvent
	Conflicts  []string
	IOFailures []string
	LockWaits  []LockWaitEvent
}

type LockWaitEvent struct {
	Name     string
	Wait     time.Duration
	Acquired bool
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, OperationEvent{
		Name:     name,
		Status:   status,
		Duration: dur,
	})
}

func (h *HooksRecorder) ObserveLockWait(name string, wait time.Duration, acquired bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LockWaits = append(h.LockWaits, LockWaitEvent{Name: name, Wait: wait, Acquired: acquired})
}

func (h *HooksRecorder) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, name)
}

func (h *HooksRecorder) IncIOFailure(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.IOFailures = append(h.IOFailures, name)
}

// Statuses returns the recorded statuses for operation name in call order.
func (h *HooksRecorder) Statuses(name string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, op := range h.Operations {
		if op.Name == name {
			out = append(out, op.Status)
		}
	}
	return out
}
