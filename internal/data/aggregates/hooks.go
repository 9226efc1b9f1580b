package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/coachdesk-backend/internal/observability"
)

// Hooks receives one ObserveOperation per aggregate write plus the signals below.
// ObserveLockWait fires only for writes that took the family lock.
type Hooks interface {
	ObserveOperation(op, status string, dur time.Duration)
	ObserveLockWait(op string, wait time.Duration, acquired bool)
	IncConflict(op string)
	IncIOFailure(op string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) ObserveLockWait(string, time.Duration, bool)    {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncIOFailure(string)                            {}

type metricsHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks reports aggregate writes to metrics. A nil metrics set yields no-op hooks.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return metricsHooks{metrics: metrics}
}

func (h metricsHooks) ObserveOperation(op, status string, dur time.Duration) {
	h.metrics.ObserveAggregateOperation(strings.TrimSpace(op), strings.TrimSpace(status), dur)
}

func (h metricsHooks) ObserveLockWait(op string, wait time.Duration, acquired bool) {
	h.metrics.ObserveFamilyLockWait(strings.TrimSpace(op), wait, acquired)
}

func (h metricsHooks) IncConflict(op string) {
	h.metrics.IncAggregateConflict(strings.TrimSpace(op))
}

func (h metricsHooks) IncIOFailure(op string) {
	h.metrics.IncAggregateIOFailure(strings.TrimSpace(op))
}
