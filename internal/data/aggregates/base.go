package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/coachdesk-backend/internal/platform/dbctx"
	"github.com/yungbote/coachdesk-backend/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

const tracerName = "github.com/yungbote/coachdesk-backend/internal/data/aggregates"

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
	Locker   FamilyLocker
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Locker == nil {
		d.Locker = defaultFamilyLocker
	}
	return d
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	return executeFamilyWrite(ctx, deps, op, uuid.Nil, fn)
}

// executeFamilyWrite serializes fn against every other write on baseID, then runs it in one
// transaction. uuid.Nil skips the family lock (used when the family does not exist yet).
func executeFamilyWrite(ctx context.Context, deps BaseDeps, op string, baseID uuid.UUID, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, op)
	defer span.End()
	if baseID != uuid.Nil {
		span.SetAttributes(attribute.String("course.base_id", baseID.String()))
	}

	err := func() error {
		if baseID != uuid.Nil {
			waitStart := time.Now()
			unlock, err := deps.Locker.Lock(ctx, baseID)
			deps.Hooks.ObserveLockWait(op, time.Since(waitStart), err == nil)
			if err != nil {
				return err
			}
			defer unlock()
		}
		return deps.Runner.InTx(ctx, fn)
	}()
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		span.SetStatus(codes.Error, status)
		span.RecordError(mapped)
		switch domainagg.CodeOf(mapped) {
		case domainagg.CodeConflict:
			deps.Hooks.IncConflict(op)
		case domainagg.CodeIO:
			deps.Hooks.IncIOFailure(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
