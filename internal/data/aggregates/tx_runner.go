package aggregates

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/coachdesk-backend/internal/platform/dbctx"
)

// TxRunner is the commit boundary for aggregate writes: every mutation made through
// dbc.Tx inside fn commits together or not at all.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

const (
	defaultTxAttempts = 3
	defaultTxBackoff  = 20 * time.Millisecond
)

type gormTxRunner struct {
	db       *gorm.DB
	attempts int
	backoff  time.Duration
}

type TxRunnerOption func(*gormTxRunner)

// WithTxRetry sets how many times a transaction is attempted when the database reports
// a serialization failure, a deadlock or a busy file. attempts < 1 means one attempt.
func WithTxRetry(attempts int, backoff time.Duration) TxRunnerOption {
	return func(r *gormTxRunner) {
		if attempts < 1 {
			attempts = 1
		}
		if backoff < 0 {
			backoff = 0
		}
		r.attempts = attempts
		r.backoff = backoff
	}
}

// NewGormTxRunner returns a transaction runner backed by GORM transactions.
// fn may run more than once and must not leak effects outside dbc.Tx.
func NewGormTxRunner(db *gorm.DB, opts ...TxRunnerOption) TxRunner {
	r := &gormTxRunner{db: db, attempts: defaultTxAttempts, backoff: defaultTxBackoff}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "transaction runner has nil db", nil)
	}
	var err error
	for attempt := 1; ; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(dbctx.Context{Ctx: ctx, Tx: tx})
		})
		if err == nil || attempt >= r.attempts || !retryableTxError(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * r.backoff):
		}
	}
}

// retryableTxError reports failures where the whole transaction rolled back and a
// fresh attempt can succeed.
func retryableTxError(err error) bool {
	if err == nil {
		return false
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) && aggErr.Cause == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return true
		}
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "sqlite_busy")
}
