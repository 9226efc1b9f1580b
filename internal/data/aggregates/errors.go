package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

// ValidationError tags msg as caller input validation failure.
func ValidationError(msg string) error {
	return domainagg.NewError(domainagg.CodeValidation, "", msg, nil)
}

// InvalidStateError tags msg as an operation that is illegal in the record's lifecycle state.
func InvalidStateError(msg string) error {
	return domainagg.NewError(domainagg.CodeInvalidState, "", msg, nil)
}

// ConflictError tags msg as a uniqueness or concurrency conflict.
func ConflictError(msg string) error {
	return domainagg.NewError(domainagg.CodeConflict, "", msg, nil)
}

// NotFoundError tags msg as a missing referenced record.
func NotFoundError(msg string) error {
	return domainagg.NewError(domainagg.CodeNotFound, "", msg, nil)
}

// MapError maps infrastructure/domain failures into aggregate error codes.
// Errors that are already typed keep their code and message; op is filled in when missing.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		if aggErr.Op == "" {
			cp := *aggErr
			cp.Op = strings.TrimSpace(op)
			return &cp
		}
		return aggErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domainagg.Wrap(domainagg.CodeConflict, op, err) // unique_violation
		}
		return domainagg.Wrap(domainagg.CodeIO, op, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domainagg.Wrap(domainagg.CodeIO, op, err)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "unique constraint failed"), strings.Contains(msg, "duplicate key"):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	default:
		return domainagg.Wrap(domainagg.CodeIO, op, err)
	}
}
