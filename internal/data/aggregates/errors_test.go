package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError_TypedHelpers(t *testing.T) {
	cases := []struct {
		err  error
		want domainagg.ErrorCode
	}{
		{ValidationError("bad input"), domainagg.CodeValidation},
		{InvalidStateError("not draft"), domainagg.CodeInvalidState},
		{ConflictError("dup"), domainagg.CodeConflict},
		{NotFoundError("missing"), domainagg.CodeNotFound},
	}
	for _, tc := range cases {
		err := MapError("op", tc.err)
		if !domainagg.IsCode(err, tc.want) {
			t.Fatalf("expected %s code, got %q (%v)", tc.want, domainagg.CodeOf(err), err)
		}
		if domainagg.MessageOf(err) != domainagg.MessageOf(tc.err) {
			t.Fatalf("message changed: %q", domainagg.MessageOf(err))
		}
	}
}

func TestMapError_FillsOp(t *testing.T) {
	err := MapError("Learning.Graph.Publish", InvalidStateError("only draft courses can be made live"))
	var aggErr *domainagg.Error
	if !errors.As(err, &aggErr) {
		t.Fatalf("expected aggregate error, got %T", err)
	}
	if aggErr.Op != "Learning.Graph.Publish" {
		t.Fatalf("op not filled: %q", aggErr.Op)
	}
	if aggErr.Message != "only draft courses can be made live" {
		t.Fatalf("message: %q", aggErr.Message)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_UniqueViolations(t *testing.T) {
	pg := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	if err := MapError("op", fmt.Errorf("insert: %w", pg)); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("pg unique: got %q", domainagg.CodeOf(err))
	}
	sqlite := errors.New("UNIQUE constraint failed: course_enrollment.student_id, course_enrollment.base_id")
	if err := MapError("op", sqlite); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("sqlite unique: got %q", domainagg.CodeOf(err))
	}
	if err := MapError("op", gorm.ErrDuplicatedKey); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("gorm duplicated key: got %q", domainagg.CodeOf(err))
	}
}

func TestMapError_StoreFailuresAreIO(t *testing.T) {
	for _, in := range []error{
		&pgconn.PgError{Code: "08006", Message: "connection failure"},
		context.DeadlineExceeded,
		errors.New("driver: bad connection"),
	} {
		err := MapError("op", in)
		if !domainagg.IsCode(err, domainagg.CodeIO) {
			t.Fatalf("%v: expected io, got %q", in, domainagg.CodeOf(err))
		}
		if !errors.Is(err, in) {
			t.Fatalf("%v: cause not preserved", in)
		}
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeConflict, "op", "dup", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}
