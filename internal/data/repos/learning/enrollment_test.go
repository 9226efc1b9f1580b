package learning

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coachdesk-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coachdesk-backend/internal/domain/learning"
	"github.com/yungbote/coachdesk-backend/internal/platform/dbctx"
)

func TestEnrollmentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewEnrollmentRepo(db, testutil.Logger(t))

	student := uuid.New()
	vA := testutil.SeedCourseVersion(t, ctx, tx, uuid.New(), 1, types.StateLive, true)
	vB := testutil.SeedCourseVersion(t, ctx, tx, uuid.New(), 1, types.StateLive, true)

	t0 := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	later := testutil.SeedEnrollment(t, ctx, tx, student, vB, t0.Add(time.Hour))
	earlier := &types.Enrollment{StudentID: student, BaseID: vA.BaseID, CourseVersionID: vA.ID, EnrolledAt: t0}
	if err := repo.Create(dbc, earlier); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if earlier.ID == uuid.Nil {
		t.Fatalf("Create should assign an id")
	}

	got, err := repo.GetByStudentAndBase(dbc, student, vA.BaseID)
	if err != nil || got == nil || got.CourseVersionID != vA.ID {
		t.Fatalf("GetByStudentAndBase: err=%v got=%+v", err, got)
	}
	if got, err := repo.GetByStudentAndBase(dbc, uuid.New(), vA.BaseID); err != nil || got != nil {
		t.Fatalf("GetByStudentAndBase missing: err=%v got=%+v", err, got)
	}

	rows, err := repo.ListByStudent(dbc, student)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByStudent: err=%v rows=%d", err, len(rows))
	}
	if rows[0].ID != earlier.ID || rows[1].ID != later.ID {
		t.Fatalf("ListByStudent should order by enrolled_at")
	}

	if rows, err := repo.ListByVersion(dbc, vB.ID); err != nil || len(rows) != 1 {
		t.Fatalf("ListByVersion: err=%v rows=%d", err, len(rows))
	}
	if n, err := repo.CountByVersion(dbc, vA.ID); err != nil || n != 1 {
		t.Fatalf("CountByVersion: err=%v n=%d", err, n)
	}

	if ok, err := repo.DeleteByID(dbc, earlier.ID); err != nil || !ok {
		t.Fatalf("DeleteByID: ok=%v err=%v", ok, err)
	}
	if ok, err := repo.DeleteByID(dbc, earlier.ID); err != nil || ok {
		t.Fatalf("DeleteByID twice: ok=%v err=%v", ok, err)
	}
}

func TestEnrollmentRepo_OnePerStudentPerBase(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewEnrollmentRepo(db, testutil.Logger(t))

	student := uuid.New()
	baseID := uuid.New()
	v1 := testutil.SeedCourseVersion(t, ctx, tx, baseID, 1, types.StateLive, false)
	v2 := testutil.SeedCourseVersion(t, ctx, tx, baseID, 2, types.StateLive, true)
	testutil.SeedEnrollment(t, ctx, tx, student, v1, time.Now())

	err := tx.Transaction(func(inner *gorm.DB) error {
		return repo.Create(dbctx.Context{Ctx: ctx, Tx: inner}, &types.Enrollment{
			StudentID:       student,
			BaseID:          baseID,
			CourseVersionID: v2.ID,
		})
	})
	if err == nil {
		t.Fatalf("expected unique violation on (student_id, base_id)")
	}
}
