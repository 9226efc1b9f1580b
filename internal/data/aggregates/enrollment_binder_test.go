package aggregates

import (
	"context"
	"testing"

	"github.com/google/uuid"
	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/coachdesk-backend/internal/domain/learning"
)

func (f *courseFixture) enrollmentCount(t *testing.T, versionID uuid.UUID) int {
	t.Helper()
	v, err := f.graph.GetByID(context.Background(), versionID)
	if err != nil || v == nil {
		t.Fatalf("GetByID %s: v=%v err=%v", versionID, v, err)
	}
	return v.EnrollmentCount
}

func TestEnrollmentBinderEnroll(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	v1 := f.publishedBase(t, "Intro")
	student := uuid.New()

	e, err := f.binder.Enroll(ctx, student, v1.ID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if e.CourseVersionID != v1.ID || e.BaseID != v1.BaseID || e.StudentID != student {
		t.Fatalf("unexpected enrollment: %+v", e)
	}
	if n := f.enrollmentCount(t, v1.ID); n != 1 {
		t.Fatalf("count: want=1 got=%d", n)
	}

	_, err = f.binder.Enroll(ctx, student, v1.ID)
	if !domainagg.IsCode(err, domainagg.CodeConflict) || domainagg.MessageOf(err) != domainagg.MsgAlreadyEnrolled {
		t.Fatalf("duplicate enroll: got %v", err)
	}
	if n := f.enrollmentCount(t, v1.ID); n != 1 {
		t.Fatalf("failed enroll changed count: %d", n)
	}
}

func TestEnrollmentBinderRejectsNonLive(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	draft, err := f.graph.CreateBase(ctx, learning.CourseContent{Title: "Draft"})
	if err != nil {
		t.Fatalf("CreateBase: %v", err)
	}
	_, err = f.binder.Enroll(ctx, uuid.New(), draft.ID)
	if !domainagg.IsCode(err, domainagg.CodeInvalidState) || domainagg.MessageOf(err) != domainagg.MsgEnrollRequiresLive {
		t.Fatalf("enroll into draft: got %v", err)
	}

	live := f.publishedBase(t, "Live")
	if _, err := f.graph.Archive(ctx, live.ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if _, err := f.binder.Enroll(ctx, uuid.New(), live.ID); !domainagg.IsCode(err, domainagg.CodeInvalidState) {
		t.Fatalf("enroll into archived: got %v", err)
	}
	if _, err := f.binder.Enroll(ctx, uuid.New(), uuid.New()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("enroll into unknown version: got %v", err)
	}
	if _, err := f.binder.Enroll(ctx, uuid.Nil, live.ID); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("enroll without student: got %v", err)
	}
}

func TestEnrollmentBinderOnePerFamilyAcrossVersions(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	v1 := f.publishedBase(t, "Intro")
	v2, err := f.graph.Branch(ctx, v1.BaseID)
	if err != nil {
		t.Fatalf("Branch: %v", err)
	}
	if _, err := f.graph.Publish(ctx, v2.ID); err != nil {
		t.Fatalf("Publish v2: %v", err)
	}

	student := uuid.New()
	if _, err := f.binder.Enroll(ctx, student, v1.ID); err != nil {
		t.Fatalf("Enroll v1: %v", err)
	}
	if _, err := f.binder.Enroll(ctx, student, v2.ID); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("enroll into second version: got %v", err)
	}
}

func TestEnrollmentBinderUnenrollDecrementsPinnedVersion(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	v1 := f.publishedBase(t, "Intro")
	s := uuid.New()
	if _, err := f.binder.Enroll(ctx, s, v1.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	v2, err := f.graph.Branch(ctx, v1.BaseID)
	if err != nil {
		t.Fatalf("Branch: %v", err)
	}
	if _, err := f.graph.Publish(ctx, v2.ID); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	other := uuid.New()
	if _, err := f.binder.Enroll(ctx, other, v2.ID); err != nil {
		t.Fatalf("Enroll v2: %v", err)
	}

	removed, err := f.binder.Unenroll(ctx, s, v1.BaseID)
	if err != nil {
		t.Fatalf("Unenroll: %v", err)
	}
	if removed.CourseVersionID != v1.ID {
		t.Fatalf("removed enrollment should be pinned to v1")
	}
	if n := f.enrollmentCount(t, v1.ID); n != 0 {
		t.Fatalf("v1 count: want=0 got=%d", n)
	}
	if n := f.enrollmentCount(t, v2.ID); n != 1 {
		t.Fatalf("v2 count must be untouched: got=%d", n)
	}

	_, err = f.binder.Unenroll(ctx, s, v1.BaseID)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("second unenroll: got %v", err)
	}
	if _, err := f.binder.Enroll(ctx, s, v2.ID); err != nil {
		t.Fatalf("re-enroll after unenroll: %v", err)
	}
}

func TestEnrollmentBinderReads(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	a := f.publishedBase(t, "A")
	b := f.publishedBase(t, "B")
	s := uuid.New()

	first, err := f.binder.Enroll(ctx, s, a.ID)
	if err != nil {
		t.Fatalf("Enroll a: %v", err)
	}
	second, err := f.binder.Enroll(ctx, s, b.ID)
	if err != nil {
		t.Fatalf("Enroll b: %v", err)
	}

	rows, err := f.binder.ListEnrollments(ctx, s)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListEnrollments: rows=%d err=%v", len(rows), err)
	}
	if rows[0].ID != first.ID || rows[1].ID != second.ID {
		t.Fatalf("ListEnrollments should be ordered by enrolled_at")
	}
	if rows, err := f.binder.ListVersionEnrollments(ctx, a.ID); err != nil || len(rows) != 1 {
		t.Fatalf("ListVersionEnrollments: rows=%d err=%v", len(rows), err)
	}
	if e, err := f.binder.GetEnrollment(ctx, s, b.BaseID); err != nil || e == nil || e.ID != second.ID {
		t.Fatalf("GetEnrollment: e=%v err=%v", e, err)
	}
	if e, err := f.binder.GetEnrollment(ctx, uuid.New(), b.BaseID); err != nil || e != nil {
		t.Fatalf("GetEnrollment missing: e=%v err=%v", e, err)
	}
	if rows, err := f.binder.ListEnrollments(ctx, uuid.New()); err != nil || len(rows) != 0 {
		t.Fatalf("ListEnrollments unknown: rows=%d err=%v", len(rows), err)
	}
}
