package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/coachdesk-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/coachdesk-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/coachdesk-backend/internal/data/repos"
	repotest "github.com/yungbote/coachdesk-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
)

func TestEnrollCommitFailureLeavesNoTrace(t *testing.T) {
	db := repotest.DB(t)
	log := repotest.Logger(t)
	ctx := context.Background()

	families := repos.NewCourseFamilyRepo(db, log)
	versions := repos.NewCourseVersionRepo(db, log)
	enrollments := repos.NewEnrollmentRepo(db, log)
	graph := aggregates.NewCourseVersionGraph(aggregates.CourseVersionGraphDeps{
		Base:     aggregates.BaseDeps{DB: db, Log: log},
		Families: families,
		Versions: versions,
	})

	v, err := graph.CreateBase(ctx, repotest.ReadyContent("Intro"))
	if err != nil {
		t.Fatalf("CreateBase: %v", err)
	}
	if v, err = graph.Publish(ctx, v.ID); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	hooks := &aggtest.HooksRecorder{}
	runner := &aggtest.InjectedTxRunner{
		Inner:      aggregates.NewGormTxRunner(db),
		FailCommit: errors.New("connection lost during commit"),
	}
	binder := aggregates.NewEnrollmentBinder(aggregates.EnrollmentBinderDeps{
		Base:        aggregates.BaseDeps{DB: db, Log: log, Runner: runner, Hooks: hooks},
		Families:    families,
		Versions:    versions,
		Enrollments: enrollments,
	})

	student := uuid.New()
	_, err = binder.Enroll(ctx, student, v.ID)
	if !domainagg.IsCode(err, domainagg.CodeIO) {
		t.Fatalf("expected io error, got %v", err)
	}
	if runner.RollbackCalls != 1 {
		t.Fatalf("expected one rollback, got %d", runner.RollbackCalls)
	}
	if got := hooks.Statuses("Learning.EnrollmentBinder.Enroll"); len(got) != 1 || got[0] != string(domainagg.CodeIO) {
		t.Fatalf("unexpected statuses: %+v", got)
	}

	if e, err := binder.GetEnrollment(ctx, student, v.BaseID); err != nil || e != nil {
		t.Fatalf("enrollment must not survive a failed commit: e=%v err=%v", e, err)
	}
	after, err := graph.GetByID(ctx, v.ID)
	if err != nil || after.EnrollmentCount != 0 {
		t.Fatalf("counter must not survive a failed commit: count=%d err=%v", after.EnrollmentCount, err)
	}
}
