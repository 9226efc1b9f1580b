package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/coachdesk-backend/internal/data/repos"
	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/coachdesk-backend/internal/domain/learning"
	"github.com/yungbote/coachdesk-backend/internal/platform/dbctx"
)

type EnrollmentBinderDeps struct {
	Base BaseDeps

	Families    repos.CourseFamilyRepo
	Versions    repos.CourseVersionRepo
	Enrollments repos.EnrollmentRepo
}

type enrollmentBinder struct {
	deps EnrollmentBinderDeps
}

func NewEnrollmentBinder(deps EnrollmentBinderDeps) domainagg.EnrollmentBinder {
	deps.Base = deps.Base.withDefaults()
	return &enrollmentBinder{deps: deps}
}

func (b *enrollmentBinder) Contract() domainagg.Contract {
	return domainagg.EnrollmentBinderContract
}

func (b *enrollmentBinder) configured(op string) error {
	if b.deps.Families == nil || b.deps.Versions == nil || b.deps.Enrollments == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "enrollment binder repos not configured", nil)
	}
	return nil
}

func (b *enrollmentBinder) Enroll(ctx context.Context, studentID, versionID uuid.UUID) (*learning.Enrollment, error) {
	const op = "Learning.EnrollmentBinder.Enroll"
	if err := b.configured(op); err != nil {
		return nil, err
	}
	if studentID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing student_id", nil)
	}
	if versionID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing course_version_id", nil)
	}
	target, err := b.deps.Versions.GetByID(dbctx.Context{Ctx: ctx}, versionID)
	if err != nil {
		return nil, MapError(op, err)
	}
	if target == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, domainagg.MsgCourseVersionNotFound, nil)
	}

	var out *learning.Enrollment
	err = executeFamilyWrite(ctx, b.deps.Base, op, target.BaseID, func(dbc dbctx.Context) error {
		fam, err := b.deps.Families.LockByBaseID(dbc, target.BaseID)
		if err != nil {
			return err
		}
		if fam == nil {
			return NotFoundError(domainagg.MsgCourseNotFound)
		}
		v, err := b.deps.Versions.LockByID(dbc, versionID)
		if err != nil {
			return err
		}
		if v == nil {
			return NotFoundError(domainagg.MsgCourseVersionNotFound)
		}
		if v.LifecycleState != learning.StateLive {
			return InvalidStateError(domainagg.MsgEnrollRequiresLive)
		}
		existing, err := b.deps.Enrollments.GetByStudentAndBase(dbc, studentID, v.BaseID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ConflictError(domainagg.MsgAlreadyEnrolled)
		}

		e := &learning.Enrollment{
			ID:              uuid.New(),
			StudentID:       studentID,
			BaseID:          v.BaseID,
			CourseVersionID: v.ID,
			EnrolledAt:      time.Now().UTC(),
		}
		if err := b.deps.Enrollments.Create(dbc, e); err != nil {
			if domainagg.IsCode(MapError(op, err), domainagg.CodeConflict) {
				return ConflictError(domainagg.MsgAlreadyEnrolled)
			}
			return err
		}
		ok, err := b.deps.Versions.AdjustEnrollmentCount(dbc, v.ID, 1)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "course version changed while enrolling"); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *enrollmentBinder) Unenroll(ctx context.Context, studentID, baseID uuid.UUID) (*learning.Enrollment, error) {
	const op = "Learning.EnrollmentBinder.Unenroll"
	if err := b.configured(op); err != nil {
		return nil, err
	}
	if studentID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing student_id", nil)
	}
	if baseID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing base_id", nil)
	}

	var out *learning.Enrollment
	err := executeFamilyWrite(ctx, b.deps.Base, op, baseID, func(dbc dbctx.Context) error {
		fam, err := b.deps.Families.LockByBaseID(dbc, baseID)
		if err != nil {
			return err
		}
		if fam == nil {
			return NotFoundError(domainagg.MsgEnrollmentNotFound)
		}
		e, err := b.deps.Enrollments.GetByStudentAndBase(dbc, studentID, baseID)
		if err != nil {
			return err
		}
		if e == nil {
			return NotFoundError(domainagg.MsgEnrollmentNotFound)
		}
		deleted, err := b.deps.Enrollments.DeleteByID(dbc, e.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return NotFoundError(domainagg.MsgEnrollmentNotFound)
		}
		// the pinned version, which may no longer be the family's current one
		ok, err := b.deps.Versions.AdjustEnrollmentCount(dbc, e.CourseVersionID, -1)
		if err != nil {
			return err
		}
		if !ok {
			return domainagg.NewError(domainagg.CodeInternal, op, "enrollment counter out of sync with enrollments", nil)
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *enrollmentBinder) GetEnrollment(ctx context.Context, studentID, baseID uuid.UUID) (*learning.Enrollment, error) {
	const op = "Learning.EnrollmentBinder.GetEnrollment"
	if err := b.configured(op); err != nil {
		return nil, err
	}
	e, err := b.deps.Enrollments.GetByStudentAndBase(dbctx.Context{Ctx: ctx}, studentID, baseID)
	return e, MapError(op, err)
}

func (b *enrollmentBinder) ListEnrollments(ctx context.Context, studentID uuid.UUID) ([]*learning.Enrollment, error) {
	const op = "Learning.EnrollmentBinder.ListEnrollments"
	if err := b.configured(op); err != nil {
		return nil, err
	}
	rows, err := b.deps.Enrollments.ListByStudent(dbctx.Context{Ctx: ctx}, studentID)
	return rows, MapError(op, err)
}

func (b *enrollmentBinder) ListVersionEnrollments(ctx context.Context, versionID uuid.UUID) ([]*learning.Enrollment, error) {
	const op = "Learning.EnrollmentBinder.ListVersionEnrollments"
	if err := b.configured(op); err != nil {
		return nil, err
	}
	rows, err := b.deps.Enrollments.ListByVersion(dbctx.Context{Ctx: ctx}, versionID)
	return rows, MapError(op, err)
}
