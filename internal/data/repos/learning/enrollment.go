package learning

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/coachdesk-backend/internal/domain/learning"
	"github.com/yungbote/coachdesk-backend/internal/platform/dbctx"
	"github.com/yungbote/coachdesk-backend/internal/platform/logger"
)

type EnrollmentRepo interface {
	Create(dbc dbctx.Context, row *types.Enrollment) error
	GetByStudentAndBase(dbc dbctx.Context, studentID, baseID uuid.UUID) (*types.Enrollment, error)
	ListByStudent(dbc dbctx.Context, studentID uuid.UUID) ([]*types.Enrollment, error)
	ListByVersion(dbc dbctx.Context, versionID uuid.UUID) ([]*types.Enrollment, error)
	CountByVersion(dbc dbctx.Context, versionID uuid.UUID) (int64, error)
	DeleteByID(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(dbc dbctx.Context, row *types.Enrollment) error {
	if row == nil || row.StudentID == uuid.Nil || row.BaseID == uuid.Nil || row.CourseVersionID == uuid.Nil {
		return fmt.Errorf("enrollment requires student_id, base_id and course_version_id")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.EnrolledAt.IsZero() {
		row.EnrolledAt = time.Now().UTC()
	}
	return dbc.Resolve(r.db).Create(row).Error
}

func (r *enrollmentRepo) GetByStudentAndBase(dbc dbctx.Context, studentID, baseID uuid.UUID) (*types.Enrollment, error) {
	if studentID == uuid.Nil || baseID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Enrollment
	if err := dbc.Resolve(r.db).
		Where("student_id = ? AND base_id = ?", studentID, baseID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *enrollmentRepo) ListByStudent(dbc dbctx.Context, studentID uuid.UUID) ([]*types.Enrollment, error) {
	out := []*types.Enrollment{}
	if studentID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Resolve(r.db).
		Where("student_id = ?", studentID).
		Order("enrolled_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) ListByVersion(dbc dbctx.Context, versionID uuid.UUID) ([]*types.Enrollment, error) {
	out := []*types.Enrollment{}
	if versionID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Resolve(r.db).
		Where("course_version_id = ?", versionID).
		Order("enrolled_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) CountByVersion(dbc dbctx.Context, versionID uuid.UUID) (int64, error) {
	var n int64
	if versionID == uuid.Nil {
		return 0, nil
	}
	if err := dbc.Resolve(r.db).
		Model(&types.Enrollment{}).
		Where("course_version_id = ?", versionID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *enrollmentRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, fmt.Errorf("missing id")
	}
	res := dbc.Resolve(r.db).
		Where("id = ?", id).
		Delete(&types.Enrollment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
