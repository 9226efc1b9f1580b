package learning

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coachdesk-backend/internal/domain/learning"
	"github.com/yungbote/coachdesk-backend/internal/platform/dbctx"
	"github.com/yungbote/coachdesk-backend/internal/platform/logger"
)

type CourseVersionRepo interface {
	Create(dbc dbctx.Context, row *types.CourseVersion) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseVersion, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseVersion, error)
	GetCurrent(dbc dbctx.Context, baseID uuid.UUID) (*types.CourseVersion, error)
	GetByNumber(dbc dbctx.Context, baseID uuid.UUID, versionNumber int) (*types.CourseVersion, error)
	ListByBaseID(dbc dbctx.Context, baseID uuid.UUID) ([]*types.CourseVersion, error)
	ClearCurrent(dbc dbctx.Context, baseID uuid.UUID) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
	AdjustEnrollmentCount(dbc dbctx.Context, id uuid.UUID, delta int) (bool, error)
}

type courseVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseVersionRepo(db *gorm.DB, baseLog *logger.Logger) CourseVersionRepo {
	return &courseVersionRepo{db: db, log: baseLog.With("repo", "CourseVersionRepo")}
}

func (r *courseVersionRepo) Create(dbc dbctx.Context, row *types.CourseVersion) error {
	if row == nil {
		return fmt.Errorf("missing row")
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = now
	}
	return dbc.Resolve(r.db).Create(row).Error
}

func (r *courseVersionRepo) first(q *gorm.DB) (*types.CourseVersion, error) {
	var rows []*types.CourseVersion
	if err := q.Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *courseVersionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseVersion, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc.Resolve(r.db).Where("id = ?", id))
}

func (r *courseVersionRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseVersion, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID required dbc.Tx")
	}
	return r.first(dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *courseVersionRepo) GetCurrent(dbc dbctx.Context, baseID uuid.UUID) (*types.CourseVersion, error) {
	if baseID == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc.Resolve(r.db).Where("base_id = ? AND is_current = ?", baseID, true))
}

func (r *courseVersionRepo) GetByNumber(dbc dbctx.Context, baseID uuid.UUID, versionNumber int) (*types.CourseVersion, error) {
	if baseID == uuid.Nil || versionNumber <= 0 {
		return nil, nil
	}
	return r.first(dbc.Resolve(r.db).Where("base_id = ? AND version_number = ?", baseID, versionNumber))
}

func (r *courseVersionRepo) ListByBaseID(dbc dbctx.Context, baseID uuid.UUID) ([]*types.CourseVersion, error) {
	out := []*types.CourseVersion{}
	if baseID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Resolve(r.db).
		Where("base_id = ?", baseID).
		Order("version_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ClearCurrent drops the current flag from every version of baseID.
func (r *courseVersionRepo) ClearCurrent(dbc dbctx.Context, baseID uuid.UUID) error {
	if baseID == uuid.Nil {
		return fmt.Errorf("missing base_id")
	}
	return dbc.Resolve(r.db).
		Model(&types.CourseVersion{}).
		Where("base_id = ? AND is_current = ?", baseID, true).
		Updates(map[string]any{
			"is_current": false,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *courseVersionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if updates == nil {
		updates = map[string]any{}
	}
	updates["updated_at"] = time.Now().UTC()
	return dbc.Resolve(r.db).
		Model(&types.CourseVersion{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// AdjustEnrollmentCount adds delta to the version's counter. A decrement that would take the
// counter below zero matches no row and reports false.
func (r *courseVersionRepo) AdjustEnrollmentCount(dbc dbctx.Context, id uuid.UUID, delta int) (bool, error) {
	if id == uuid.Nil {
		return false, fmt.Errorf("missing id")
	}
	if delta == 0 {
		return true, nil
	}
	q := dbc.Resolve(r.db).
		Model(&types.CourseVersion{}).
		Where("id = ?", id)
	if delta < 0 {
		q = q.Where("enrollment_count >= ?", -delta)
	}
	res := q.Updates(map[string]any{
		"enrollment_count": gorm.Expr("enrollment_count + ?", delta),
		"updated_at":       time.Now().UTC(),
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
