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

type CourseFamilyRepo interface {
	Create(dbc dbctx.Context, row *types.CourseFamily) error
	Get(dbc dbctx.Context, baseID uuid.UUID) (*types.CourseFamily, error)
	LockByBaseID(dbc dbctx.Context, baseID uuid.UUID) (*types.CourseFamily, error)
	UpdateFields(dbc dbctx.Context, baseID uuid.UUID, updates map[string]any) error
}

type courseFamilyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseFamilyRepo(db *gorm.DB, baseLog *logger.Logger) CourseFamilyRepo {
	return &courseFamilyRepo{db: db, log: baseLog.With("repo", "CourseFamilyRepo")}
}

func (r *courseFamilyRepo) Create(dbc dbctx.Context, row *types.CourseFamily) error {
	if row == nil || row.BaseID == uuid.Nil {
		return fmt.Errorf("missing base_id")
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

func (r *courseFamilyRepo) Get(dbc dbctx.Context, baseID uuid.UUID) (*types.CourseFamily, error) {
	if baseID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.CourseFamily
	if err := dbc.Resolve(r.db).
		Where("base_id = ?", baseID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// LockByBaseID reads the family row FOR UPDATE. Absent families return (nil, nil).
func (r *courseFamilyRepo) LockByBaseID(dbc dbctx.Context, baseID uuid.UUID) (*types.CourseFamily, error) {
	if baseID == uuid.Nil {
		return nil, fmt.Errorf("missing base_id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByBaseID required dbc.Tx")
	}
	var rows []*types.CourseFamily
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("base_id = ?", baseID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *courseFamilyRepo) UpdateFields(dbc dbctx.Context, baseID uuid.UUID, updates map[string]any) error {
	if baseID == uuid.Nil {
		return fmt.Errorf("missing base_id")
	}
	if updates == nil {
		updates = map[string]any{}
	}
	updates["updated_at"] = time.Now().UTC()
	res := dbc.Resolve(r.db).
		Model(&types.CourseFamily{}).
		Where("base_id = ?", baseID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
