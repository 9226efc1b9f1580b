package db

import (
	"fmt"

	"github.com/yungbote/coachdesk-backend/internal/domain/learning"
	"gorm.io/gorm"
)

// Migrate creates or updates every table plus the constraints AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&learning.CourseFamily{},
		&learning.CourseVersion{},
		&learning.Enrollment{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return EnsureCourseIndexes(db)
}

// EnsureCourseIndexes installs the partial unique index that allows at most one
// current version per base course. The statement is valid on Postgres and SQLite.
func EnsureCourseIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_course_version_current
		ON course_version (base_id)
		WHERE is_current;
	`).Error; err != nil {
		return fmt.Errorf("create idx_course_version_current: %w", err)
	}
	return nil
}
