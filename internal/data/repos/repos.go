package repos

import (
	"github.com/yungbote/coachdesk-backend/internal/data/repos/learning"
	"github.com/yungbote/coachdesk-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CourseFamilyRepo = learning.CourseFamilyRepo
type CourseVersionRepo = learning.CourseVersionRepo
type EnrollmentRepo = learning.EnrollmentRepo

func NewCourseFamilyRepo(db *gorm.DB, baseLog *logger.Logger) CourseFamilyRepo {
	return learning.NewCourseFamilyRepo(db, baseLog)
}
func NewCourseVersionRepo(db *gorm.DB, baseLog *logger.Logger) CourseVersionRepo {
	return learning.NewCourseVersionRepo(db, baseLog)
}
func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return learning.NewEnrollmentRepo(db, baseLog)
}
