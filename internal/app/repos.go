package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coachdesk-backend/internal/data/repos"
	"github.com/yungbote/coachdesk-backend/internal/platform/logger"
)

type Repos struct {
	CourseFamily  repos.CourseFamilyRepo
	CourseVersion repos.CourseVersionRepo
	Enrollment    repos.EnrollmentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		CourseFamily:  repos.NewCourseFamilyRepo(db, log),
		CourseVersion: repos.NewCourseVersionRepo(db, log),
		Enrollment:    repos.NewEnrollmentRepo(db, log),
	}
}
