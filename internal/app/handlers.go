package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/coachdesk-backend/internal/http/handlers"
	"github.com/yungbote/coachdesk-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Course     *httpH.CourseHandler
	Enrollment *httpH.EnrollmentHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, svc Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db),
		Course:     httpH.NewCourseHandler(svc.Lifecycle),
		Enrollment: httpH.NewEnrollmentHandler(svc.Enrollments),
	}
}
