package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coachdesk-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coachdesk-backend/internal/http/middleware"
	"github.com/yungbote/coachdesk-backend/internal/observability"
	"github.com/yungbote/coachdesk-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	CourseHandler     *httpH.CourseHandler
	EnrollmentHandler *httpH.EnrollmentHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")
	{
		// Courses and versions
		if cfg.CourseHandler != nil {
			api.POST("/courses", cfg.CourseHandler.CreateCourse)
			api.GET("/courses/:baseId/current", cfg.CourseHandler.GetCurrent)
			api.GET("/courses/:baseId/versions", cfg.CourseHandler.ListVersions)
			api.GET("/courses/:baseId/versions/:number", cfg.CourseHandler.GetVersion)
			api.POST("/courses/:baseId/versions", cfg.CourseHandler.CreateVersion)
			api.POST("/courses/:baseId/retire", cfg.CourseHandler.RetireCourse)

			api.GET("/course-versions/:id", cfg.CourseHandler.GetCourseVersion)
			api.PATCH("/course-versions/:id", cfg.CourseHandler.EditCourseVersion)
			api.POST("/course-versions/:id/publish", cfg.CourseHandler.PublishCourseVersion)
			api.POST("/course-versions/:id/archive", cfg.CourseHandler.ArchiveCourseVersion)
			api.GET("/course-versions/:id/readiness", cfg.CourseHandler.GetReadiness)
		}

		// Enrollments
		if cfg.EnrollmentHandler != nil {
			api.POST("/enrollments", cfg.EnrollmentHandler.Enroll)
			api.GET("/course-versions/:id/enrollments", cfg.EnrollmentHandler.ListVersionEnrollments)
			api.GET("/students/:studentId/enrollments", cfg.EnrollmentHandler.ListStudentEnrollments)
			api.DELETE("/students/:studentId/enrollments/:baseId", cfg.EnrollmentHandler.Unenroll)
		}
	}

	return r
}
