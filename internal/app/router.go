package app

import (
	"github.com/gin-gonic/gin"

	server "github.com/yungbote/coachdesk-backend/internal/http"
	"github.com/yungbote/coachdesk-backend/internal/observability"
	"github.com/yungbote/coachdesk-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *gin.Engine {
	log.Info("Wiring router...")
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return server.NewRouter(server.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       serviceName,
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		CourseHandler:     handlers.Course,
		EnrollmentHandler: handlers.Enrollment,
		HealthHandler:     handlers.Health,
	})
}
