package app

import (
	"gorm.io/gorm"

	dataagg "github.com/yungbote/coachdesk-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/coachdesk-backend/internal/observability"
	"github.com/yungbote/coachdesk-backend/internal/platform/logger"
	"github.com/yungbote/coachdesk-backend/internal/services"
)

type Services struct {
	Graph  domainagg.CourseVersionGraph
	Binder domainagg.EnrollmentBinder

	Lifecycle   services.LifecycleManager
	Enrollments services.EnrollmentService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, reposet Repos, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	base := dataagg.BaseDeps{
		DB:     db,
		Log:    log,
		Runner: dataagg.NewGormTxRunner(db, dataagg.WithTxRetry(cfg.TxAttempts, cfg.TxRetryBackoff)),
		Hooks:  dataagg.NewObservabilityHooks(metrics),
		Locker: familyLocker(log, cfg, clients),
	}
	graph := dataagg.NewCourseVersionGraph(dataagg.CourseVersionGraphDeps{
		Base:     base,
		Families: reposet.CourseFamily,
		Versions: reposet.CourseVersion,
	})
	binder := dataagg.NewEnrollmentBinder(dataagg.EnrollmentBinderDeps{
		Base:        base,
		Families:    reposet.CourseFamily,
		Versions:    reposet.CourseVersion,
		Enrollments: reposet.Enrollment,
	})

	return Services{
		Graph:       graph,
		Binder:      binder,
		Lifecycle:   services.NewLifecycleManager(log, graph, metrics),
		Enrollments: services.NewEnrollmentService(log, binder, metrics),
	}
}

// familyLocker is shared by the graph and the binder so their writes on one base course queue together.
func familyLocker(log *logger.Logger, cfg Config, clients Clients) dataagg.FamilyLocker {
	if clients.Redis != nil {
		log.Info("Family locks backed by redis", "ttl", cfg.FamilyLockTTL, "wait", cfg.FamilyLockWait)
		return dataagg.NewRedisFamilyLocker(clients.Redis, log, dataagg.RedisFamilyLockerConfig{
			TTL:  cfg.FamilyLockTTL,
			Wait: cfg.FamilyLockWait,
		})
	}
	return dataagg.NewLocalFamilyLocker(cfg.FamilyLockWait)
}
