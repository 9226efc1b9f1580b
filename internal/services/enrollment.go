package services

import (
	"context"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/coachdesk-backend/internal/domain/learning"
	"github.com/yungbote/coachdesk-backend/internal/observability"
	"github.com/yungbote/coachdesk-backend/internal/platform/logger"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, versionID uuid.UUID) (*learning.Enrollment, error)
	Unenroll(ctx context.Context, studentID, baseID uuid.UUID) (*learning.Enrollment, error)
	GetEnrollment(ctx context.Context, studentID, baseID uuid.UUID) (*learning.Enrollment, error)
	ListEnrollments(ctx context.Context, studentID uuid.UUID) ([]*learning.Enrollment, error)
	ListVersionEnrollments(ctx context.Context, versionID uuid.UUID) ([]*learning.Enrollment, error)
}

type enrollmentService struct {
	log     *logger.Logger
	binder  domainagg.EnrollmentBinder
	metrics *observability.Metrics
}

func NewEnrollmentService(log *logger.Logger, binder domainagg.EnrollmentBinder, metrics *observability.Metrics) EnrollmentService {
	if log == nil {
		log = logger.Nop()
	}
	return &enrollmentService{
		log:     log.With("service", "EnrollmentService"),
		binder:  binder,
		metrics: metrics,
	}
}

func requireID(op, field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing "+field, nil)
	}
	return nil
}

func (s *enrollmentService) Enroll(ctx context.Context, studentID, versionID uuid.UUID) (*learning.Enrollment, error) {
	e, err := s.binder.Enroll(ctx, studentID, versionID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncEnrollmentChange("enroll")
	s.log.WithContext(ctx).Info("Student enrolled", "student_id", studentID, "base_id", e.BaseID, "version_id", e.CourseVersionID)
	return e, nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, studentID, baseID uuid.UUID) (*learning.Enrollment, error) {
	e, err := s.binder.Unenroll(ctx, studentID, baseID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncEnrollmentChange("unenroll")
	s.log.WithContext(ctx).Info("Student unenrolled", "student_id", studentID, "base_id", e.BaseID, "version_id", e.CourseVersionID)
	return e, nil
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, studentID, baseID uuid.UUID) (*learning.Enrollment, error) {
	return s.binder.GetEnrollment(ctx, studentID, baseID)
}

func (s *enrollmentService) ListEnrollments(ctx context.Context, studentID uuid.UUID) ([]*learning.Enrollment, error) {
	if err := requireID("EnrollmentService.ListEnrollments", "student_id", studentID); err != nil {
		return nil, err
	}
	return s.binder.ListEnrollments(ctx, studentID)
}

func (s *enrollmentService) ListVersionEnrollments(ctx context.Context, versionID uuid.UUID) ([]*learning.Enrollment, error) {
	return s.binder.ListVersionEnrollments(ctx, versionID)
}
