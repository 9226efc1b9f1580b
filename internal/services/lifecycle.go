package services

import (
	"context"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/coachdesk-backend/internal/domain/learning"
	"github.com/yungbote/coachdesk-backend/internal/observability"
	"github.com/yungbote/coachdesk-backend/internal/platform/logger"
)

// LifecycleManager is the coach-facing surface over the version graph: it validates input,
// protects live content from edits and pre-checks readiness before publishing.
type LifecycleManager interface {
	CreateCourse(ctx context.Context, content learning.CourseContent) (*learning.CourseVersion, error)
	EditCourse(ctx context.Context, versionID uuid.UUID, patch learning.ContentPatch) (*learning.CourseVersion, error)
	CreateVersion(ctx context.Context, baseID uuid.UUID) (*learning.CourseVersion, error)
	Publish(ctx context.Context, versionID uuid.UUID) (*learning.CourseVersion, error)
	Archive(ctx context.Context, versionID uuid.UUID) (*learning.CourseVersion, error)
	RetireCourse(ctx context.Context, baseID uuid.UUID) ([]*learning.CourseVersion, error)
	Readiness(ctx context.Context, versionID uuid.UUID) (*learning.Readiness, error)

	// Read accessors return (nil, nil) when nothing matches.
	GetCourse(ctx context.Context, versionID uuid.UUID) (*learning.CourseVersion, error)
	GetCurrent(ctx context.Context, baseID uuid.UUID) (*learning.CourseVersion, error)
	GetVersion(ctx context.Context, baseID uuid.UUID, versionNumber int) (*learning.CourseVersion, error)
	ListVersions(ctx context.Context, baseID uuid.UUID) ([]*learning.CourseVersion, error)
}

type lifecycleManager struct {
	log     *logger.Logger
	graph   domainagg.CourseVersionGraph
	metrics *observability.Metrics
}

func NewLifecycleManager(log *logger.Logger, graph domainagg.CourseVersionGraph, metrics *observability.Metrics) LifecycleManager {
	if log == nil {
		log = logger.Nop()
	}
	return &lifecycleManager{
		log:     log.With("service", "LifecycleManager"),
		graph:   graph,
		metrics: metrics,
	}
}

func (m *lifecycleManager) CreateCourse(ctx context.Context, content learning.CourseContent) (*learning.CourseVersion, error) {
	const op = "LifecycleManager.CreateCourse"
	if err := validateInput(op, content); err != nil {
		return nil, err
	}
	v, err := m.graph.CreateBase(ctx, content)
	if err != nil {
		return nil, err
	}
	m.metrics.IncLifecycleTransition(string(learning.StateDraft))
	m.log.WithContext(ctx).Info("Course created", "base_id", v.BaseID, "version_id", v.ID)
	return v, nil
}

func (m *lifecycleManager) EditCourse(ctx context.Context, versionID uuid.UUID, patch learning.ContentPatch) (*learning.CourseVersion, error) {
	const op = "LifecycleManager.EditCourse"
	// State is checked before the patch so a live course is refused whatever the edit looks like.
	cur, err := m.requireVersion(ctx, op, versionID)
	if err != nil {
		return nil, err
	}
	switch cur.LifecycleState {
	case learning.StateLive:
		return nil, domainagg.NewError(domainagg.CodeInvalidState, op, domainagg.MsgLiveCourseNotEditable, nil)
	case learning.StateArchived:
		return nil, domainagg.NewError(domainagg.CodeInvalidState, op, domainagg.MsgArchivedNotEditable, nil)
	}
	if err := validateInput(op, patch); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return cur, nil
	}
	v, err := m.graph.Update(ctx, versionID, patch)
	if err != nil {
		return nil, err
	}
	m.log.WithContext(ctx).Debug("Course draft edited", "base_id", v.BaseID, "version_id", v.ID)
	return v, nil
}

func (m *lifecycleManager) CreateVersion(ctx context.Context, baseID uuid.UUID) (*learning.CourseVersion, error) {
	v, err := m.graph.Branch(ctx, baseID)
	if err != nil {
		return nil, err
	}
	m.metrics.IncLifecycleTransition(string(learning.StateDraft))
	m.log.WithContext(ctx).Info("Course version branched", "base_id", v.BaseID, "version_id", v.ID, "version", v.VersionNumber)
	return v, nil
}

func (m *lifecycleManager) Publish(ctx context.Context, versionID uuid.UUID) (*learning.CourseVersion, error) {
	const op = "LifecycleManager.Publish"
	cur, err := m.requireVersion(ctx, op, versionID)
	if err != nil {
		return nil, err
	}
	// Only drafts get the readiness message; other states fall through to the graph's state error.
	if cur.LifecycleState == learning.StateDraft {
		r, err := readinessOf(op, cur)
		if err != nil {
			return nil, err
		}
		if !r.Ready {
			return nil, domainagg.NewError(domainagg.CodeValidation, op, domainagg.MsgCourseNotReady, nil)
		}
	}
	v, err := m.graph.Publish(ctx, versionID)
	if err != nil {
		return nil, err
	}
	m.metrics.IncLifecycleTransition(string(learning.StateLive))
	m.log.WithContext(ctx).Info("Course version published", "base_id", v.BaseID, "version_id", v.ID, "version", v.VersionNumber)
	return v, nil
}

func (m *lifecycleManager) Archive(ctx context.Context, versionID uuid.UUID) (*learning.CourseVersion, error) {
	v, err := m.graph.Archive(ctx, versionID)
	if err != nil {
		return nil, err
	}
	m.metrics.IncLifecycleTransition(string(learning.StateArchived))
	m.log.WithContext(ctx).Info("Course version archived", "base_id", v.BaseID, "version_id", v.ID, "version", v.VersionNumber)
	return v, nil
}

func (m *lifecycleManager) RetireCourse(ctx context.Context, baseID uuid.UUID) ([]*learning.CourseVersion, error) {
	archived, err := m.graph.ArchiveFamily(ctx, baseID)
	if err != nil {
		return nil, err
	}
	for range archived {
		m.metrics.IncLifecycleTransition(string(learning.StateArchived))
	}
	m.log.WithContext(ctx).Info("Course retired", "base_id", baseID, "archived_versions", len(archived))
	return archived, nil
}

func (m *lifecycleManager) Readiness(ctx context.Context, versionID uuid.UUID) (*learning.Readiness, error) {
	const op = "LifecycleManager.Readiness"
	v, err := m.requireVersion(ctx, op, versionID)
	if err != nil {
		return nil, err
	}
	r, err := readinessOf(op, v)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (m *lifecycleManager) GetCourse(ctx context.Context, versionID uuid.UUID) (*learning.CourseVersion, error) {
	return m.graph.GetByID(ctx, versionID)
}

func (m *lifecycleManager) GetCurrent(ctx context.Context, baseID uuid.UUID) (*learning.CourseVersion, error) {
	return m.graph.GetCurrent(ctx, baseID)
}

func (m *lifecycleManager) GetVersion(ctx context.Context, baseID uuid.UUID, versionNumber int) (*learning.CourseVersion, error) {
	if versionNumber < 1 {
		return nil, domainagg.NewError(domainagg.CodeValidation, "LifecycleManager.GetVersion", "version number must be at least 1", nil)
	}
	return m.graph.GetVersion(ctx, baseID, versionNumber)
}

func (m *lifecycleManager) ListVersions(ctx context.Context, baseID uuid.UUID) ([]*learning.CourseVersion, error) {
	return m.graph.ListVersions(ctx, baseID)
}

func (m *lifecycleManager) requireVersion(ctx context.Context, op string, versionID uuid.UUID) (*learning.CourseVersion, error) {
	v, err := m.graph.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, domainagg.MsgCourseVersionNotFound, nil)
	}
	return v, nil
}

func readinessOf(op string, v *learning.CourseVersion) (learning.Readiness, error) {
	content, err := v.Curriculum()
	if err != nil {
		return learning.Readiness{}, domainagg.NewError(domainagg.CodeInternal, op, "stored course content is unreadable", err)
	}
	return content.Readiness(), nil
}
