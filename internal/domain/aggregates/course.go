package aggregates

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/coachdesk-backend/internal/domain/learning"
)

var CourseVersionGraphContract = Contract{
	Name:      "Learning.CourseVersionGraph",
	LockScope: LockScopeCourseFamily,
	Owns:      []string{"course_family", "course_version"},
	Invariants: []string{
		"version numbers of a base course are unique and increase from 1",
		"exactly one version of a base course is current",
		"live and archived versions are never edited",
	},
}

var EnrollmentBinderContract = Contract{
	Name:      "Learning.EnrollmentBinder",
	LockScope: LockScopeCourseFamily,
	Owns:      []string{"course_enrollment"},
	Invariants: []string{
		"a student holds at most one enrollment per base course",
		"enrollments pin a version that was live when they were made",
		"a version's enrollment_count equals its enrollment rows",
	},
}

// CourseVersionGraph owns every CourseVersion of a base course.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeInvalidState, CodeConflict, CodeIO, CodeInternal.
// Read accessors return (nil, nil) when the record does not exist.
type CourseVersionGraph interface {
	Aggregate

	// CreateBase allocates a new base course and writes version 1 as the current draft.
	CreateBase(ctx context.Context, content learning.CourseContent) (*learning.CourseVersion, error)

	// Branch copies the current version into a new current draft numbered one past the family's latest.
	Branch(ctx context.Context, baseID uuid.UUID) (*learning.CourseVersion, error)

	// Publish moves a ready draft to live. It never touches the current pointer.
	Publish(ctx context.Context, versionID uuid.UUID) (*learning.CourseVersion, error)

	// Archive marks a version archived from any state. Archiving an archived version is a no-op.
	Archive(ctx context.Context, versionID uuid.UUID) (*learning.CourseVersion, error)

	// ArchiveFamily archives every non-archived version of a base course and returns the ones it changed.
	ArchiveFamily(ctx context.Context, baseID uuid.UUID) ([]*learning.CourseVersion, error)

	// Update applies patch to a draft in place.
	Update(ctx context.Context, versionID uuid.UUID, patch learning.ContentPatch) (*learning.CourseVersion, error)

	GetCurrent(ctx context.Context, baseID uuid.UUID) (*learning.CourseVersion, error)
	GetVersion(ctx context.Context, baseID uuid.UUID, versionNumber int) (*learning.CourseVersion, error)
	GetByID(ctx context.Context, versionID uuid.UUID) (*learning.CourseVersion, error)
	ListVersions(ctx context.Context, baseID uuid.UUID) ([]*learning.CourseVersion, error)
}

// EnrollmentBinder owns the (student, base course) -> pinned version mapping.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeInvalidState, CodeConflict, CodeIO, CodeInternal.
type EnrollmentBinder interface {
	Aggregate

	// Enroll pins studentID to exactly versionID and bumps that version's counter.
	Enroll(ctx context.Context, studentID, versionID uuid.UUID) (*learning.Enrollment, error)

	// Unenroll removes the student's enrollment in baseID and decrements the pinned version's counter.
	Unenroll(ctx context.Context, studentID, baseID uuid.UUID) (*learning.Enrollment, error)

	GetEnrollment(ctx context.Context, studentID, baseID uuid.UUID) (*learning.Enrollment, error)
	ListEnrollments(ctx context.Context, studentID uuid.UUID) ([]*learning.Enrollment, error)
	ListVersionEnrollments(ctx context.Context, versionID uuid.UUID) ([]*learning.Enrollment, error)
}

// Messages surfaced verbatim to coaches.
const (
	MsgOnlyDraftCanGoLive    = "only draft courses can be made live"
	MsgCourseNotReady        = "course must have modules/tasks"
	MsgEnrollRequiresLive    = "students can only be enrolled in live courses"
	MsgAlreadyEnrolled       = "student already enrolled in this course"
	MsgLiveCourseNotEditable = "live courses cannot be edited; create a new version instead"
	MsgArchivedNotEditable   = "archived courses cannot be edited"
	MsgCourseTitleRequired   = "course title is required"
	MsgCourseVersionNotFound = "course version not found"
	MsgCourseNotFound        = "course not found"
	MsgEnrollmentNotFound    = "enrollment not found"
)
