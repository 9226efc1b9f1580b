package learning

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LifecycleState string

const (
	StateDraft    LifecycleState = "draft"
	StateLive     LifecycleState = "live"
	StateArchived LifecycleState = "archived"
)

func (s LifecycleState) Valid() bool {
	switch s {
	case StateDraft, StateLive, StateArchived:
		return true
	}
	return false
}

// CourseFamily is the per-baseId anchor row. Mutations against a family lock it first;
// it also allocates version numbers and points at the current version.
type CourseFamily struct {
	BaseID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"base_id"`
	CurrentVersionID    uuid.UUID `gorm:"type:uuid;column:current_version_id;not null" json:"current_version_id"`
	LatestVersionNumber int       `gorm:"column:latest_version_number;not null" json:"latest_version_number"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null" json:"updated_at"`
}

func (CourseFamily) TableName() string { return "course_family" }

// CourseVersion is one immutable-once-live snapshot of a course.
// Title, description and coach are columns; the curriculum body lives in Content.
type CourseVersion struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BaseID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_course_version_number,unique,priority:1" json:"base_id"`
	VersionNumber   int            `gorm:"column:version_number;not null;index:idx_course_version_number,unique,priority:2" json:"version_number"`
	LifecycleState  LifecycleState `gorm:"column:lifecycle_state;not null;index" json:"lifecycle_state"`
	IsCurrent       bool           `gorm:"column:is_current;not null" json:"is_current"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Description     string         `gorm:"column:description;type:text;not null" json:"description"`
	CoachID         *uuid.UUID     `gorm:"type:uuid;column:coach_id;index" json:"coach_id,omitempty"`
	Content         datatypes.JSON `gorm:"column:content;not null" json:"content"`
	EnrollmentCount int            `gorm:"column:enrollment_count;not null" json:"enrollment_count"`
	PublishedAt     *time.Time     `gorm:"column:published_at" json:"published_at,omitempty"`
	ArchivedAt      *time.Time     `gorm:"column:archived_at" json:"archived_at,omitempty"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (CourseVersion) TableName() string { return "course_version" }

type curriculumBody struct {
	Modules []Module `json:"modules"`
}

// Curriculum assembles the structured content of this version.
func (v *CourseVersion) Curriculum() (CourseContent, error) {
	out := CourseContent{
		Title:       v.Title,
		Description: v.Description,
		CoachID:     v.CoachID,
	}
	if len(v.Content) == 0 {
		out.Modules = []Module{}
		return out, nil
	}
	var body curriculumBody
	if err := json.Unmarshal(v.Content, &body); err != nil {
		return CourseContent{}, err
	}
	if body.Modules == nil {
		body.Modules = []Module{}
	}
	out.Modules = body.Modules
	return out, nil
}

// SetCurriculum writes every content field of c onto the version.
func (v *CourseVersion) SetCurriculum(c CourseContent) error {
	mods := c.Modules
	if mods == nil {
		mods = []Module{}
	}
	raw, err := json.Marshal(curriculumBody{Modules: mods})
	if err != nil {
		return err
	}
	v.Title = c.Title
	v.Description = c.Description
	v.CoachID = c.CoachID
	v.Content = datatypes.JSON(raw)
	return nil
}

// Enrollment pins a student to one exact CourseVersion. BaseID is copied from the
// pinned version so "enrolled in any version of this family" is a single lookup.
type Enrollment struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID       uuid.UUID `gorm:"type:uuid;column:student_id;not null;index:idx_enrollment_student_base,unique,priority:1" json:"student_id"`
	BaseID          uuid.UUID `gorm:"type:uuid;column:base_id;not null;index:idx_enrollment_student_base,unique,priority:2;index" json:"base_id"`
	CourseVersionID uuid.UUID `gorm:"type:uuid;column:course_version_id;not null;index" json:"course_version_id"`
	EnrolledAt      time.Time `gorm:"column:enrolled_at;not null;index" json:"enrolled_at"`
}

func (Enrollment) TableName() string { return "course_enrollment" }
