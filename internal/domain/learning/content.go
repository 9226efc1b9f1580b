package learning

import (
	"strings"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskVideo      TaskType = "video"
	TaskReading    TaskType = "reading"
	TaskQuiz       TaskType = "quiz"
	TaskAssignment TaskType = "assignment"
)

// CourseContent is the coach-editable part of a version. The version graph only
// looks inside it for the title and for module/task counts.
type CourseContent struct {
	Title       string     `json:"title" yaml:"title" validate:"required,max=200"`
	Description string     `json:"description" yaml:"description" validate:"max=5000"`
	CoachID     *uuid.UUID `json:"coach_id,omitempty" yaml:"coach_id,omitempty"`
	Modules     []Module   `json:"modules" yaml:"modules" validate:"dive"`
}

type Module struct {
	Title       string `json:"title" yaml:"title" validate:"required,max=200"`
	Description string `json:"description" yaml:"description"`
	Order       int    `json:"order" yaml:"order" validate:"min=0"`
	Tasks       []Task `json:"tasks" yaml:"tasks" validate:"dive"`
}

type Task struct {
	Title             string   `json:"title" yaml:"title" validate:"required,max=200"`
	Description       string   `json:"description" yaml:"description"`
	Type              TaskType `json:"type" yaml:"type" validate:"required,oneof=video reading quiz assignment"`
	MinutesToComplete *int     `json:"minutes_to_complete,omitempty" yaml:"minutes_to_complete,omitempty" validate:"omitempty,min=0"`
	Order             int      `json:"order" yaml:"order" validate:"min=0"`
}

type Readiness struct {
	Modules int  `json:"modules"`
	Tasks   int  `json:"tasks"`
	Ready   bool `json:"ready"`
}

// Readiness reports whether the content may go live: at least one module and at
// least one task across all modules.
func (c CourseContent) Readiness() Readiness {
	r := Readiness{Modules: len(c.Modules)}
	for _, m := range c.Modules {
		r.Tasks += len(m.Tasks)
	}
	r.Ready = r.Modules > 0 && r.Tasks > 0
	return r
}

func (c CourseContent) HasTitle() bool {
	return strings.TrimSpace(c.Title) != ""
}

// Clone deep-copies c so a branch never aliases its source's slices.
func (c CourseContent) Clone() CourseContent {
	out := c
	if c.CoachID != nil {
		id := *c.CoachID
		out.CoachID = &id
	}
	out.Modules = make([]Module, len(c.Modules))
	for i, m := range c.Modules {
		mc := m
		mc.Tasks = make([]Task, len(m.Tasks))
		for j, t := range m.Tasks {
			tc := t
			if t.MinutesToComplete != nil {
				n := *t.MinutesToComplete
				tc.MinutesToComplete = &n
			}
			mc.Tasks[j] = tc
		}
		out.Modules[i] = mc
	}
	return out
}

// ContentPatch is a partial edit of a draft. Nil fields are left untouched;
// Modules, when set, replaces the whole curriculum.
type ContentPatch struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	CoachID     *uuid.UUID `json:"coach_id,omitempty"`
	ClearCoach  bool       `json:"clear_coach,omitempty"`
	Modules     *[]Module  `json:"modules,omitempty" validate:"omitempty,dive"`
}

func (p ContentPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.CoachID == nil && !p.ClearCoach && p.Modules == nil
}

// Apply returns c with the patch applied.
func (p ContentPatch) Apply(c CourseContent) CourseContent {
	out := c.Clone()
	if p.Title != nil {
		out.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.ClearCoach {
		out.CoachID = nil
	}
	if p.CoachID != nil {
		id := *p.CoachID
		out.CoachID = &id
	}
	if p.Modules != nil {
		out.Modules = CourseContent{Modules: *p.Modules}.Clone().Modules
	}
	return out
}
