package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/coachdesk-backend/internal/data/repos"
	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/coachdesk-backend/internal/domain/learning"
	"github.com/yungbote/coachdesk-backend/internal/platform/dbctx"
)

const courseVersionTable = "course_version"

type CourseVersionGraphDeps struct {
	Base BaseDeps

	Families repos.CourseFamilyRepo
	Versions repos.CourseVersionRepo
}

type courseVersionGraph struct {
	deps CourseVersionGraphDeps
}

func NewCourseVersionGraph(deps CourseVersionGraphDeps) domainagg.CourseVersionGraph {
	deps.Base = deps.Base.withDefaults()
	return &courseVersionGraph{deps: deps}
}

func (g *courseVersionGraph) Contract() domainagg.Contract {
	return domainagg.CourseVersionGraphContract
}

func (g *courseVersionGraph) configured(op string) error {
	if g.deps.Families == nil || g.deps.Versions == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "course version graph repos not configured", nil)
	}
	return nil
}

func (g *courseVersionGraph) CreateBase(ctx context.Context, content learning.CourseContent) (*learning.CourseVersion, error) {
	const op = "Learning.CourseVersionGraph.CreateBase"
	if err := g.configured(op); err != nil {
		return nil, err
	}
	content.Title = strings.TrimSpace(content.Title)
	if !content.HasTitle() {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, domainagg.MsgCourseTitleRequired, nil)
	}

	now := time.Now().UTC()
	v := &learning.CourseVersion{
		ID:             uuid.New(),
		BaseID:         uuid.New(),
		VersionNumber:  1,
		LifecycleState: learning.StateDraft,
		IsCurrent:      true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := v.SetCurriculum(content.Clone()); err != nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "course content could not be encoded", err)
	}

	err := executeWrite(ctx, g.deps.Base, op, func(dbc dbctx.Context) error {
		if err := g.deps.Families.Create(dbc, &learning.CourseFamily{
			BaseID:              v.BaseID,
			CurrentVersionID:    v.ID,
			LatestVersionNumber: v.VersionNumber,
			CreatedAt:           now,
			UpdatedAt:           now,
		}); err != nil {
			return err
		}
		return g.deps.Versions.Create(dbc, v)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (g *courseVersionGraph) Branch(ctx context.Context, baseID uuid.UUID) (*learning.CourseVersion, error) {
	const op = "Learning.CourseVersionGraph.Branch"
	if err := g.configured(op); err != nil {
		return nil, err
	}
	if baseID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing base_id", nil)
	}

	var out *learning.CourseVersion
	err := executeFamilyWrite(ctx, g.deps.Base, op, baseID, func(dbc dbctx.Context) error {
		fam, err := g.deps.Families.LockByBaseID(dbc, baseID)
		if err != nil {
			return err
		}
		if fam == nil {
			return NotFoundError(domainagg.MsgCourseNotFound)
		}
		cur, err := g.deps.Versions.GetCurrent(dbc, baseID)
		if err != nil {
			return err
		}
		if cur == nil {
			return NotFoundError("course has no current version")
		}
		content, err := cur.Curriculum()
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		next := &learning.CourseVersion{
			ID:             uuid.New(),
			BaseID:         baseID,
			VersionNumber:  fam.LatestVersionNumber + 1,
			LifecycleState: learning.StateDraft,
			IsCurrent:      true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := next.SetCurriculum(content.Clone()); err != nil {
			return err
		}

		// the old flag must be cleared before the insert or the current-version index rejects it
		if err := g.deps.Versions.ClearCurrent(dbc, baseID); err != nil {
			return err
		}
		if err := g.deps.Versions.Create(dbc, next); err != nil {
			return err
		}
		if err := g.deps.Families.UpdateFields(dbc, baseID, map[string]any{
			"current_version_id":    next.ID,
			"latest_version_number": next.VersionNumber,
		}); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *courseVersionGraph) Publish(ctx context.Context, versionID uuid.UUID) (*learning.CourseVersion, error) {
	const op = "Learning.CourseVersionGraph.Publish"
	baseID, err := g.familyOf(ctx, op, versionID)
	if err != nil {
		return nil, err
	}

	var out *learning.CourseVersion
	err = executeFamilyWrite(ctx, g.deps.Base, op, baseID, func(dbc dbctx.Context) error {
		v, err := g.lockVersion(dbc, baseID, versionID)
		if err != nil {
			return err
		}
		if err := RequireStateAllowed(string(v.LifecycleState), domainagg.MsgOnlyDraftCanGoLive, string(learning.StateDraft)); err != nil {
			return err
		}
		content, err := v.Curriculum()
		if err != nil {
			return err
		}
		if !content.Readiness().Ready {
			return ValidationError(domainagg.MsgCourseNotReady)
		}

		now := time.Now().UTC()
		ok, err := g.deps.Base.CASGuard.UpdateByState(dbc, courseVersionTable, "lifecycle_state", v.ID,
			[]string{string(learning.StateDraft)},
			map[string]any{
				"lifecycle_state": learning.StateLive,
				"published_at":    now,
				"updated_at":      now,
			})
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "course version changed while publishing"); err != nil {
			return err
		}
		v.LifecycleState = learning.StateLive
		v.PublishedAt = &now
		v.UpdatedAt = now
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *courseVersionGraph) Archive(ctx context.Context, versionID uuid.UUID) (*learning.CourseVersion, error) {
	const op = "Learning.CourseVersionGraph.Archive"
	baseID, err := g.familyOf(ctx, op, versionID)
	if err != nil {
		return nil, err
	}

	var out *learning.CourseVersion
	err = executeFamilyWrite(ctx, g.deps.Base, op, baseID, func(dbc dbctx.Context) error {
		v, err := g.lockVersion(dbc, baseID, versionID)
		if err != nil {
			return err
		}
		if err := g.archive(dbc, v); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *courseVersionGraph) ArchiveFamily(ctx context.Context, baseID uuid.UUID) ([]*learning.CourseVersion, error) {
	const op = "Learning.CourseVersionGraph.ArchiveFamily"
	if err := g.configured(op); err != nil {
		return nil, err
	}
	if baseID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing base_id", nil)
	}

	var out []*learning.CourseVersion
	err := executeFamilyWrite(ctx, g.deps.Base, op, baseID, func(dbc dbctx.Context) error {
		fam, err := g.deps.Families.LockByBaseID(dbc, baseID)
		if err != nil {
			return err
		}
		if fam == nil {
			return NotFoundError(domainagg.MsgCourseNotFound)
		}
		rows, err := g.deps.Versions.ListByBaseID(dbc, baseID)
		if err != nil {
			return err
		}
		out = out[:0]
		for _, v := range rows {
			if v.LifecycleState == learning.StateArchived {
				continue
			}
			if err := g.archive(dbc, v); err != nil {
				return err
			}
			out = append(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// archive moves v to archived in place. Already archived versions are left untouched.
func (g *courseVersionGraph) archive(dbc dbctx.Context, v *learning.CourseVersion) error {
	if v.LifecycleState == learning.StateArchived {
		return nil
	}
	now := time.Now().UTC()
	ok, err := g.deps.Base.CASGuard.UpdateByState(dbc, courseVersionTable, "lifecycle_state", v.ID,
		[]string{string(learning.StateDraft), string(learning.StateLive)},
		map[string]any{
			"lifecycle_state": learning.StateArchived,
			"archived_at":     now,
			"updated_at":      now,
		})
	if err != nil {
		return err
	}
	if err := RequireCASSuccess(ok, "course version changed while archiving"); err != nil {
		return err
	}
	v.LifecycleState = learning.StateArchived
	v.ArchivedAt = &now
	v.UpdatedAt = now
	return nil
}

func (g *courseVersionGraph) Update(ctx context.Context, versionID uuid.UUID, patch learning.ContentPatch) (*learning.CourseVersion, error) {
	const op = "Learning.CourseVersionGraph.Update"
	baseID, err := g.familyOf(ctx, op, versionID)
	if err != nil {
		return nil, err
	}

	var out *learning.CourseVersion
	err = executeFamilyWrite(ctx, g.deps.Base, op, baseID, func(dbc dbctx.Context) error {
		v, err := g.lockVersion(dbc, baseID, versionID)
		if err != nil {
			return err
		}
		switch v.LifecycleState {
		case learning.StateLive:
			return InvalidStateError(domainagg.MsgLiveCourseNotEditable)
		case learning.StateArchived:
			return InvalidStateError(domainagg.MsgArchivedNotEditable)
		}
		content, err := v.Curriculum()
		if err != nil {
			return err
		}
		next := patch.Apply(content)
		if !next.HasTitle() {
			return ValidationError(domainagg.MsgCourseTitleRequired)
		}
		if err := v.SetCurriculum(next); err != nil {
			return err
		}

		var coach any
		if v.CoachID != nil {
			coach = *v.CoachID
		}
		now := time.Now().UTC()
		ok, err := g.deps.Base.CASGuard.UpdateByState(dbc, courseVersionTable, "lifecycle_state", v.ID,
			[]string{string(learning.StateDraft)},
			map[string]any{
				"title":       v.Title,
				"description": v.Description,
				"coach_id":    coach,
				"content":     v.Content,
				"updated_at":  now,
			})
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "course version changed while editing"); err != nil {
			return err
		}
		v.UpdatedAt = now
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// familyOf resolves the immutable base id of a version before the family lock is taken.
func (g *courseVersionGraph) familyOf(ctx context.Context, op string, versionID uuid.UUID) (uuid.UUID, error) {
	if err := g.configured(op); err != nil {
		return uuid.Nil, err
	}
	if versionID == uuid.Nil {
		return uuid.Nil, domainagg.NewError(domainagg.CodeValidation, op, "missing course_version_id", nil)
	}
	v, err := g.deps.Versions.GetByID(dbctx.Context{Ctx: ctx}, versionID)
	if err != nil {
		return uuid.Nil, MapError(op, err)
	}
	if v == nil {
		return uuid.Nil, domainagg.NewError(domainagg.CodeNotFound, op, domainagg.MsgCourseVersionNotFound, nil)
	}
	return v.BaseID, nil
}

// lockVersion takes the family row lock, then re-reads the version inside the transaction.
func (g *courseVersionGraph) lockVersion(dbc dbctx.Context, baseID, versionID uuid.UUID) (*learning.CourseVersion, error) {
	fam, err := g.deps.Families.LockByBaseID(dbc, baseID)
	if err != nil {
		return nil, err
	}
	if fam == nil {
		return nil, NotFoundError(domainagg.MsgCourseNotFound)
	}
	v, err := g.deps.Versions.LockByID(dbc, versionID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, NotFoundError(domainagg.MsgCourseVersionNotFound)
	}
	return v, nil
}

func (g *courseVersionGraph) GetCurrent(ctx context.Context, baseID uuid.UUID) (*learning.CourseVersion, error) {
	const op = "Learning.CourseVersionGraph.GetCurrent"
	if err := g.configured(op); err != nil {
		return nil, err
	}
	v, err := g.deps.Versions.GetCurrent(dbctx.Context{Ctx: ctx}, baseID)
	return v, MapError(op, err)
}

func (g *courseVersionGraph) GetVersion(ctx context.Context, baseID uuid.UUID, versionNumber int) (*learning.CourseVersion, error) {
	const op = "Learning.CourseVersionGraph.GetVersion"
	if err := g.configured(op); err != nil {
		return nil, err
	}
	v, err := g.deps.Versions.GetByNumber(dbctx.Context{Ctx: ctx}, baseID, versionNumber)
	return v, MapError(op, err)
}

func (g *courseVersionGraph) GetByID(ctx context.Context, versionID uuid.UUID) (*learning.CourseVersion, error) {
	const op = "Learning.CourseVersionGraph.GetByID"
	if err := g.configured(op); err != nil {
		return nil, err
	}
	v, err := g.deps.Versions.GetByID(dbctx.Context{Ctx: ctx}, versionID)
	return v, MapError(op, err)
}

func (g *courseVersionGraph) ListVersions(ctx context.Context, baseID uuid.UUID) ([]*learning.CourseVersion, error) {
	const op = "Learning.CourseVersionGraph.ListVersions"
	if err := g.configured(op); err != nil {
		return nil, err
	}
	rows, err := g.deps.Versions.ListByBaseID(dbctx.Context{Ctx: ctx}, baseID)
	return rows, MapError(op, err)
}
