package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/coachdesk-backend/internal/domain/learning"
)

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }

// ReadyContent is the smallest curriculum that can be published.
func ReadyContent(title string) types.CourseContent {
	return types.CourseContent{
		Title:       title,
		Description: title + " description",
		Modules: []types.Module{{
			Title: "Module 1",
			Tasks: []types.Task{{Title: "Task 1", Type: types.TaskReading}},
		}},
	}
}

func SeedFamily(tb testing.TB, ctx context.Context, tx *gorm.DB, currentVersionID uuid.UUID, latest int) *types.CourseFamily {
	tb.Helper()
	f := &types.CourseFamily{
		BaseID:              uuid.New(),
		CurrentVersionID:    currentVersionID,
		LatestVersionNumber: latest,
		CreatedAt:           time.Now().UTC(),
		UpdatedAt:           time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed family: %v", err)
	}
	return f
}

func SeedCourseVersion(tb testing.TB, ctx context.Context, tx *gorm.DB, baseID uuid.UUID, number int, state types.LifecycleState, current bool) *types.CourseVersion {
	tb.Helper()
	v := &types.CourseVersion{
		ID:             uuid.New(),
		BaseID:         baseID,
		VersionNumber:  number,
		LifecycleState: state,
		IsCurrent:      current,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := v.SetCurriculum(ReadyContent("course")); err != nil {
		tb.Fatalf("seed course version content: %v", err)
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed course version: %v", err)
	}
	return v
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID uuid.UUID, v *types.CourseVersion, at time.Time) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{
		ID:              uuid.New(),
		StudentID:       studentID,
		BaseID:          v.BaseID,
		CourseVersionID: v.ID,
		EnrolledAt:      at.UTC(),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}
