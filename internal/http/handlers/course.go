package handlers

import (
	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/coachdesk-backend/internal/domain/learning"
	"github.com/yungbote/coachdesk-backend/internal/http/response"
	"github.com/yungbote/coachdesk-backend/internal/services"
)

type CourseHandler struct {
	lifecycle services.LifecycleManager
}

func NewCourseHandler(lifecycle services.LifecycleManager) *CourseHandler {
	return &CourseHandler{lifecycle: lifecycle}
}

// POST /api/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req learning.CourseContent
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, "invalid request body", err)
		return
	}
	v, err := h.lifecycle.CreateCourse(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"course_version": v})
}

// GET /api/course-versions/:id
func (h *CourseHandler) GetCourseVersion(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	v, err := h.lifecycle.GetCourse(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if v == nil {
		response.RespondNotFound(c, domainagg.MsgCourseVersionNotFound)
		return
	}
	response.RespondOK(c, gin.H{"course_version": v})
}

// PATCH /api/course-versions/:id
func (h *CourseHandler) EditCourseVersion(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var patch learning.ContentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondBadRequest(c, "invalid request body", err)
		return
	}
	v, err := h.lifecycle.EditCourse(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course_version": v})
}

// POST /api/course-versions/:id/publish
func (h *CourseHandler) PublishCourseVersion(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	v, err := h.lifecycle.Publish(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course_version": v})
}

// POST /api/course-versions/:id/archive
func (h *CourseHandler) ArchiveCourseVersion(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	v, err := h.lifecycle.Archive(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course_version": v})
}

// GET /api/course-versions/:id/readiness
func (h *CourseHandler) GetReadiness(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	r, err := h.lifecycle.Readiness(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"readiness": r})
}

// GET /api/courses/:baseId/current
func (h *CourseHandler) GetCurrent(c *gin.Context) {
	baseID, ok := uuidParam(c, "baseId")
	if !ok {
		return
	}
	v, err := h.lifecycle.GetCurrent(c.Request.Context(), baseID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if v == nil {
		response.RespondNotFound(c, domainagg.MsgCourseNotFound)
		return
	}
	response.RespondOK(c, gin.H{"course_version": v})
}

// GET /api/courses/:baseId/versions
func (h *CourseHandler) ListVersions(c *gin.Context) {
	baseID, ok := uuidParam(c, "baseId")
	if !ok {
		return
	}
	versions, err := h.lifecycle.ListVersions(c.Request.Context(), baseID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if versions == nil {
		versions = []*learning.CourseVersion{}
	}
	response.RespondOK(c, gin.H{"versions": versions})
}

// GET /api/courses/:baseId/versions/:number
func (h *CourseHandler) GetVersion(c *gin.Context) {
	baseID, ok := uuidParam(c, "baseId")
	if !ok {
		return
	}
	n, ok := intParam(c, "number")
	if !ok {
		return
	}
	v, err := h.lifecycle.GetVersion(c.Request.Context(), baseID, n)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if v == nil {
		response.RespondNotFound(c, domainagg.MsgCourseVersionNotFound)
		return
	}
	response.RespondOK(c, gin.H{"course_version": v})
}

// POST /api/courses/:baseId/versions
func (h *CourseHandler) CreateVersion(c *gin.Context) {
	baseID, ok := uuidParam(c, "baseId")
	if !ok {
		return
	}
	v, err := h.lifecycle.CreateVersion(c.Request.Context(), baseID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"course_version": v})
}

// POST /api/courses/:baseId/retire
func (h *CourseHandler) RetireCourse(c *gin.Context) {
	baseID, ok := uuidParam(c, "baseId")
	if !ok {
		return
	}
	archived, err := h.lifecycle.RetireCourse(c.Request.Context(), baseID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if archived == nil {
		archived = []*learning.CourseVersion{}
	}
	response.RespondOK(c, gin.H{"archived": archived})
}
