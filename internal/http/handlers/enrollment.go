package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coachdesk-backend/internal/domain/learning"
	"github.com/yungbote/coachdesk-backend/internal/http/response"
	"github.com/yungbote/coachdesk-backend/internal/services"
)

type EnrollmentHandler struct {
	enrollments services.EnrollmentService
}

func NewEnrollmentHandler(enrollments services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

type enrollRequest struct {
	StudentID       uuid.UUID `json:"student_id"`
	CourseVersionID uuid.UUID `json:"course_version_id"`
}

// POST /api/enrollments
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, "invalid request body", err)
		return
	}
	e, err := h.enrollments.Enroll(c.Request.Context(), req.StudentID, req.CourseVersionID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"enrollment": e})
}

// DELETE /api/students/:studentId/enrollments/:baseId
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	studentID, ok := uuidParam(c, "studentId")
	if !ok {
		return
	}
	baseID, ok := uuidParam(c, "baseId")
	if !ok {
		return
	}
	e, err := h.enrollments.Unenroll(c.Request.Context(), studentID, baseID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"enrollment": e})
}

// GET /api/students/:studentId/enrollments
func (h *EnrollmentHandler) ListStudentEnrollments(c *gin.Context) {
	studentID, ok := uuidParam(c, "studentId")
	if !ok {
		return
	}
	rows, err := h.enrollments.ListEnrollments(c.Request.Context(), studentID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	respondEnrollments(c, rows)
}

// GET /api/course-versions/:id/enrollments
func (h *EnrollmentHandler) ListVersionEnrollments(c *gin.Context) {
	versionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.enrollments.ListVersionEnrollments(c.Request.Context(), versionID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	respondEnrollments(c, rows)
}

func respondEnrollments(c *gin.Context, rows []*learning.Enrollment) {
	if rows == nil {
		rows = []*learning.Enrollment{}
	}
	response.RespondOK(c, gin.H{"enrollments": rows})
}
