// Package response writes the JSON bodies every handler returns.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coachdesk-backend/internal/platform/apierr"
	"github.com/yungbote/coachdesk-backend/internal/platform/ctxutil"
)

// APIError is the body of every non-2xx response. RequestID matches the
// X-Request-Id header so a coach can quote it in a support ticket.
type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{
		Message:   message,
		Code:      code,
		RequestID: ctxutil.RequestIDsFrom(c.Request.Context()).RequestID,
	}})
}

// RespondAPIError maps err to a status, attaches it for the request logger and writes the
// envelope. 5xx bodies carry only the status text.
func RespondAPIError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	ae := apierr.FromError(err)
	if ae == nil {
		RespondError(c, http.StatusInternalServerError, "internal", "")
		return
	}
	msg := ""
	if ae.Status < http.StatusInternalServerError && ae.Err != nil {
		msg = ae.Err.Error()
	}
	RespondError(c, ae.Status, ae.Code, msg)
}

func RespondBadRequest(c *gin.Context, message string, cause error) {
	if cause != nil {
		_ = c.Error(cause)
	}
	RespondError(c, http.StatusBadRequest, "validation", message)
}

func RespondNotFound(c *gin.Context, message string) {
	RespondError(c, http.StatusNotFound, "not_found", message)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
