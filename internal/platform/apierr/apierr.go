package apierr

import (
	"errors"
	"fmt"
	"net/http"

	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError classifies err into an HTTP status and a stable error kind.
// The message is the aggregate's human message when present.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var aggErr *domainagg.Error
	if !errors.As(err, &aggErr) {
		return New(http.StatusInternalServerError, string(domainagg.CodeInternal), err)
	}
	msg := errors.New(aggErr.Message)
	if aggErr.Message == "" {
		msg = err
	}
	return New(StatusFor(aggErr.Code), string(aggErr.Code), msg)
}

func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodeInvalidState:
		return http.StatusUnprocessableEntity
	case domainagg.CodeIO:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
