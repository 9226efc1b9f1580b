package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
)

func TestFromErrorMapsAggregateCodes(t *testing.T) {
	cases := []struct {
		code   domainagg.ErrorCode
		status int
	}{
		{domainagg.CodeValidation, http.StatusBadRequest},
		{domainagg.CodeNotFound, http.StatusNotFound},
		{domainagg.CodeConflict, http.StatusConflict},
		{domainagg.CodeInvalidState, http.StatusUnprocessableEntity},
		{domainagg.CodeIO, http.StatusServiceUnavailable},
		{domainagg.CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := fmt.Errorf("handler: %w", domainagg.NewError(tc.code, "Course.Version.Publish", "boom", nil))
		got := FromError(err)
		if got.Status != tc.status || got.Code != string(tc.code) {
			t.Fatalf("%s: got status=%d code=%s", tc.code, got.Status, got.Code)
		}
		if got.Error() != "boom" {
			t.Fatalf("%s: message should be the aggregate message, got=%q", tc.code, got.Error())
		}
	}
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(errors.New("plain"))
	if got.Status != http.StatusInternalServerError || got.Code != "internal" {
		t.Fatalf("unexpected: %+v", got)
	}
	if FromError(nil) != nil {
		t.Fatalf("nil error should map to nil")
	}
}
