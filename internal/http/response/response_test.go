package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/coachdesk-backend/internal/platform/ctxutil"
)

func newContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := ctxutil.WithRequestIDs(context.Background(), ctxutil.RequestIDs{RequestID: "req-7"})
	c.Request = req.WithContext(ctx)
	return c, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}

func TestRespondAPIErrorUsesAggregateMessage(t *testing.T) {
	c, rec := newContext(t)
	RespondAPIError(c, domainagg.NewError(domainagg.CodeInvalidState, "Learning.CourseVersionGraph.Publish", domainagg.MsgOnlyDraftCanGoLive, nil))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeEnvelope(t, rec)
	require.Equal(t, APIError{Message: domainagg.MsgOnlyDraftCanGoLive, Code: "invalid_state", RequestID: "req-7"}, body)
	require.Len(t, c.Errors, 1)
}

func TestRespondAPIErrorHidesServerFailures(t *testing.T) {
	c, rec := newContext(t)
	RespondAPIError(c, domainagg.Wrap(domainagg.CodeIO, "Learning.EnrollmentBinder.Enroll", errors.New("dial tcp 10.0.0.3:5432: connection refused")))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeEnvelope(t, rec)
	require.Equal(t, "io", body.Code)
	require.Equal(t, http.StatusText(http.StatusServiceUnavailable), body.Message)
}

func TestRespondAPIErrorNilIsInternal(t *testing.T) {
	c, rec := newContext(t)
	RespondAPIError(c, nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "internal", decodeEnvelope(t, rec).Code)
	require.Empty(t, c.Errors)
}

func TestRespondBadRequestAttachesCause(t *testing.T) {
	c, rec := newContext(t)
	RespondBadRequest(c, "invalid request body", errors.New("unexpected EOF"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid request body", decodeEnvelope(t, rec).Message)
	require.Len(t, c.Errors, 1)
}
