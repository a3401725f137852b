package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

func serve(t *testing.T, responder *ChainedResponder, err error) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/", nil)
	responder.RespondError(c, err)

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestChainedResponder_UsesFirstMatchingMapper(t *testing.T) {
	responder := NewChainedResponder("", func(err error) (ProblemDetail, bool) {
		if errors.Is(err, errSentinel) {
			return ErrInvalidTransition.WithDetail(err.Error()), true
		}
		return ProblemDetail{}, false
	})

	rec, problem := serve(t, responder, errSentinel)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, TypeInvalidTransition, problem.Type)
	require.Equal(t, "/reports/", problem.Instance)
}

func TestChainedResponder_FallsBackToInternal(t *testing.T) {
	var logs bytes.Buffer
	responder := NewChainedResponder("https://bdo.example").WithLogger(slog.New(slog.NewJSONHandler(&logs, nil)))

	rec, problem := serve(t, responder, errors.New("connection reset by peer"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "https://bdo.example"+TypeInternal, problem.Type)
	require.NotContains(t, problem.Detail, "connection reset")
	require.Contains(t, logs.String(), "connection reset by peer")
	require.Contains(t, logs.String(), `"path":"/reports/"`)
}

func TestChainedResponder_PassesProblemDetailsThrough(t *testing.T) {
	rec, problem := serve(t, NewChainedResponder(""), ErrInvalidFilter.WithDetail("year must be an integer"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "year must be an integer", problem.Detail)
	require.Empty(t, rec.Header().Get("WWW-Authenticate"))
}

func TestChainedResponder_ChallengesUnauthorized(t *testing.T) {
	rec, problem := serve(t, NewChainedResponder(""), ErrUnauthorized.WithDetail("Invalid credentials"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	require.Equal(t, TypeUnauthorized, problem.Type)
}

func TestWithExtension_DoesNotMutateTemplate(t *testing.T) {
	withReason := ErrInvalidTransition.WithExtension("reason", "x")
	require.Nil(t, ErrInvalidTransition.Extensions)
	require.Equal(t, "x", withReason.Extensions["reason"])
	require.Equal(t, "Invalid Status Transition", withReason.Error())
}
