package bdoserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	dashapp "github.com/bdotrack/bdo-api/internal/domains/dashboard/application"
	reportsapp "github.com/bdotrack/bdo-api/internal/domains/reports/application"
	userapp "github.com/bdotrack/bdo-api/internal/domains/users/application"
	userports "github.com/bdotrack/bdo-api/internal/domains/users/ports"
	apierrors "github.com/bdotrack/bdo-api/internal/shared/errors"
)

// responder maps errors from every bounded context to RFC 7807 problems.
var responder = apierrors.NewChainedResponder("",
	mapAuthError,
	mapReportError,
	mapDashboardError,
	mapUserError,
)

// SetErrorLogger routes errors no mapper recognises to logger.
func SetErrorLogger(logger *slog.Logger) {
	responder.WithLogger(logger)
}

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondServiceError maps application errors, falling back to 500.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// respondError preserves status-based call sites while returning RFC 7807 responses.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error())
	case http.StatusForbidden:
		problem = apierrors.ErrForbidden.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}

// respondBindError reports request binding failures, listing each rejected field.
func respondBindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fe.Tag()
	}
	respondProblem(c, apierrors.NewValidationProblem(fields).WithDetail("request body failed validation"))
}

func mapAuthError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, userapp.ErrInactiveUser):
		return apierrors.ErrUnauthorized.WithDetail(userapp.ErrInactiveUser.Error()), true
	case errors.Is(err, userapp.ErrUnauthorized):
		return apierrors.ErrUnauthorized.WithDetail("Invalid credentials"), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapReportError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, reportsapp.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("Report not found"), true
	case errors.Is(err, reportsapp.ErrInvalidStatus):
		return apierrors.ErrInvalidStatus.WithDetail(err.Error()), true
	case errors.Is(err, reportsapp.ErrInvalidTransition):
		return apierrors.ErrInvalidTransition.WithDetail(err.Error()), true
	case errors.Is(err, reportsapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, reportsapp.ErrCreationFailed):
		return apierrors.ErrCreationFailed.WithDetail("Report creation failed"), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapDashboardError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, dashapp.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail("Not enough permissions"), true
	case errors.Is(err, dashapp.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, dashapp.ErrInvalidFilter):
		return apierrors.ErrInvalidFilter.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapUserError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, userapp.ErrIncorrectUsername), errors.Is(err, userapp.ErrIncorrectPassword):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, userapp.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail("Unauthorized user"), true
	case errors.Is(err, userapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, userapp.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("User not found"), true
	case errors.Is(err, userapp.ErrUsernameExhausted), errors.Is(err, userports.ErrUsernameTaken):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
