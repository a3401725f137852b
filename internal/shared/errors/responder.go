package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper maps domain/application errors to ProblemDetail.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder writes Problem Details for errors, trying each mapper in
// order. Errors no mapper recognises become a 500 whose detail stays in the
// log.
type ChainedResponder struct {
	// BaseURI is prepended to problem type URIs if they are relative.
	BaseURI string
	logger  *slog.Logger
	mappers []ErrorMapper
}

func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{BaseURI: baseURI, logger: slog.Default(), mappers: mappers}
}

// WithLogger sets where unmapped errors are reported.
func (r *ChainedResponder) WithLogger(logger *slog.Logger) *ChainedResponder {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Respond writes problem with the problem+json content type. 401 answers carry
// a bearer challenge.
func (r *ChainedResponder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	if problem.Status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError maps err through the chain. ProblemDetail values pass through
// unchanged.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	ctx := context.Background()
	attrs := []any{slog.String("error", err.Error())}
	if c.Request != nil {
		ctx = c.Request.Context()
		attrs = append(attrs, slog.String("method", c.Request.Method), slog.String("path", c.Request.URL.Path))
	}
	r.logger.ErrorContext(ctx, "unhandled error", attrs...)
	r.Respond(c, ErrInternal.WithDetail("An unexpected error occurred"))
}
