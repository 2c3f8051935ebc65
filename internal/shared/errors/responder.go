package errors

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// Responder provides methods to send Problem Details responses.
type Responder struct {
	// BaseURI is prepended to problem type URIs if they are relative.
	BaseURI string
	logger  *slog.Logger
}

// NewResponder creates a new problem responder with optional base URI.
func NewResponder(baseURI string) *Responder {
	return &Responder{BaseURI: baseURI, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// SetLogger routes 5xx problems to logger.
func (r *Responder) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Respond sends a ProblemDetail response with proper content type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && strings.HasPrefix(problem.Type, "/") {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	if problem.Status >= 500 {
		r.logger.LogAttrs(c.Request.Context(), slog.LevelError, "request failed",
			slog.String("problem.type", problem.Type),
			slog.Int("http.status", problem.Status),
			slog.String("http.path", problem.Instance),
			slog.String("detail", problem.Detail))
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError converts err to a ProblemDetail and responds. Problems pass
// through, validator failures become field-level validation problems and
// anything else is a 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		r.Respond(c, NewValidationProblem(FieldErrors(fieldErrs)))
		return
	}
	r.Respond(c, ErrInternal.WithDetail(err.Error()))
}

// BindingFailed answers a request whose body or query could not be bound:
// 400 with per-field details when validation tags failed, plain 400 otherwise.
func (r *Responder) BindingFailed(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		r.Respond(c, NewValidationProblem(FieldErrors(fieldErrs)).WithDetail("request failed validation"))
		return
	}
	r.Respond(c, ErrBadRequest.WithDetail(err.Error()))
}

// FieldErrors maps each failing field (lower camel JSON-ish name) to the tag
// it violated.
func FieldErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[lowerFirst(fe.Field())] = fe.Tag()
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ErrorMapper maps domain/application errors to ProblemDetail.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder supports custom error mapping.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(baseURI),
		mappers:   mappers,
	}
}

// RespondError tries each mapper before falling back to default handling.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	r.Responder.RespondError(c, err)
}
