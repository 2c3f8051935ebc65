package portalserver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	shelterclient "github.com/Apurer/go-dog-portal/internal/clients/http/shelter"
	dogapp "github.com/Apurer/go-dog-portal/internal/domains/dogs/application"
	dogs "github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
	sessionports "github.com/Apurer/go-dog-portal/internal/domains/sessions/ports"
	apierrors "github.com/Apurer/go-dog-portal/internal/shared/errors"
)

const (
	loginPath            = "/login"
	redirectDelaySeconds = 3
)

// problems maps application and upstream errors to RFC 7807 responses.
var problems = apierrors.NewChainedResponder("",
	mapSessionError,
	mapInputError,
	mapNavigationError,
	mapUpstreamError,
)

// SetLogger makes 5xx problems visible in the process log.
func SetLogger(logger *slog.Logger) {
	problems.SetLogger(logger)
}

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	problems.Respond(c, problem)
}

// respondBadRequest answers 400 for malformed path or query input.
func respondBadRequest(c *gin.Context, err error) {
	if err == nil {
		return
	}
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

// respondServiceError runs err through the mapper chain.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

func mapSessionError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, sessionports.ErrNotFound) {
		return apierrors.NewSessionExpiredProblem("no active session, please log in", loginPath, 0), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapInputError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, dogapp.ErrInvalidInput) ||
		errors.Is(err, dogs.ErrEmptyDogID) ||
		errors.Is(err, dogs.ErrNegativeAge) {
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapNavigationError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, dogapp.ErrNoNextPage) || errors.Is(err, dogapp.ErrNoPrevPage) {
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// mapUpstreamError turns shelter API failures into 401 (expired login, with a
// delayed redirect hint) or retryable 502/504 problems.
func mapUpstreamError(err error) (apierrors.ProblemDetail, bool) {
	if shelterclient.IsUnauthorized(err) {
		return apierrors.NewSessionExpiredProblem("shelter session expired, please log in again", loginPath, redirectDelaySeconds), true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewRetryableProblem(apierrors.ErrGatewayTimeout, err.Error()), true
	}
	var httpErr *shelterclient.HTTPError
	if errors.As(err, &httpErr) {
		return apierrors.NewRetryableProblem(apierrors.ErrBadGateway, httpErr.Error()).
			WithExtension("upstreamStatus", httpErr.Status), true
	}
	var netErr *shelterclient.NetworkError
	var decodeErr *shelterclient.DecodeError
	if errors.As(err, &netErr) || errors.As(err, &decodeErr) || errors.Is(err, dogs.ErrEmptyMatch) {
		return apierrors.NewRetryableProblem(apierrors.ErrBadGateway, err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
