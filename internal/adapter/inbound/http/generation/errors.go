package generationhttp

import (
	"github.com/gin-gonic/gin"

	"github.com/mediaforge/server/internal/domain/generation"
	apperrors "github.com/mediaforge/server/internal/utils/errors"
)

// bind decodes the request into obj using the binding selected by method and
// content type. It writes a 400 and returns false on failure.
func bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		respondError(c, apperrors.ValidationError("invalid request body").
			WithDetails(map[string]any{"error": err.Error()}).
			WithError(err))
		return false
	}
	return true
}

// respondFailure writes a failed generation result.
func respondFailure(c *gin.Context, res *generation.Result) {
	respondError(c, failureError(res.Failure()))
}

func respondError(c *gin.Context, err *apperrors.AppError) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(err.StatusCode, err.ToResponse())
}

// failureError maps a generation failure to an application error.
func failureError(f *generation.Failure) *apperrors.AppError {
	if f == nil {
		return apperrors.Internal("generation failed", nil)
	}

	msg := f.UserMessage()
	var appErr *apperrors.AppError
	switch f.Kind {
	case generation.FailureInvalidRequest:
		appErr = apperrors.BadRequest(msg)
	case generation.FailureTransport:
		appErr = apperrors.ServiceUnavailable(msg)
	case generation.FailureUpstreamHTTP:
		appErr = apperrors.BadGateway(msg).WithUpstreamStatus(f.StatusCode)
	case generation.FailureUpstreamApplication:
		appErr = apperrors.UpstreamRejected(msg)
	case generation.FailureMalformedResponse:
		appErr = apperrors.BadGateway(msg)
	default:
		return apperrors.Internal(msg, nil)
	}
	return appErr.WithKind(f.Kind.String(), f.Retryable())
}
