package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/codetrack/internal/app/models/dto"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
	"github.com/yigit/codetrack/internal/pkg/logger"
)

// StatusForKind maps an outcome kind to its HTTP status
func StatusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindForbidden, apperrors.KindPermissionDenied:
		return http.StatusForbidden
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindInvalidTarget:
		return http.StatusUnprocessableEntity
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// HandleAPIError writes the error response for err. Internal failures are logged
// and reported without their message.
func HandleAPIError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := StatusForKind(kind)

	if kind == apperrors.KindInternal {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
		c.JSON(status, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, kind, "Internal server error")))
		return
	}

	code := dto.CodeForKind(kind)
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		code = dto.ErrorCodeInvalidCredentials
	case errors.Is(err, apperrors.ErrTokenExpired):
		code = dto.ErrorCodeExpiredToken
	case errors.Is(err, apperrors.ErrTokenInvalid):
		code = dto.ErrorCodeInvalidToken
	case errors.Is(err, apperrors.ErrAccountDisabled):
		code = dto.ErrorCodeAccountDisabled
	}

	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, kind, err.Error())))
}
