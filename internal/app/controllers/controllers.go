// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/models/dto"
	"github.com/yigit/codetrack/internal/middleware"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

// caller returns the resolved identity or writes a 401
func caller(ctx *gin.Context) (models.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return models.Identity{}, false
	}
	return identity, true
}

func respond(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, dto.NewSuccessResponse(data, message))
}

func ok(ctx *gin.Context, data interface{}) {
	respond(ctx, http.StatusOK, data, "")
}
