package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/codetrack/internal/app/models/dto"
	"github.com/yigit/codetrack/internal/app/services"
	"github.com/yigit/codetrack/internal/middleware"
)

// PlatformController manages the caller's linked platform accounts
type PlatformController struct {
	platforms *services.PlatformService
}

// NewPlatformController creates a new PlatformController
func NewPlatformController(platforms *services.PlatformService) *PlatformController {
	return &PlatformController{platforms: platforms}
}

// Link attaches a coding platform account to the caller
// @Summary Link a platform account
// @Tags platforms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LinkPlatformRequest true "Platform and username"
// @Success 201 {object} dto.APIResponse{data=models.PlatformAccount}
// @Failure 400 {object} dto.ErrorResponse "Unsupported platform"
// @Failure 409 {object} dto.ErrorResponse "Platform already linked"
// @Router /platforms [post]
func (c *PlatformController) Link(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	var req dto.LinkPlatformRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	account, err := c.platforms.Link(ctx.Request.Context(), identity, req.Platform, req.Username)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, account, "Platform account linked successfully")
}

// ListMine lists the caller's platform accounts
func (c *PlatformController) ListMine(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}

	accounts, err := c.platforms.ListMine(ctx.Request.Context(), identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, accounts)
}

// Unlink removes a platform account and its snapshots
func (c *PlatformController) Unlink(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}

	if err := c.platforms.Unlink(ctx.Request.Context(), identity, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Platform account removed successfully")
}
