package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/models/dto"
	"github.com/yigit/codetrack/internal/app/services"
	"github.com/yigit/codetrack/internal/middleware"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

const snapshotDateLayout = "2006-01-02"

// SnapshotController handles snapshot submission and the counsellor review queue
type SnapshotController struct {
	reviews *services.ReviewService
}

// NewSnapshotController creates a new SnapshotController
func NewSnapshotController(reviews *services.ReviewService) *SnapshotController {
	return &SnapshotController{reviews: reviews}
}

// Submit records a pending snapshot for one of the caller's accounts
// @Summary Submit a snapshot
// @Description Creates a pending snapshot and notifies the student's counsellor
// @Tags snapshots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitSnapshotRequest true "Metrics for one day"
// @Success 201 {object} dto.APIResponse{data=models.Snapshot}
// @Failure 403 {object} dto.ErrorResponse "Account belongs to someone else"
// @Failure 409 {object} dto.ErrorResponse "Snapshot for that date already exists"
// @Router /snapshots [post]
func (c *SnapshotController) Submit(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	var req dto.SubmitSnapshotRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	date, err := time.Parse(snapshotDateLayout, req.SnapshotDate)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("snapshotDate must be YYYY-MM-DD"))
		return
	}

	snapshot, err := c.reviews.Submit(ctx.Request.Context(), identity, services.SubmitSnapshotInput{
		AccountID: req.PlatformAccountID,
		Metrics: models.SnapshotMetrics{
			TotalSolved:   *req.TotalSolved,
			ContestRating: req.ContestRating,
			GlobalRank:    req.GlobalRank,
		},
		Date: date,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, snapshot, "Snapshot submitted for review")
}

// ListByAccount lists the snapshots of one of the caller's accounts, newest
// first, optionally filtered by ?status=
func (c *SnapshotController) ListByAccount(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	accountID, valid := middleware.ParseIDParam(ctx, "accountId")
	if !valid {
		return
	}

	var status *models.SnapshotStatus
	if raw := ctx.Query("status"); raw != "" {
		s := models.SnapshotStatus(raw)
		switch s {
		case models.SnapshotPending, models.SnapshotApproved, models.SnapshotRejected:
			status = &s
		default:
			middleware.HandleAPIError(ctx, apperrors.NewValidationError("status must be one of: pending, approved, rejected"))
			return
		}
	}

	snapshots, err := c.reviews.ListSnapshots(ctx.Request.Context(), identity, accountID, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, snapshots)
}

// Latest returns the newest snapshot of one of the caller's accounts
func (c *SnapshotController) Latest(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	accountID, valid := middleware.ParseIDParam(ctx, "accountId")
	if !valid {
		return
	}

	snapshot, err := c.reviews.LatestSnapshot(ctx.Request.Context(), identity, accountID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, snapshot)
}

// Pending lists the pending snapshots of the caller's assigned students
func (c *SnapshotController) Pending(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}

	queue, err := c.reviews.PendingQueue(ctx.Request.Context(), identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, queue)
}

// Approve approves a pending snapshot
// @Summary Approve a snapshot
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Snapshot ID"
// @Success 200 {object} dto.APIResponse{data=models.Snapshot}
// @Failure 403 {object} dto.ErrorResponse "Student is not assigned to the caller"
// @Failure 409 {object} dto.ErrorResponse "Snapshot already reviewed"
// @Router /reviews/{id}/approve [put]
func (c *SnapshotController) Approve(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}

	snapshot, err := c.reviews.Approve(ctx.Request.Context(), identity, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, snapshot, "Snapshot approved")
}

// Reject rejects a pending snapshot. The body is optional.
func (c *SnapshotController) Reject(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	var req dto.RejectSnapshotRequest
	if ctx.Request.ContentLength > 0 && !middleware.BindJSON(ctx, &req) {
		return
	}

	snapshot, err := c.reviews.Reject(ctx.Request.Context(), identity, id, req.Remarks)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, snapshot, "Snapshot rejected")
}
