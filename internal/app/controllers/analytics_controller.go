package controllers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/services"
	"github.com/yigit/codetrack/internal/middleware"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

// AnalyticsController serves the student, advisor, counsellor and institution
// dashboards
type AnalyticsController struct {
	analytics *services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analytics *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analytics: analytics}
}

// view adapts an analytics call that only needs the caller
func view[T any](fn func(context.Context, models.Identity) (T, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, found := caller(ctx)
		if !found {
			return
		}
		out, err := fn(ctx.Request.Context(), identity)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ok(ctx, out)
	}
}

// MySummary is the caller's own dashboard
func (c *AnalyticsController) MySummary() gin.HandlerFunc {
	return view(c.analytics.MySummary)
}

// AdvisorStudents lists the students advised by the caller
func (c *AnalyticsController) AdvisorStudents() gin.HandlerFunc {
	return view(c.analytics.AdvisorStudents)
}

// CounsellorSummary aggregates the counsellor's department
func (c *AnalyticsController) CounsellorSummary() gin.HandlerFunc {
	return view(c.analytics.CounsellorSummary)
}

// CounsellorStudents lists the counsellor's department with risk flags
func (c *AnalyticsController) CounsellorStudents() gin.HandlerFunc {
	return view(c.analytics.CounsellorStudents)
}

// CounsellorAtRisk lists at-risk students of the counsellor's department
func (c *AnalyticsController) CounsellorAtRisk() gin.HandlerFunc {
	return view(c.analytics.CounsellorAtRisk)
}

// InstitutionSummary is the admin overview
func (c *AnalyticsController) InstitutionSummary() gin.HandlerFunc {
	return view(c.analytics.InstitutionSummary)
}

// DepartmentPerformance compares every department
func (c *AnalyticsController) DepartmentPerformance() gin.HandlerFunc {
	return view(c.analytics.DepartmentPerformance)
}

// InstitutionAtRisk lists at-risk students across the institution
func (c *AnalyticsController) InstitutionAtRisk() gin.HandlerFunc {
	return view(c.analytics.InstitutionAtRisk)
}

// AccountGrowth compares the two latest approved snapshots of an account
// @Summary Account growth
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param accountId path int true "Platform account ID"
// @Success 200 {object} dto.APIResponse{data=analytics.Growth}
// @Failure 404 {object} dto.ErrorResponse "Fewer than two approved snapshots"
// @Router /analytics/accounts/{accountId}/growth [get]
func (c *AnalyticsController) AccountGrowth(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	accountID, valid := middleware.ParseIDParam(ctx, "accountId")
	if !valid {
		return
	}

	growth, err := c.analytics.AccountGrowth(ctx.Request.Context(), identity, accountID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, growth)
}

// AdvisorStudentDetail is the dashboard of one advised student
func (c *AnalyticsController) AdvisorStudentDetail(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	studentID, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}

	detail, err := c.analytics.AdvisorStudentDetail(ctx.Request.Context(), identity, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, detail)
}

// TopPerformers ranks students across the institution. ?limit= overrides the
// configured size.
func (c *AnalyticsController) TopPerformers(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}

	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError("limit must be a positive number"))
			return
		}
		limit = n
	}

	top, err := c.analytics.TopPerformers(ctx.Request.Context(), identity, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, top)
}
