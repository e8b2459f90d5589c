package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/models/dto"
	"github.com/yigit/codetrack/internal/app/services"
	"github.com/yigit/codetrack/internal/middleware"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

// StaffController exposes the delegation graph: staff creation, team listing
// and student assignment
type StaffController struct {
	delegation *services.DelegationService
}

// NewStaffController creates a new StaffController
func NewStaffController(delegation *services.DelegationService) *StaffController {
	return &StaffController{delegation: delegation}
}

// CreateStaff creates a staff member in a department
// @Summary Create a staff member
// @Description Admins create heads, heads create advisors of their department and advisors create counsellors of theirs
// @Tags staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStaffRequest true "Staff member"
// @Success 201 {object} dto.APIResponse{data=models.StaffAssignment}
// @Failure 403 {object} dto.ErrorResponse "Caller may not create this role"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 409 {object} dto.ErrorResponse "Email taken or department already has a head"
// @Router /staff [post]
func (c *StaffController) CreateStaff(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	var req dto.CreateStaffRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()))
		return
	}

	assignment, err := c.delegation.CreateStaff(ctx.Request.Context(), identity, role, req.DepartmentID, models.NewStaffIdentity{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, assignment, "Staff member created successfully")
}

// ListTeam lists the staff visible to the caller
func (c *StaffController) ListTeam(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}

	team, err := c.delegation.ListTeam(ctx.Request.Context(), identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, team)
}

// AssignAdvisorStudents links students to the advisor in the path
func (c *StaffController) AssignAdvisorStudents(ctx *gin.Context) {
	c.assign(ctx, c.delegation.AssignAdvisor)
}

// AssignCounsellorStudents links students to the counsellor in the path
func (c *StaffController) AssignCounsellorStudents(ctx *gin.Context) {
	c.assign(ctx, c.delegation.AssignCounsellor)
}

type assignFunc func(ctx context.Context, caller models.Identity, staffUserID int64, studentIDs []int64) (services.AssignmentResult, error)

func (c *StaffController) assign(ctx *gin.Context, fn assignFunc) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	staffUserID, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	var req dto.AssignStudentsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := fn(ctx.Request.Context(), identity, staffUserID, req.StudentIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.AssignmentResponse{
		AssignedCount: result.AssignedCount(),
		SkippedCount:  result.SkippedCount(),
		Assigned:      result.Assigned,
		Skipped:       result.Skipped,
	})
}

// AssignStudentDepartment moves a student into a department. Admin only.
func (c *StaffController) AssignStudentDepartment(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	studentID, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}
	var req dto.AssignDepartmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	out, err := c.delegation.AssignStudentDepartment(ctx.Request.Context(), identity, studentID, req.DepartmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, out)
}
