package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/codetrack/internal/app/models/dto"
	"github.com/yigit/codetrack/internal/app/services"
	"github.com/yigit/codetrack/internal/middleware"
)

// DepartmentController handles department-related operations
type DepartmentController struct {
	departmentService *services.DepartmentService
	analyticsService  *services.AnalyticsService
}

// NewDepartmentController creates a new DepartmentController
func NewDepartmentController(departmentService *services.DepartmentService, analyticsService *services.AnalyticsService) *DepartmentController {
	return &DepartmentController{
		departmentService: departmentService,
		analyticsService:  analyticsService,
	}
}

// CreateDepartment handles department creation
// @Summary Create a new department
// @Description Creates a new department. Admin only.
// @Tags departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDepartmentRequest true "Department information"
// @Success 201 {object} dto.APIResponse{data=models.Department} "Department created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 409 {object} dto.ErrorResponse "Department already exists"
// @Router /departments [post]
func (c *DepartmentController) CreateDepartment(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	var req dto.CreateDepartmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	department, err := c.departmentService.CreateDepartment(ctx.Request.Context(), identity, req.Name, req.Code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, department, "Department created successfully")
}

// GetDepartmentByID retrieves a department by ID
// @Summary Get department by ID
// @Tags departments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} dto.APIResponse{data=models.Department} "Department retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /departments/{id} [get]
func (c *DepartmentController) GetDepartmentByID(ctx *gin.Context) {
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}

	department, err := c.departmentService.GetDepartmentByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, department)
}

// GetAllDepartments retrieves all departments
func (c *DepartmentController) GetAllDepartments(ctx *gin.Context) {
	departments, err := c.departmentService.GetAllDepartments(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, departments)
}

// DeleteDepartment removes a department without students. Admin only.
func (c *DepartmentController) DeleteDepartment(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}

	if err := c.departmentService.DeleteDepartment(ctx.Request.Context(), identity, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Department deleted successfully")
}

// GetLeaderboard ranks the students of a department by problems solved
// @Summary Department leaderboard
// @Tags departments, analytics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} dto.APIResponse{data=services.DepartmentLeaderboard}
// @Failure 403 {object} dto.ErrorResponse "Caller may not view this department"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /departments/{id}/leaderboard [get]
func (c *DepartmentController) GetLeaderboard(ctx *gin.Context) {
	identity, found := caller(ctx)
	if !found {
		return
	}
	id, valid := middleware.ParseIDParam(ctx, "id")
	if !valid {
		return
	}

	board, err := c.analyticsService.DepartmentLeaderboard(ctx.Request.Context(), identity, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, board)
}
