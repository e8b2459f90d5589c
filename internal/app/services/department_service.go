package services

import (
	"context"
	"fmt"
	"strings"

	appauth "github.com/yigit/codetrack/internal/app/auth"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/repositories"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
	"github.com/yigit/codetrack/internal/pkg/logger"
)

// DepartmentService handles department-related operations
type DepartmentService struct {
	store     repositories.Store
	authority *appauth.RoleAuthority
}

// NewDepartmentService creates a new department service instance
func NewDepartmentService(store repositories.Store, authority *appauth.RoleAuthority) *DepartmentService {
	return &DepartmentService{
		store:     store,
		authority: authority,
	}
}

// validateDepartment validates department data before database operations
func validateDepartment(department *models.Department) error {
	if department == nil {
		return apperrors.NewValidationError("department is nil")
	}

	if strings.TrimSpace(department.Name) == "" {
		return apperrors.NewValidationError("name cannot be empty")
	}

	if strings.TrimSpace(department.Code) == "" {
		return apperrors.NewValidationError("code cannot be empty")
	}

	if !isValidDepartmentCode(department.Code) {
		return apperrors.NewValidationError("code must be alphanumeric and uppercase")
	}

	return nil
}

// isValidDepartmentCode checks if a department code is valid
func isValidDepartmentCode(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" || code != strings.ToUpper(code) {
		return false
	}

	for _, char := range code {
		if !((char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9')) {
			return false
		}
	}

	return true
}

// CreateDepartment creates a new department. Admin only.
func (s *DepartmentService) CreateDepartment(ctx context.Context, caller models.Identity, name, code string) (*models.Department, error) {
	if err := s.authority.RequireAdmin(caller); err != nil {
		return nil, err
	}

	department := &models.Department{
		Name: strings.TrimSpace(name),
		Code: strings.ToUpper(strings.TrimSpace(code)),
	}
	if err := validateDepartment(department); err != nil {
		return nil, err
	}

	if err := s.store.Departments().Create(ctx, department); err != nil {
		return nil, err
	}

	logger.Info().Int64("departmentID", department.ID).Str("code", department.Code).Msg("Department created")
	return department, nil
}

// GetDepartmentByID retrieves a department by ID
func (s *DepartmentService) GetDepartmentByID(ctx context.Context, id int64) (*models.Department, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("invalid department ID")
	}
	return s.store.Departments().GetByID(ctx, id)
}

// GetAllDepartments retrieves all departments
func (s *DepartmentService) GetAllDepartments(ctx context.Context) ([]*models.Department, error) {
	departments, err := s.store.Departments().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving departments: %w", err)
	}
	return departments, nil
}

// DeleteDepartment removes a department that has no students. Admin only.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, caller models.Identity, id int64) error {
	if err := s.authority.RequireAdmin(caller); err != nil {
		return err
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Departments().GetByID(ctx, id); err != nil {
			return err
		}
		n, err := tx.Students().CountByDepartment(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.ErrDepartmentHasStudents
		}
		return tx.Departments().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.Info().Int64("departmentID", id).Msg("Department deleted")
	return nil
}
