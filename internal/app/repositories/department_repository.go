package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
	"github.com/yigit/codetrack/internal/pkg/dberrors"
)

type departmentRepository struct {
	*PostgresStore
}

func (r *departmentRepository) selectDepartments() squirrel.SelectBuilder {
	return r.sb.Select("d.id", "d.name", "d.code", "d.head_staff_id", "d.created_at").From("departments d")
}

func scanDepartment(row pgx.Row) (*models.Department, error) {
	var d models.Department
	if err := row.Scan(&d.ID, &d.Name, &d.Code, &d.HeadStaffID, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *departmentRepository) getOne(ctx context.Context, b squirrel.SelectBuilder, op string) (*models.Department, error) {
	row, err := r.queryRow(ctx, b.Limit(1))
	if err != nil {
		return nil, err
	}
	d, err := scanDepartment(row)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrDepartmentNotFound, op)
	}
	return d, nil
}

// Create creates a new department
func (r *departmentRepository) Create(ctx context.Context, dept *models.Department) error {
	row, err := r.queryRow(ctx, r.sb.Insert("departments").
		Columns("name", "code").
		Values(dept.Name, dept.Code).
		Suffix("RETURNING id, created_at"))
	if err != nil {
		return err
	}
	if err := row.Scan(&dept.ID, &dept.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "departments_code_key") {
			return apperrors.ErrDepartmentAlreadyExists
		}
		return fmt.Errorf("error creating department: %w", err)
	}
	return nil
}

// GetByID retrieves a department by ID
func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	return r.getOne(ctx, r.selectDepartments().Where(squirrel.Eq{"d.id": id}), "get department by id")
}

// GetByCode retrieves a department by its unique code
func (r *departmentRepository) GetByCode(ctx context.Context, code string) (*models.Department, error) {
	return r.getOne(ctx, r.selectDepartments().Where(squirrel.Eq{"d.code": code}), "get department by code")
}

// GetByHeadUser retrieves the department headed by userID
func (r *departmentRepository) GetByHeadUser(ctx context.Context, userID int64) (*models.Department, error) {
	b := r.selectDepartments().
		Join("staff_assignments sa ON sa.id = d.head_staff_id").
		Where(squirrel.Eq{"sa.user_id": userID})
	return r.getOne(ctx, b, "get department by head")
}

// GetAll retrieves all departments
func (r *departmentRepository) GetAll(ctx context.Context) ([]*models.Department, error) {
	rows, err := r.query(ctx, r.selectDepartments().OrderBy("d.name ASC"))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanDepartment)
}

// SetHead records the head only while none is recorded, so concurrent callers
// cannot both succeed
func (r *departmentRepository) SetHead(ctx context.Context, departmentID, staffID int64) error {
	tag, err := r.exec(ctx, r.sb.Update("departments").
		Set("head_staff_id", staffID).
		Where(squirrel.Eq{"id": departmentID, "head_staff_id": nil}))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "departments_head_staff_id_key") {
			return apperrors.ErrDepartmentHeadAssigned
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrStaffNotFound
		}
		return fmt.Errorf("error setting department head: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, departmentID); err != nil {
			return err
		}
		return apperrors.ErrDepartmentHeadAssigned
	}
	return nil
}

// Delete removes a department. Students still referencing it block the delete.
func (r *departmentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.exec(ctx, r.sb.Delete("departments").Where(squirrel.Eq{"id": id}))
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrDepartmentHasStudents
		}
		return fmt.Errorf("error deleting department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}
	return nil
}

// Count returns the number of departments
func (r *departmentRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").From("departments"))
}
