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

type staffRepository struct {
	*PostgresStore
}

var staffColumns = []string{"sa.id", "sa.user_id", "sa.department_id", "sa.role", "sa.created_by", "sa.created_at"}

func scanStaff(row pgx.Row) (*models.StaffAssignment, error) {
	var (
		s    models.StaffAssignment
		role string
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.DepartmentID, &role, &s.CreatedBy, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Role = models.Role(role)
	return &s, nil
}

// Create creates a staff assignment
func (r *staffRepository) Create(ctx context.Context, staff *models.StaffAssignment) error {
	row, err := r.queryRow(ctx, r.sb.Insert("staff_assignments").
		Columns("user_id", "department_id", "role", "created_by").
		Values(staff.UserID, staff.DepartmentID, string(staff.Role), staff.CreatedBy).
		Suffix("RETURNING id, created_at"))
	if err != nil {
		return err
	}
	if err := row.Scan(&staff.ID, &staff.CreatedAt); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "staff_assignments_user_id_key"):
			return apperrors.ErrStaffAlreadyAssigned
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrDepartmentNotFound
		}
		return fmt.Errorf("error creating staff assignment: %w", err)
	}
	return nil
}

func (r *staffRepository) getOne(ctx context.Context, where squirrel.Eq, op string) (*models.StaffAssignment, error) {
	row, err := r.queryRow(ctx, r.sb.Select(staffColumns...).From("staff_assignments sa").Where(where).Limit(1))
	if err != nil {
		return nil, err
	}
	s, err := scanStaff(row)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrStaffNotFound, op)
	}
	return s, nil
}

// GetByID retrieves a staff assignment by ID
func (r *staffRepository) GetByID(ctx context.Context, id int64) (*models.StaffAssignment, error) {
	return r.getOne(ctx, squirrel.Eq{"sa.id": id}, "get staff by id")
}

// GetByUserID retrieves the staff assignment of a user
func (r *staffRepository) GetByUserID(ctx context.Context, userID int64) (*models.StaffAssignment, error) {
	return r.getOne(ctx, squirrel.Eq{"sa.user_id": userID}, "get staff by user")
}

// List returns staff members joined with user and department names
func (r *staffRepository) List(ctx context.Context, filter models.StaffFilter) ([]*models.StaffMember, error) {
	cols := append(append([]string{}, staffColumns...), "u.full_name", "u.email", "d.name")
	b := r.sb.Select(cols...).
		From("staff_assignments sa").
		Join("users u ON u.id = sa.user_id").
		Join("departments d ON d.id = sa.department_id").
		OrderBy("d.name ASC", "sa.role ASC", "u.full_name ASC")

	if filter.DepartmentID != nil {
		b = b.Where(squirrel.Eq{"sa.department_id": *filter.DepartmentID})
	}
	if len(filter.Roles) > 0 {
		roles := make([]string, len(filter.Roles))
		for i, role := range filter.Roles {
			roles[i] = string(role)
		}
		b = b.Where(squirrel.Eq{"sa.role": roles})
	}

	rows, err := r.query(ctx, b)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row pgx.Row) (*models.StaffMember, error) {
		var (
			m    models.StaffMember
			role string
		)
		if err := row.Scan(&m.ID, &m.UserID, &m.DepartmentID, &role, &m.CreatedBy, &m.CreatedAt,
			&m.FullName, &m.Email, &m.DepartmentName); err != nil {
			return nil, fmt.Errorf("error scanning staff row: %w", err)
		}
		m.Role = models.Role(role)
		return &m, nil
	})
}
