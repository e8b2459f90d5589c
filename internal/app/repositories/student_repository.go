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

type studentRepository struct {
	*PostgresStore
}

func (r *studentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.user_id", "s.register_number", "s.department_id", "s.admission_year", "s.created_at",
		"u.full_name", "u.email",
	).
		From("students s").
		Join("users u ON u.id = s.user_id")
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.UserID, &s.RegisterNumber, &s.DepartmentID, &s.AdmissionYear, &s.CreatedAt,
		&s.FullName, &s.Email)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepository) list(ctx context.Context, b squirrel.SelectBuilder) ([]*models.Student, error) {
	rows, err := r.query(ctx, b.OrderBy("s.id ASC"))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanStudent)
}

func (r *studentRepository) getOne(ctx context.Context, where squirrel.Eq, op string) (*models.Student, error) {
	row, err := r.queryRow(ctx, r.selectStudents().Where(where).Limit(1))
	if err != nil {
		return nil, err
	}
	s, err := scanStudent(row)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrStudentNotFound, op)
	}
	return s, nil
}

// Create creates a student profile
func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	row, err := r.queryRow(ctx, r.sb.Insert("students").
		Columns("user_id", "register_number", "department_id", "admission_year").
		Values(student.UserID, student.RegisterNumber, student.DepartmentID, student.AdmissionYear).
		Suffix("RETURNING id, created_at"))
	if err != nil {
		return err
	}
	if err := row.Scan(&student.ID, &student.CreatedAt); err != nil {
		switch {
		case dberrors.IsUniqueViolation(err):
			return apperrors.NewConflictError("student profile already exists")
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrDepartmentNotFound
		}
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// GetByID retrieves a student by ID
func (r *studentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"s.id": id}, "get student by id")
}

// GetByUserID retrieves the student profile of a user
func (r *studentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"s.user_id": userID}, "get student by user")
}

// ListByDepartment lists the students of a department
func (r *studentRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]*models.Student, error) {
	return r.list(ctx, r.selectStudents().Where(squirrel.Eq{"s.department_id": departmentID}))
}

// ListByIDs lists the students with the given IDs
func (r *studentRepository) ListByIDs(ctx context.Context, ids []int64) ([]*models.Student, error) {
	if len(ids) == 0 {
		return []*models.Student{}, nil
	}
	return r.list(ctx, r.selectStudents().Where(squirrel.Eq{"s.id": ids}))
}

// ListAll lists every student
func (r *studentRepository) ListAll(ctx context.Context) ([]*models.Student, error) {
	return r.list(ctx, r.selectStudents())
}

// SetDepartment moves a student to a department, or clears it when departmentID is nil
func (r *studentRepository) SetDepartment(ctx context.Context, studentID int64, departmentID *int64) error {
	tag, err := r.exec(ctx, r.sb.Update("students").
		Set("department_id", departmentID).
		Where(squirrel.Eq{"id": studentID}))
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrDepartmentNotFound
		}
		return fmt.Errorf("error updating student department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// CountByDepartment counts the students of a department
func (r *studentRepository) CountByDepartment(ctx context.Context, departmentID int64) (int, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").From("students").Where(squirrel.Eq{"department_id": departmentID}))
}

// Count counts every student
func (r *studentRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").From("students"))
}
