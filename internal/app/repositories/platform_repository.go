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

type platformRepository struct {
	*PostgresStore
}

func (r *platformRepository) selectAccounts() squirrel.SelectBuilder {
	return r.sb.Select("id", "student_id", "platform", "username", "profile_url", "is_active", "created_at").
		From("platform_accounts")
}

func scanAccount(row pgx.Row) (*models.PlatformAccount, error) {
	var (
		a        models.PlatformAccount
		platform string
	)
	if err := row.Scan(&a.ID, &a.StudentID, &platform, &a.Username, &a.ProfileURL, &a.IsActive, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Platform = models.Platform(platform)
	return &a, nil
}

// Create links a platform account
func (r *platformRepository) Create(ctx context.Context, account *models.PlatformAccount) error {
	row, err := r.queryRow(ctx, r.sb.Insert("platform_accounts").
		Columns("student_id", "platform", "username", "profile_url", "is_active").
		Values(account.StudentID, string(account.Platform), account.Username, account.ProfileURL, account.IsActive).
		Suffix("RETURNING id, created_at"))
	if err != nil {
		return err
	}
	if err := row.Scan(&account.ID, &account.CreatedAt); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "platform_accounts_student_platform_key"):
			return apperrors.NewConflictError(fmt.Sprintf("account for %s is already linked", account.Platform))
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error creating platform account: %w", err)
	}
	return nil
}

// GetByID retrieves a platform account by ID
func (r *platformRepository) GetByID(ctx context.Context, id int64) (*models.PlatformAccount, error) {
	row, err := r.queryRow(ctx, r.selectAccounts().Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	a, err := scanAccount(row)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrAccountNotFound, "get platform account")
	}
	return a, nil
}

// ListByStudent lists the accounts of a student
func (r *platformRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.PlatformAccount, error) {
	rows, err := r.query(ctx, r.selectAccounts().
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("platform ASC"))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAccount)
}

// Delete removes an account and, by cascade, its snapshots
func (r *platformRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.exec(ctx, r.sb.Delete("platform_accounts").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting platform account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// Count counts every linked account
func (r *platformRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, r.sb.Select("COUNT(*)").From("platform_accounts"))
}
