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

type userRepository struct {
	*PostgresStore
}

func (r *userRepository) selectUsers() squirrel.SelectBuilder {
	return r.sb.Select(
		"u.id", "u.email", "u.password_hash", "u.full_name", "u.is_active", "u.created_at",
		"COALESCE(array_agg(ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}')",
	).
		From("users u").
		LeftJoin("user_roles ur ON ur.user_id = u.id").
		GroupBy("u.id")
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u     models.User
		roles []string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.IsActive, &u.CreatedAt, &roles); err != nil {
		return nil, err
	}
	for _, name := range roles {
		if role, err := models.ParseRole(name); err == nil {
			u.Roles = u.Roles.With(role)
		}
	}
	return &u, nil
}

// GetByID retrieves a user with its role tags
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row, err := r.queryRow(ctx, r.selectUsers().Where(squirrel.Eq{"u.id": id}))
	if err != nil {
		return nil, err
	}
	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrUserNotFound, "get user by id")
	}
	return u, nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row, err := r.queryRow(ctx, r.selectUsers().Where(squirrel.Eq{"u.email": email}))
	if err != nil {
		return nil, err
	}
	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrUserNotFound, "get user by email")
	}
	return u, nil
}

// EmailExists checks whether an email is already registered
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// Create inserts the user and its role tags in one statement
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const query = `
		WITH u AS (
			INSERT INTO users (email, password_hash, full_name, is_active)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		), r AS (
			INSERT INTO user_roles (user_id, role)
			SELECT u.id, role FROM u, unnest($5::varchar[]) AS role
		)
		SELECT id, created_at FROM u`

	err := r.q.QueryRow(ctx, query, user.Email, user.PasswordHash, user.FullName, user.IsActive, user.Roles.Strings()).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// AddRole grants a role tag; granting an existing tag is a no-op
func (r *userRepository) AddRole(ctx context.Context, userID int64, role models.Role) error {
	_, err := r.exec(ctx, r.sb.Insert("user_roles").
		Columns("user_id", "role").
		Values(userID, string(role)).
		Suffix("ON CONFLICT (user_id, role) DO NOTHING"))
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error adding role: %w", err)
	}
	return nil
}
