package memory

import (
	"context"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	var out *models.User
	err := r.s.run(func(t *tables) error {
		u, ok := t.users[id]
		if !ok {
			return apperrors.ErrUserNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	var out *models.User
	err := r.s.run(func(t *tables) error {
		for _, u := range t.users {
			if u.Email == email {
				out = &u
				return nil
			}
		}
		return apperrors.ErrUserNotFound
	})
	return out, err
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *userRepository) Create(_ context.Context, user *models.User) error {
	return r.s.run(func(t *tables) error {
		for _, u := range t.users {
			if u.Email == user.Email {
				return apperrors.ErrEmailAlreadyExists
			}
		}
		user.ID = t.nextID()
		user.CreatedAt = r.s.db.now()
		t.users[user.ID] = *user
		return nil
	})
}

func (r *userRepository) AddRole(_ context.Context, userID int64, role models.Role) error {
	return r.s.run(func(t *tables) error {
		u, ok := t.users[userID]
		if !ok {
			return apperrors.ErrUserNotFound
		}
		u.Roles = u.Roles.With(role)
		t.users[userID] = u
		return nil
	})
}
