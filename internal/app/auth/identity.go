package auth

import (
	"context"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/repositories"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

// IdentityDirectory turns an authenticated user reference into an Identity
// with the role tags currently stored for that user.
type IdentityDirectory struct {
	users repositories.UserRepository
}

// NewIdentityDirectory creates a new IdentityDirectory
func NewIdentityDirectory(store repositories.Store) *IdentityDirectory {
	return &IdentityDirectory{users: store.Users()}
}

// Resolve loads the caller. Unknown users are reported as an invalid token so a
// token for a deleted account cannot be told apart from a forged one.
func (d *IdentityDirectory) Resolve(ctx context.Context, userID int64) (*models.User, models.Identity, error) {
	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, models.Identity{}, apperrors.ErrTokenInvalid
		}
		return nil, models.Identity{}, err
	}
	if !user.IsActive {
		return nil, models.Identity{}, apperrors.ErrAccountDisabled
	}
	return user, user.Identity(), nil
}
