package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/repositories"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
	"github.com/yigit/codetrack/internal/pkg/logger"
)

// PlatformService manages the platform accounts a student links
type PlatformService struct {
	store repositories.Store
}

// NewPlatformService creates a new platform service
func NewPlatformService(store repositories.Store) *PlatformService {
	return &PlatformService{store: store}
}

// studentProfile returns the student profile of the caller, failing with
// Forbidden when there is none
func studentProfile(ctx context.Context, store repositories.Store, caller models.Identity) (*models.Student, error) {
	student, err := store.Students().GetByUserID(ctx, caller.UserID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.ErrStudentProfileMissing
		}
		return nil, err
	}
	return student, nil
}

// ownedAccount loads an account and checks that student owns it
func ownedAccount(ctx context.Context, store repositories.Store, student *models.Student, accountID int64) (*models.PlatformAccount, error) {
	account, err := store.Platforms().GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.StudentID != student.ID {
		return nil, apperrors.NewForbiddenError("this platform account does not belong to you")
	}
	return account, nil
}

// Link attaches a platform account to the caller's student profile
func (s *PlatformService) Link(ctx context.Context, caller models.Identity, platformName, username string) (*models.PlatformAccount, error) {
	student, err := studentProfile(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}

	platform, ok := models.ParsePlatform(platformName)
	if !ok {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unsupported platform, allowed: %s", strings.Join(models.SupportedPlatforms(), ", ")))
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.NewValidationError("username cannot be empty")
	}

	account := &models.PlatformAccount{
		StudentID:  student.ID,
		Platform:   platform,
		Username:   username,
		ProfileURL: platform.ProfileURL(username),
		IsActive:   true,
	}
	if err := s.store.Platforms().Create(ctx, account); err != nil {
		return nil, err
	}

	logger.Info().Int64("studentID", student.ID).Str("platform", string(platform)).Msg("Platform account linked")
	return account, nil
}

// ListMine returns the caller's platform accounts
func (s *PlatformService) ListMine(ctx context.Context, caller models.Identity) ([]*models.PlatformAccount, error) {
	student, err := studentProfile(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	return s.store.Platforms().ListByStudent(ctx, student.ID)
}

// Unlink removes one of the caller's platform accounts together with its snapshots
func (s *PlatformService) Unlink(ctx context.Context, caller models.Identity, accountID int64) error {
	return s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		student, err := studentProfile(ctx, tx, caller)
		if err != nil {
			return err
		}
		if _, err := ownedAccount(ctx, tx, student, accountID); err != nil {
			return err
		}
		if err := tx.Platforms().Delete(ctx, accountID); err != nil {
			return err
		}
		logger.Info().Int64("studentID", student.ID).Int64("accountID", accountID).Msg("Platform account unlinked")
		return nil
	})
}
