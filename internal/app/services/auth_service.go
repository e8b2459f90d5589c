package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/codetrack/internal/app/auth"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/repositories"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
	"github.com/yigit/codetrack/internal/pkg/auth"
)

// RegisterInput carries a self-registration request
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// LoginResult is a signed token plus the signed-in user
type LoginResult struct {
	Token *auth.TokenResponse `json:"token"`
	User  *models.User        `json:"user"`
}

// Profile is the caller's account with whichever profiles it has
type Profile struct {
	User       *models.User            `json:"user"`
	Student    *models.Student         `json:"student,omitempty"`
	Staff      *models.StaffAssignment `json:"staff,omitempty"`
	HeadOf     *models.Department      `json:"headOf,omitempty"`
	Capability models.RoleSet          `json:"capabilities"`
}

// AuthService handles registration, login and the caller profile
type AuthService struct {
	store      repositories.Store
	authority  *appauth.RoleAuthority
	hasher     auth.PasswordHasher
	jwtService *auth.JWTService
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	store repositories.Store,
	authority *appauth.RoleAuthority,
	hasher auth.PasswordHasher,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		store:      store,
		authority:  authority,
		hasher:     hasher,
		jwtService: jwtService,
		logger:     logger,
		now:        time.Now,
	}
}

// RegisterNumber derives a student's register number from their user ID
func RegisterNumber(userID int64) string {
	return fmt.Sprintf("REG%06d", userID)
}

// Register creates a user with the student tag and its student profile
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *models.Student, error) {
	if err := validateNewIdentity(models.NewStaffIdentity(in)); err != nil {
		return nil, nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		IsActive:     true,
		Roles:        models.NewRoleSet(models.RoleStudent),
	}
	var student *models.Student
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		exists, err := tx.Users().EmailExists(ctx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrEmailAlreadyExists
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}

		student = &models.Student{
			UserID:         user.ID,
			RegisterNumber: RegisterNumber(user.ID),
			AdmissionYear:  s.now().Year(),
		}
		return tx.Students().Create(ctx, student)
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("registerNumber", student.RegisterNumber).Msg("Student registered")
	return user, student, nil
}

// Login verifies credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		s.logger.Warn().Int64("userID", user.ID).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return &LoginResult{Token: token, User: user}, nil
}

// Me returns the caller's account and profiles
func (s *AuthService) Me(ctx context.Context, caller models.Identity) (*Profile, error) {
	user, err := s.store.Users().GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	profile := &Profile{User: user, Capability: s.authority.ResolveCapabilities(user.Identity())}

	student, err := s.store.Students().GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		profile.Student = student
	case apperrors.KindOf(err) != apperrors.KindNotFound:
		return nil, err
	}

	staff, err := s.store.Staff().GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		profile.Staff = staff
	case apperrors.KindOf(err) != apperrors.KindNotFound:
		return nil, err
	}

	if profile.HeadOf, err = s.authority.HeadedDepartment(ctx, user.Identity()); err != nil {
		return nil, err
	}
	return profile, nil
}
