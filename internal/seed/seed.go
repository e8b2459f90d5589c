package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/repositories"
	"github.com/yigit/codetrack/internal/config"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
	"github.com/yigit/codetrack/internal/pkg/auth"
)

// CreateDefaultData creates the configured departments and the bootstrap admin
// if they don't exist. Failures are collected so one bad entry does not stop the rest.
func CreateDefaultData(ctx context.Context, store repositories.Store, hasher auth.PasswordHasher, cfg *config.Config, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Departments/Admin)...")
	var finalErr error

	for _, d := range cfg.Seed.Departments {
		dept := &models.Department{
			Name: strings.TrimSpace(d.Name),
			Code: strings.ToUpper(strings.TrimSpace(d.Code)),
		}
		err := store.Departments().Create(ctx, dept)
		switch {
		case err == nil:
			lgr.Info().Str("code", dept.Code).Int64("departmentID", dept.ID).Msg("Default department created")
		case errors.Is(err, apperrors.ErrDepartmentAlreadyExists):
			lgr.Debug().Str("code", dept.Code).Msg("Department already exists, skipping")
		default:
			lgr.Error().Err(err).Str("code", dept.Code).Msg("Error creating default department")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if err := createAdmin(ctx, store, hasher, cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func createAdmin(ctx context.Context, store repositories.Store, hasher auth.PasswordHasher, cfg *config.Config, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Seed.AdminEmail))
	if email == "" || cfg.Seed.AdminPassword == "" {
		lgr.Warn().Msg("Seed admin credentials not configured, skipping admin creation")
		return nil
	}

	exists, err := store.Users().EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	hash, err := hasher.Hash(cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     cfg.Seed.AdminName,
		IsActive:     true,
		Roles:        models.NewRoleSet(models.RoleAdmin),
	}
	if err := store.Users().Create(ctx, admin); err != nil {
		return err
	}
	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
	return nil
}
