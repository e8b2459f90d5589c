package auth

import (
	"context"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/repositories"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
	"github.com/yigit/codetrack/internal/pkg/logger"
)

// RoleAuthority derives capabilities from role tags and department headship
type RoleAuthority struct {
	store repositories.Store
}

// NewRoleAuthority creates a new RoleAuthority
func NewRoleAuthority(store repositories.Store) *RoleAuthority {
	return &RoleAuthority{store: store}
}

// Within returns an authority that reads through store, typically a transaction.
func (a *RoleAuthority) Within(store repositories.Store) *RoleAuthority {
	return &RoleAuthority{store: store}
}

// ResolveCapabilities returns the capabilities held by the caller. A capability is
// present only when the matching role tag is.
func (a *RoleAuthority) ResolveCapabilities(id models.Identity) models.RoleSet {
	var caps models.RoleSet
	for _, r := range models.AllRoles {
		if id.Roles.Has(r) {
			caps = caps.With(r)
		}
	}
	return caps
}

// IsAdmin checks the admin tag
func (a *RoleAuthority) IsAdmin(id models.Identity) bool {
	return id.Roles.Has(models.RoleAdmin)
}

// IsAdvisor checks the advisor tag only. Link scope is checked where it is used.
func (a *RoleAuthority) IsAdvisor(id models.Identity) bool {
	return id.Roles.Has(models.RoleAdvisor)
}

// IsCounsellor checks the counsellor tag only
func (a *RoleAuthority) IsCounsellor(id models.Identity) bool {
	return id.Roles.Has(models.RoleCounsellor)
}

// IsStudent checks the student tag
func (a *RoleAuthority) IsStudent(id models.Identity) bool {
	return id.Roles.Has(models.RoleStudent)
}

// HeadedDepartment returns the department the caller currently heads, or nil.
// Both the hod tag and the department's head record must agree.
func (a *RoleAuthority) HeadedDepartment(ctx context.Context, id models.Identity) (*models.Department, error) {
	if !id.Roles.Has(models.RoleHOD) {
		return nil, nil
	}
	dept, err := a.store.Departments().GetByHeadUser(ctx, id.UserID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			logger.Debug().Int64("userID", id.UserID).Msg("hod tag without a recorded headship")
			return nil, nil
		}
		return nil, err
	}
	return dept, nil
}

// IsHeadOf reports whether the caller heads departmentID. A nil departmentID
// asks whether the caller heads any department.
func (a *RoleAuthority) IsHeadOf(ctx context.Context, id models.Identity, departmentID *int64) (bool, error) {
	dept, err := a.HeadedDepartment(ctx, id)
	if err != nil || dept == nil {
		return false, err
	}
	return departmentID == nil || dept.ID == *departmentID, nil
}

// CanViewDepartment reports whether the caller may read department-wide analytics:
// admins, counsellors and the head of that department.
func (a *RoleAuthority) CanViewDepartment(ctx context.Context, id models.Identity, departmentID int64) (bool, error) {
	if a.IsAdmin(id) || a.IsCounsellor(id) {
		return true, nil
	}
	return a.IsHeadOf(ctx, id, &departmentID)
}

// RequireAdmin fails with PermissionDenied unless the caller is an admin
func (a *RoleAuthority) RequireAdmin(id models.Identity) error {
	if !a.IsAdmin(id) {
		return apperrors.NewPermissionDeniedError("admin role required")
	}
	return nil
}
