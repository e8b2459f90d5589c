package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	appauth "github.com/yigit/codetrack/internal/app/auth"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/repositories"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
	"github.com/yigit/codetrack/internal/pkg/auth"
	"github.com/yigit/codetrack/internal/pkg/logger"
)

const minPasswordLength = 6

// DelegationService owns department headship, staff assignments and the
// student advisor and counsellor links. Nothing else writes them.
type DelegationService struct {
	store     repositories.Store
	authority *appauth.RoleAuthority
	hasher    auth.PasswordHasher
}

// NewDelegationService creates a new delegation service
func NewDelegationService(store repositories.Store, authority *appauth.RoleAuthority, hasher auth.PasswordHasher) *DelegationService {
	return &DelegationService{
		store:     store,
		authority: authority,
		hasher:    hasher,
	}
}

// CanCreateRole applies the creation hierarchy: admins create any staff role
// anywhere, a department head creates advisors in their own department, and an
// advisor creates counsellors in the department of their own assignment.
func (s *DelegationService) CanCreateRole(ctx context.Context, creator models.Identity, role models.Role, departmentID int64) (bool, error) {
	return s.canCreateRole(ctx, s.store, creator, role, departmentID)
}

func (s *DelegationService) canCreateRole(ctx context.Context, store repositories.Store, creator models.Identity, role models.Role, departmentID int64) (bool, error) {
	if !role.IsStaff() {
		return false, nil
	}
	authority := s.authority.Within(store)
	if authority.IsAdmin(creator) {
		return true, nil
	}

	isHead, err := authority.IsHeadOf(ctx, creator, &departmentID)
	if err != nil {
		return false, err
	}
	if isHead {
		// heads may not create counsellors directly
		return role == models.RoleAdvisor, nil
	}

	if role != models.RoleCounsellor || !authority.IsAdvisor(creator) {
		return false, nil
	}
	own, err := store.Staff().GetByUserID(ctx, creator.UserID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return false, nil
		}
		return false, err
	}
	return own.Role == models.RoleAdvisor && own.DepartmentID == departmentID, nil
}

func validateNewIdentity(identity models.NewStaffIdentity) error {
	if strings.TrimSpace(identity.FullName) == "" {
		return apperrors.NewValidationError("full name cannot be empty")
	}
	if _, err := mail.ParseAddress(identity.Email); err != nil {
		return apperrors.NewValidationError("invalid email address")
	}
	if len(identity.Password) < minPasswordLength {
		return apperrors.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateStaff creates a staff user with its role tag and department assignment.
// For heads the department's head reference is set in the same transaction, and
// a department that already has one fails with Conflict.
func (s *DelegationService) CreateStaff(ctx context.Context, creator models.Identity, role models.Role, departmentID int64, identity models.NewStaffIdentity) (*models.StaffAssignment, error) {
	if err := validateNewIdentity(identity); err != nil {
		return nil, err
	}
	if !role.IsStaff() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid staff role %q: must be one of hod, advisor, counsellor", role))
	}

	hash, err := s.hasher.Hash(identity.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var assignment *models.StaffAssignment
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		dept, err := tx.Departments().GetByID(ctx, departmentID)
		if err != nil {
			return err
		}

		// the creator's authority is read in the same transaction as the writes
		allowed, err := s.canCreateRole(ctx, tx, creator, role, departmentID)
		if err != nil {
			return err
		}
		if !allowed {
			return apperrors.NewPermissionDeniedError(
				fmt.Sprintf("you do not have permission to create a %s in department %s", role, dept.Code))
		}

		email := normalizeEmail(identity.Email)
		exists, err := tx.Users().EmailExists(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrEmailAlreadyExists
		}

		if role == models.RoleHOD && dept.HasHead() {
			return apperrors.NewConflictError(fmt.Sprintf("department '%s' already has a head assigned", dept.Name))
		}

		user := &models.User{
			Email:        email,
			PasswordHash: hash,
			FullName:     strings.TrimSpace(identity.FullName),
			IsActive:     true,
			Roles:        models.NewRoleSet(role),
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}

		createdBy := creator.UserID
		assignment = &models.StaffAssignment{
			UserID:       user.ID,
			DepartmentID: departmentID,
			Role:         role,
			CreatedBy:    &createdBy,
		}
		if err := tx.Staff().Create(ctx, assignment); err != nil {
			return err
		}

		if role == models.RoleHOD {
			return tx.Departments().SetHead(ctx, departmentID, assignment.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("creatorID", creator.UserID).
		Int64("userID", assignment.UserID).
		Int64("departmentID", departmentID).
		Str("role", string(role)).
		Msg("Staff member created")
	return assignment, nil
}

// AssignAdvisor links each student to advisorUserID, replacing any previous
// advisor. Department heads only reach students of their own department; other
// students, and ids that do not exist, are skipped.
func (s *DelegationService) AssignAdvisor(ctx context.Context, caller models.Identity, advisorUserID int64, studentIDs []int64) (AssignmentResult, error) {
	var result AssignmentResult
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		authority := s.authority.Within(tx)

		var scope *models.Department
		if !authority.IsAdmin(caller) {
			dept, err := authority.HeadedDepartment(ctx, caller)
			if err != nil {
				return err
			}
			if dept == nil {
				return apperrors.NewPermissionDeniedError("only admins and department heads can assign advisors")
			}
			scope = dept
		}

		if err := requireRoleTag(ctx, tx, advisorUserID, models.RoleAdvisor); err != nil {
			return err
		}

		result = newAssignmentResult()
		for _, id := range uniqueIDs(studentIDs) {
			student, err := lookupStudent(ctx, tx, id)
			if err != nil {
				return err
			}
			ok := student != nil && (scope == nil || student.InDepartment(scope.ID))
			if ok {
				if err := tx.Links().UpsertAdvisor(ctx, id, advisorUserID); err != nil {
					return err
				}
			}
			result = result.record(id, ok)
		}
		return nil
	})
	if err != nil {
		return AssignmentResult{}, err
	}

	logger.Info().
		Int64("callerID", caller.UserID).
		Int64("advisorID", advisorUserID).
		Int("assigned", result.AssignedCount()).
		Int("skipped", result.SkippedCount()).
		Msg("Advisor links updated")
	return result, nil
}

// AssignCounsellor links each student to counsellorUserID, replacing any
// previous counsellor. A caller acting only as advisor reaches just the students
// already advised by them; others are skipped.
func (s *DelegationService) AssignCounsellor(ctx context.Context, caller models.Identity, counsellorUserID int64, studentIDs []int64) (AssignmentResult, error) {
	var result AssignmentResult
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		authority := s.authority.Within(tx)

		advisorOnly := false
		if !authority.IsAdmin(caller) {
			isHead, err := authority.IsHeadOf(ctx, caller, nil)
			if err != nil {
				return err
			}
			if !isHead {
				if !authority.IsAdvisor(caller) {
					return apperrors.NewPermissionDeniedError("only admins, department heads and advisors can assign counsellors")
				}
				advisorOnly = true
			}
		}

		if err := requireRoleTag(ctx, tx, counsellorUserID, models.RoleCounsellor); err != nil {
			return err
		}

		result = newAssignmentResult()
		for _, id := range uniqueIDs(studentIDs) {
			student, err := lookupStudent(ctx, tx, id)
			if err != nil {
				return err
			}
			ok := student != nil
			if ok && advisorOnly {
				ok, err = advisedBy(ctx, tx, id, caller.UserID)
				if err != nil {
					return err
				}
			}
			if ok {
				if err := tx.Links().UpsertCounsellor(ctx, id, counsellorUserID); err != nil {
					return err
				}
			}
			result = result.record(id, ok)
		}
		return nil
	})
	if err != nil {
		return AssignmentResult{}, err
	}

	logger.Info().
		Int64("callerID", caller.UserID).
		Int64("counsellorID", counsellorUserID).
		Int("assigned", result.AssignedCount()).
		Int("skipped", result.SkippedCount()).
		Msg("Counsellor links updated")
	return result, nil
}

// ListTeam lists the staff visible to the caller: everyone for admins, the
// advisors and counsellors of their department for heads, and the counsellors of
// their department for advisors.
func (s *DelegationService) ListTeam(ctx context.Context, caller models.Identity) ([]*models.StaffMember, error) {
	if s.authority.IsAdmin(caller) {
		return s.store.Staff().List(ctx, models.StaffFilter{})
	}

	dept, err := s.authority.HeadedDepartment(ctx, caller)
	if err != nil {
		return nil, err
	}
	if dept != nil {
		return s.store.Staff().List(ctx, models.StaffFilter{
			DepartmentID: &dept.ID,
			Roles:        []models.Role{models.RoleAdvisor, models.RoleCounsellor},
		})
	}

	if s.authority.IsAdvisor(caller) {
		own, err := s.store.Staff().GetByUserID(ctx, caller.UserID)
		if err != nil && apperrors.KindOf(err) != apperrors.KindNotFound {
			return nil, err
		}
		if own != nil && own.Role == models.RoleAdvisor {
			return s.store.Staff().List(ctx, models.StaffFilter{
				DepartmentID: &own.DepartmentID,
				Roles:        []models.Role{models.RoleCounsellor},
			})
		}
	}

	return nil, apperrors.NewPermissionDeniedError("you do not have permission to view the staff list")
}

// StudentDepartment is the outcome of moving a student into a department
type StudentDepartment struct {
	StudentID      int64  `json:"studentId"`
	DepartmentID   int64  `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
}

// AssignStudentDepartment moves a student into a department. Admin only.
func (s *DelegationService) AssignStudentDepartment(ctx context.Context, caller models.Identity, studentID, departmentID int64) (*StudentDepartment, error) {
	if err := s.authority.RequireAdmin(caller); err != nil {
		return nil, err
	}

	var out *StudentDepartment
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Students().GetByID(ctx, studentID); err != nil {
			return err
		}
		dept, err := tx.Departments().GetByID(ctx, departmentID)
		if err != nil {
			return err
		}
		if err := tx.Students().SetDepartment(ctx, studentID, &dept.ID); err != nil {
			return err
		}
		out = &StudentDepartment{StudentID: studentID, DepartmentID: dept.ID, DepartmentName: dept.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("studentID", studentID).Int64("departmentID", departmentID).Msg("Student assigned to department")
	return out, nil
}

// requireRoleTag fails with InvalidTarget unless userID exists and holds role
func requireRoleTag(ctx context.Context, store repositories.Store, userID int64, role models.Role) error {
	user, err := store.Users().GetByID(ctx, userID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return apperrors.NewInvalidTargetError(fmt.Sprintf("invalid %s: user %d not found", role, userID))
		}
		return err
	}
	if !user.Roles.Has(role) {
		return apperrors.NewInvalidTargetError(fmt.Sprintf("invalid %s: user %d does not hold the %s role", role, userID, role))
	}
	return nil
}

// lookupStudent returns nil without error when the student does not exist
func lookupStudent(ctx context.Context, store repositories.Store, id int64) (*models.Student, error) {
	student, err := store.Students().GetByID(ctx, id)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	return student, nil
}

func advisedBy(ctx context.Context, store repositories.Store, studentID, advisorUserID int64) (bool, error) {
	link, err := store.Links().GetAdvisorLink(ctx, studentID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return false, nil
		}
		return false, err
	}
	return link.AdvisorUserID == advisorUserID, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
