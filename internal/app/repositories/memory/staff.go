package memory

import (
	"context"
	"sort"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

type staffRepository struct {
	s *Store
}

func (r *staffRepository) Create(_ context.Context, staff *models.StaffAssignment) error {
	return r.s.run(func(t *tables) error {
		if _, ok := t.departments[staff.DepartmentID]; !ok {
			return apperrors.ErrDepartmentNotFound
		}
		if _, ok := t.users[staff.UserID]; !ok {
			return apperrors.ErrUserNotFound
		}
		for _, sa := range t.staff {
			if sa.UserID == staff.UserID {
				return apperrors.ErrStaffAlreadyAssigned
			}
		}
		staff.ID = t.nextID()
		staff.CreatedAt = r.s.db.now()
		t.staff[staff.ID] = *staff
		return nil
	})
}

func (r *staffRepository) find(match func(models.StaffAssignment) bool) (*models.StaffAssignment, error) {
	var out *models.StaffAssignment
	err := r.s.run(func(t *tables) error {
		for _, sa := range t.staff {
			if match(sa) {
				out = &sa
				return nil
			}
		}
		return apperrors.ErrStaffNotFound
	})
	return out, err
}

func (r *staffRepository) GetByID(_ context.Context, id int64) (*models.StaffAssignment, error) {
	return r.find(func(sa models.StaffAssignment) bool { return sa.ID == id })
}

func (r *staffRepository) GetByUserID(_ context.Context, userID int64) (*models.StaffAssignment, error) {
	return r.find(func(sa models.StaffAssignment) bool { return sa.UserID == userID })
}

func (r *staffRepository) List(_ context.Context, filter models.StaffFilter) ([]*models.StaffMember, error) {
	out := []*models.StaffMember{}
	err := r.s.run(func(t *tables) error {
		for _, sa := range t.staff {
			if filter.DepartmentID != nil && sa.DepartmentID != *filter.DepartmentID {
				continue
			}
			if len(filter.Roles) > 0 && !containsRole(filter.Roles, sa.Role) {
				continue
			}
			u := t.users[sa.UserID]
			out = append(out, &models.StaffMember{
				StaffAssignment: sa,
				FullName:        u.FullName,
				Email:           u.Email,
				DepartmentName:  t.departments[sa.DepartmentID].Name,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DepartmentName != b.DepartmentName {
			return a.DepartmentName < b.DepartmentName
		}
		if a.Role != b.Role {
			return a.Role < b.Role
		}
		return a.FullName < b.FullName
	})
	return out, err
}

func containsRole(roles []models.Role, r models.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}
