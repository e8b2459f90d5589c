package memory

import (
	"context"
	"sort"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

type departmentRepository struct {
	s *Store
}

func (r *departmentRepository) Create(_ context.Context, dept *models.Department) error {
	return r.s.run(func(t *tables) error {
		for _, d := range t.departments {
			if d.Code == dept.Code {
				return apperrors.ErrDepartmentAlreadyExists
			}
		}
		dept.ID = t.nextID()
		dept.CreatedAt = r.s.db.now()
		dept.HeadStaffID = nil
		t.departments[dept.ID] = *dept
		return nil
	})
}

func (r *departmentRepository) find(match func(t *tables, d models.Department) bool) (*models.Department, error) {
	var out *models.Department
	err := r.s.run(func(t *tables) error {
		for _, d := range t.departments {
			if match(t, d) {
				out = &d
				return nil
			}
		}
		return apperrors.ErrDepartmentNotFound
	})
	return out, err
}

func (r *departmentRepository) GetByID(_ context.Context, id int64) (*models.Department, error) {
	return r.find(func(_ *tables, d models.Department) bool { return d.ID == id })
}

func (r *departmentRepository) GetByCode(_ context.Context, code string) (*models.Department, error) {
	return r.find(func(_ *tables, d models.Department) bool { return d.Code == code })
}

func (r *departmentRepository) GetByHeadUser(_ context.Context, userID int64) (*models.Department, error) {
	return r.find(func(t *tables, d models.Department) bool {
		if d.HeadStaffID == nil {
			return false
		}
		sa, ok := t.staff[*d.HeadStaffID]
		return ok && sa.UserID == userID
	})
}

func (r *departmentRepository) GetAll(_ context.Context) ([]*models.Department, error) {
	out := []*models.Department{}
	err := r.s.run(func(t *tables) error {
		for _, d := range t.departments {
			d := d
			out = append(out, &d)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *departmentRepository) SetHead(_ context.Context, departmentID, staffID int64) error {
	return r.s.run(func(t *tables) error {
		d, ok := t.departments[departmentID]
		if !ok {
			return apperrors.ErrDepartmentNotFound
		}
		if _, ok := t.staff[staffID]; !ok {
			return apperrors.ErrStaffNotFound
		}
		if d.HeadStaffID != nil {
			return apperrors.ErrDepartmentHeadAssigned
		}
		for _, other := range t.departments {
			if other.HeadStaffID != nil && *other.HeadStaffID == staffID {
				return apperrors.ErrDepartmentHeadAssigned
			}
		}
		id := staffID
		d.HeadStaffID = &id
		t.departments[departmentID] = d
		return nil
	})
}

func (r *departmentRepository) Delete(_ context.Context, id int64) error {
	return r.s.run(func(t *tables) error {
		if _, ok := t.departments[id]; !ok {
			return apperrors.ErrDepartmentNotFound
		}
		for _, st := range t.students {
			if st.InDepartment(id) {
				return apperrors.ErrDepartmentHasStudents
			}
		}
		for sid, sa := range t.staff {
			if sa.DepartmentID == id {
				delete(t.staff, sid)
			}
		}
		delete(t.departments, id)
		return nil
	})
}

func (r *departmentRepository) Count(_ context.Context) (int, error) {
	var n int
	err := r.s.run(func(t *tables) error {
		n = len(t.departments)
		return nil
	})
	return n, err
}
