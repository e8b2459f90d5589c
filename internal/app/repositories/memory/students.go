package memory

import (
	"context"
	"sort"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

type studentRepository struct {
	s *Store
}

func withUser(t *tables, st models.Student) *models.Student {
	u := t.users[st.UserID]
	st.FullName = u.FullName
	st.Email = u.Email
	return &st
}

func (r *studentRepository) Create(_ context.Context, student *models.Student) error {
	return r.s.run(func(t *tables) error {
		if _, ok := t.users[student.UserID]; !ok {
			return apperrors.ErrUserNotFound
		}
		if student.DepartmentID != nil {
			if _, ok := t.departments[*student.DepartmentID]; !ok {
				return apperrors.ErrDepartmentNotFound
			}
		}
		for _, st := range t.students {
			if st.UserID == student.UserID || st.RegisterNumber == student.RegisterNumber {
				return apperrors.NewConflictError("student profile already exists")
			}
		}
		student.ID = t.nextID()
		student.CreatedAt = r.s.db.now()
		stored := *student
		stored.FullName, stored.Email = "", ""
		t.students[student.ID] = stored
		return nil
	})
}

func (r *studentRepository) find(match func(models.Student) bool) (*models.Student, error) {
	var out *models.Student
	err := r.s.run(func(t *tables) error {
		for _, st := range t.students {
			if match(st) {
				out = withUser(t, st)
				return nil
			}
		}
		return apperrors.ErrStudentNotFound
	})
	return out, err
}

func (r *studentRepository) filter(match func(models.Student) bool) ([]*models.Student, error) {
	out := []*models.Student{}
	err := r.s.run(func(t *tables) error {
		for _, st := range t.students {
			if match(st) {
				out = append(out, withUser(t, st))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *studentRepository) GetByID(_ context.Context, id int64) (*models.Student, error) {
	return r.find(func(st models.Student) bool { return st.ID == id })
}

func (r *studentRepository) GetByUserID(_ context.Context, userID int64) (*models.Student, error) {
	return r.find(func(st models.Student) bool { return st.UserID == userID })
}

func (r *studentRepository) ListByDepartment(_ context.Context, departmentID int64) ([]*models.Student, error) {
	return r.filter(func(st models.Student) bool { return st.InDepartment(departmentID) })
}

func (r *studentRepository) ListByIDs(_ context.Context, ids []int64) ([]*models.Student, error) {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return r.filter(func(st models.Student) bool {
		_, ok := set[st.ID]
		return ok
	})
}

func (r *studentRepository) ListAll(_ context.Context) ([]*models.Student, error) {
	return r.filter(func(models.Student) bool { return true })
}

func (r *studentRepository) SetDepartment(_ context.Context, studentID int64, departmentID *int64) error {
	return r.s.run(func(t *tables) error {
		st, ok := t.students[studentID]
		if !ok {
			return apperrors.ErrStudentNotFound
		}
		if departmentID != nil {
			if _, ok := t.departments[*departmentID]; !ok {
				return apperrors.ErrDepartmentNotFound
			}
			id := *departmentID
			st.DepartmentID = &id
		} else {
			st.DepartmentID = nil
		}
		t.students[studentID] = st
		return nil
	})
}

func (r *studentRepository) CountByDepartment(ctx context.Context, departmentID int64) (int, error) {
	list, err := r.ListByDepartment(ctx, departmentID)
	return len(list), err
}

func (r *studentRepository) Count(_ context.Context) (int, error) {
	var n int
	err := r.s.run(func(t *tables) error {
		n = len(t.students)
		return nil
	})
	return n, err
}
