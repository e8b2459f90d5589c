package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

type platformRepository struct {
	s *Store
}

func (r *platformRepository) Create(_ context.Context, account *models.PlatformAccount) error {
	return r.s.run(func(t *tables) error {
		if _, ok := t.students[account.StudentID]; !ok {
			return apperrors.ErrStudentNotFound
		}
		for _, a := range t.accounts {
			if a.StudentID == account.StudentID && a.Platform == account.Platform {
				return apperrors.NewConflictError(fmt.Sprintf("account for %s is already linked", account.Platform))
			}
		}
		account.ID = t.nextID()
		account.CreatedAt = r.s.db.now()
		t.accounts[account.ID] = *account
		return nil
	})
}

func (r *platformRepository) GetByID(_ context.Context, id int64) (*models.PlatformAccount, error) {
	var out *models.PlatformAccount
	err := r.s.run(func(t *tables) error {
		a, ok := t.accounts[id]
		if !ok {
			return apperrors.ErrAccountNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *platformRepository) ListByStudent(_ context.Context, studentID int64) ([]*models.PlatformAccount, error) {
	out := []*models.PlatformAccount{}
	err := r.s.run(func(t *tables) error {
		for _, a := range t.accounts {
			if a.StudentID == studentID {
				a := a
				out = append(out, &a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Platform < out[j].Platform })
	return out, err
}

func (r *platformRepository) Delete(_ context.Context, id int64) error {
	return r.s.run(func(t *tables) error {
		if _, ok := t.accounts[id]; !ok {
			return apperrors.ErrAccountNotFound
		}
		for sid, snap := range t.snapshots {
			if snap.AccountID == id {
				delete(t.snapshots, sid)
			}
		}
		delete(t.accounts, id)
		return nil
	})
}

func (r *platformRepository) Count(_ context.Context) (int, error) {
	var n int
	err := r.s.run(func(t *tables) error {
		n = len(t.accounts)
		return nil
	})
	return n, err
}
