package memory

import (
	"context"
	"sort"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

type linkRepository struct {
	s *Store
}

func checkLinkEnds(t *tables, studentID, staffUserID int64) error {
	if _, ok := t.students[studentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	if _, ok := t.users[staffUserID]; !ok {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *linkRepository) UpsertAdvisor(_ context.Context, studentID, advisorUserID int64) error {
	return r.s.run(func(t *tables) error {
		if err := checkLinkEnds(t, studentID, advisorUserID); err != nil {
			return err
		}
		t.advisors[studentID] = models.AdvisorLink{StudentID: studentID, AdvisorUserID: advisorUserID, AssignedAt: r.s.db.now()}
		return nil
	})
}

func (r *linkRepository) UpsertCounsellor(_ context.Context, studentID, counsellorUserID int64) error {
	return r.s.run(func(t *tables) error {
		if err := checkLinkEnds(t, studentID, counsellorUserID); err != nil {
			return err
		}
		t.counsellors[studentID] = models.CounsellorLink{StudentID: studentID, CounsellorUserID: counsellorUserID, AssignedAt: r.s.db.now()}
		return nil
	})
}

func (r *linkRepository) GetAdvisorLink(_ context.Context, studentID int64) (*models.AdvisorLink, error) {
	var out *models.AdvisorLink
	err := r.s.run(func(t *tables) error {
		l, ok := t.advisors[studentID]
		if !ok {
			return apperrors.ErrLinkNotFound
		}
		out = &l
		return nil
	})
	return out, err
}

func (r *linkRepository) GetCounsellorLink(_ context.Context, studentID int64) (*models.CounsellorLink, error) {
	var out *models.CounsellorLink
	err := r.s.run(func(t *tables) error {
		l, ok := t.counsellors[studentID]
		if !ok {
			return apperrors.ErrLinkNotFound
		}
		out = &l
		return nil
	})
	return out, err
}

func (r *linkRepository) StudentIDsByAdvisor(_ context.Context, advisorUserID int64) ([]int64, error) {
	ids := []int64{}
	err := r.s.run(func(t *tables) error {
		for sid, l := range t.advisors {
			if l.AdvisorUserID == advisorUserID {
				ids = append(ids, sid)
			}
		}
		return nil
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, err
}

func (r *linkRepository) StudentIDsByCounsellor(_ context.Context, counsellorUserID int64) ([]int64, error) {
	ids := []int64{}
	err := r.s.run(func(t *tables) error {
		for sid, l := range t.counsellors {
			if l.CounsellorUserID == counsellorUserID {
				ids = append(ids, sid)
			}
		}
		return nil
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, err
}
