package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

type snapshotRepository struct {
	s *Store
}

func (r *snapshotRepository) Create(_ context.Context, snapshot *models.Snapshot) error {
	return r.s.run(func(t *tables) error {
		account, ok := t.accounts[snapshot.AccountID]
		if !ok {
			return apperrors.ErrAccountNotFound
		}
		date := models.DateOnly(snapshot.SnapshotDate)
		for _, existing := range t.snapshots {
			if existing.AccountID == snapshot.AccountID && existing.SnapshotDate.Equal(date) {
				return apperrors.ErrSnapshotAlreadyExists
			}
		}
		if snapshot.Status == "" {
			snapshot.Status = models.SnapshotPending
		}
		snapshot.ID = t.nextID()
		snapshot.StudentID = account.StudentID
		snapshot.SnapshotDate = date
		snapshot.CreatedAt = r.s.db.now()
		t.snapshots[snapshot.ID] = *snapshot
		return nil
	})
}

func (r *snapshotRepository) GetByID(_ context.Context, id int64) (*models.Snapshot, error) {
	var out *models.Snapshot
	err := r.s.run(func(t *tables) error {
		snap, ok := t.snapshots[id]
		if !ok {
			return apperrors.ErrSnapshotNotFound
		}
		out = &snap
		return nil
	})
	return out, err
}

func (r *snapshotRepository) ExistsForDate(_ context.Context, accountID int64, date time.Time) (bool, error) {
	date = models.DateOnly(date)
	var exists bool
	err := r.s.run(func(t *tables) error {
		for _, snap := range t.snapshots {
			if snap.AccountID == accountID && snap.SnapshotDate.Equal(date) {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, err
}

func newestFirst(list []*models.Snapshot) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].SnapshotDate.Equal(list[j].SnapshotDate) {
			return list[i].SnapshotDate.After(list[j].SnapshotDate)
		}
		return list[i].ID > list[j].ID
	})
}

func (r *snapshotRepository) ListByAccount(_ context.Context, accountID int64, query models.SnapshotQuery) ([]*models.Snapshot, error) {
	out := []*models.Snapshot{}
	err := r.s.run(func(t *tables) error {
		for _, snap := range t.snapshots {
			if snap.AccountID != accountID {
				continue
			}
			if query.Status != nil && snap.Status != *query.Status {
				continue
			}
			snap := snap
			out = append(out, &snap)
		}
		return nil
	})
	newestFirst(out)
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, err
}

func (r *snapshotRepository) Decide(_ context.Context, id int64, decision models.SnapshotDecision) error {
	return r.s.run(func(t *tables) error {
		snap, ok := t.snapshots[id]
		if !ok {
			return apperrors.ErrSnapshotNotFound
		}
		if snap.Status != models.SnapshotPending {
			return apperrors.NewConflictError(fmt.Sprintf("snapshot is already %s", snap.Status))
		}
		reviewer := decision.ReviewerID
		decidedAt := decision.DecidedAt
		snap.Status = decision.Status
		snap.ReviewedBy = &reviewer
		snap.ReviewedAt = &decidedAt
		snap.Remarks = decision.Remarks
		t.snapshots[id] = snap
		return nil
	})
}

func (r *snapshotRepository) ListPendingForCounsellor(_ context.Context, counsellorUserID int64) ([]*models.PendingReview, error) {
	out := []*models.PendingReview{}
	err := r.s.run(func(t *tables) error {
		for _, snap := range t.snapshots {
			if snap.Status != models.SnapshotPending {
				continue
			}
			link, ok := t.counsellors[snap.StudentID]
			if !ok || link.CounsellorUserID != counsellorUserID {
				continue
			}
			student := t.students[snap.StudentID]
			account := t.accounts[snap.AccountID]
			out = append(out, &models.PendingReview{
				Snapshot:       snap,
				StudentName:    t.users[student.UserID].FullName,
				RegisterNumber: student.RegisterNumber,
				Platform:       account.Platform,
				Username:       account.Username,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SnapshotDate.Equal(out[j].SnapshotDate) {
			return out[i].SnapshotDate.Before(out[j].SnapshotDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}
