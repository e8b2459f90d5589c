package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	appauth "github.com/yigit/codetrack/internal/app/auth"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/repositories"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
	"github.com/yigit/codetrack/internal/pkg/logger"
)

// DefaultRejectRemarks is stored when a rejection carries no remarks
const DefaultRejectRemarks = "Rejected by counsellor"

// SubmitSnapshotInput is a student's measurement for one account and day
type SubmitSnapshotInput struct {
	AccountID int64
	Metrics   models.SnapshotMetrics
	Date      time.Time
}

func (in SubmitSnapshotInput) validate() error {
	if in.AccountID <= 0 {
		return apperrors.NewValidationError("platform account ID must be positive")
	}
	if in.Date.IsZero() {
		return apperrors.NewValidationError("snapshot date is required")
	}
	if in.Metrics.TotalSolved < 0 {
		return apperrors.NewValidationError("total solved cannot be negative")
	}
	if in.Metrics.ContestRating != nil && *in.Metrics.ContestRating < 0 {
		return apperrors.NewValidationError("contest rating cannot be negative")
	}
	if in.Metrics.GlobalRank != nil && *in.Metrics.GlobalRank <= 0 {
		return apperrors.NewValidationError("global rank must be positive")
	}
	return nil
}

// ReviewService runs the snapshot lifecycle: students submit, the linked
// counsellor approves or rejects exactly once.
type ReviewService struct {
	store     repositories.Store
	authority *appauth.RoleAuthority
	notifier  ReviewNotifier
	now       func() time.Time
}

// NewReviewService creates a new review service. A nil notifier drops events.
func NewReviewService(store repositories.Store, authority *appauth.RoleAuthority, notifier ReviewNotifier) *ReviewService {
	if notifier == nil {
		notifier = NoopNotifier
	}
	return &ReviewService{
		store:     store,
		authority: authority,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Submit records a pending snapshot for one of the caller's accounts
func (s *ReviewService) Submit(ctx context.Context, caller models.Identity, in SubmitSnapshotInput) (*models.Snapshot, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var (
		snapshot   *models.Snapshot
		counsellor int64
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		student, err := studentProfile(ctx, tx, caller)
		if err != nil {
			return err
		}
		if _, err := ownedAccount(ctx, tx, student, in.AccountID); err != nil {
			return err
		}

		date := models.DateOnly(in.Date)
		exists, err := tx.Snapshots().ExistsForDate(ctx, in.AccountID, date)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewConflictError(fmt.Sprintf("snapshot for date %s already exists", date.Format(time.DateOnly)))
		}

		snapshot = &models.Snapshot{
			AccountID:       in.AccountID,
			SnapshotMetrics: in.Metrics,
			SnapshotDate:    date,
			Status:          models.SnapshotPending,
		}
		if err := tx.Snapshots().Create(ctx, snapshot); err != nil {
			return err
		}

		link, err := tx.Links().GetCounsellorLink(ctx, student.ID)
		switch {
		case err == nil:
			counsellor = link.CounsellorUserID
		case apperrors.KindOf(err) != apperrors.KindNotFound:
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("snapshotID", snapshot.ID).
		Int64("accountID", snapshot.AccountID).
		Str("date", snapshot.SnapshotDate.Format(time.DateOnly)).
		Msg("Snapshot submitted")

	if counsellor != 0 {
		s.notifier.NotifyUser(counsellor, s.event(EventSnapshotSubmitted, snapshot))
	}
	return snapshot, nil
}

// Approve moves a pending snapshot to approved
func (s *ReviewService) Approve(ctx context.Context, caller models.Identity, snapshotID int64) (*models.Snapshot, error) {
	return s.decide(ctx, caller, snapshotID, models.SnapshotApproved, nil)
}

// Reject moves a pending snapshot to rejected. Blank remarks are replaced by
// DefaultRejectRemarks.
func (s *ReviewService) Reject(ctx context.Context, caller models.Identity, snapshotID int64, remarks string) (*models.Snapshot, error) {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		remarks = DefaultRejectRemarks
	}
	return s.decide(ctx, caller, snapshotID, models.SnapshotRejected, &remarks)
}

func (s *ReviewService) decide(ctx context.Context, caller models.Identity, snapshotID int64, status models.SnapshotStatus, remarks *string) (*models.Snapshot, error) {
	if !s.authority.IsCounsellor(caller) {
		return nil, apperrors.NewPermissionDeniedError("counsellor role required")
	}

	var (
		decided       *models.Snapshot
		studentUserID int64
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		snapshot, err := tx.Snapshots().GetByID(ctx, snapshotID)
		if err != nil {
			return err
		}

		link, err := tx.Links().GetCounsellorLink(ctx, snapshot.StudentID)
		if err != nil && apperrors.KindOf(err) != apperrors.KindNotFound {
			return err
		}
		if link == nil || link.CounsellorUserID != caller.UserID {
			return apperrors.NewForbiddenError("student is not assigned to you")
		}

		if snapshot.Status != models.SnapshotPending {
			return apperrors.NewConflictError(fmt.Sprintf("snapshot is already %s", snapshot.Status))
		}

		decision := models.SnapshotDecision{
			Status:     status,
			ReviewerID: caller.UserID,
			DecidedAt:  s.now().UTC(),
			Remarks:    remarks,
		}
		if err := tx.Snapshots().Decide(ctx, snapshotID, decision); err != nil {
			return err
		}

		if decided, err = tx.Snapshots().GetByID(ctx, snapshotID); err != nil {
			return err
		}
		student, err := tx.Students().GetByID(ctx, snapshot.StudentID)
		if err != nil {
			return err
		}
		studentUserID = student.UserID
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("snapshotID", snapshotID).
		Int64("reviewerID", caller.UserID).
		Str("status", string(status)).
		Msg("Snapshot reviewed")

	eventType := EventSnapshotApproved
	if status == models.SnapshotRejected {
		eventType = EventSnapshotRejected
	}
	s.notifier.NotifyUser(studentUserID, s.event(eventType, decided))
	return decided, nil
}

// ListSnapshots returns the snapshots of one of the caller's accounts, newest
// first, optionally filtered by status
func (s *ReviewService) ListSnapshots(ctx context.Context, caller models.Identity, accountID int64, status *models.SnapshotStatus) ([]*models.Snapshot, error) {
	student, err := studentProfile(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	if _, err := ownedAccount(ctx, s.store, student, accountID); err != nil {
		return nil, err
	}
	return s.store.Snapshots().ListByAccount(ctx, accountID, models.SnapshotQuery{Status: status})
}

// LatestSnapshot returns the most recent snapshot of one of the caller's
// accounts regardless of its review status
func (s *ReviewService) LatestSnapshot(ctx context.Context, caller models.Identity, accountID int64) (*models.Snapshot, error) {
	student, err := studentProfile(ctx, s.store, caller)
	if err != nil {
		return nil, err
	}
	if _, err := ownedAccount(ctx, s.store, student, accountID); err != nil {
		return nil, err
	}
	list, err := s.store.Snapshots().ListByAccount(ctx, accountID, models.SnapshotQuery{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, apperrors.NewNotFoundError("no snapshots found")
	}
	return list[0], nil
}

// PendingQueue lists pending snapshots of the students assigned to the caller
func (s *ReviewService) PendingQueue(ctx context.Context, caller models.Identity) ([]*models.PendingReview, error) {
	if !s.authority.IsCounsellor(caller) {
		return nil, apperrors.NewPermissionDeniedError("counsellor role required")
	}
	return s.store.Snapshots().ListPendingForCounsellor(ctx, caller.UserID)
}

func (s *ReviewService) event(eventType string, snapshot *models.Snapshot) ReviewEvent {
	return ReviewEvent{
		Type:       eventType,
		SnapshotID: snapshot.ID,
		AccountID:  snapshot.AccountID,
		StudentID:  snapshot.StudentID,
		Status:     snapshot.Status,
		Remarks:    snapshot.Remarks,
		OccurredAt: s.now().UTC(),
	}
}
