package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
	"github.com/yigit/codetrack/internal/pkg/dberrors"
)

type snapshotRepository struct {
	*PostgresStore
}

var snapshotColumns = []string{
	"ps.id", "ps.platform_account_id", "pa.student_id", "ps.total_solved", "ps.contest_rating", "ps.global_rank",
	"ps.snapshot_date", "ps.status", "ps.reviewed_by", "ps.reviewed_at", "ps.remarks", "ps.created_at",
}

func (r *snapshotRepository) selectSnapshots(extra ...string) squirrel.SelectBuilder {
	cols := append(append([]string{}, snapshotColumns...), extra...)
	return r.sb.Select(cols...).
		From("platform_snapshots ps").
		Join("platform_accounts pa ON pa.id = ps.platform_account_id")
}

func snapshotDest(s *models.Snapshot, status *string) []any {
	return []any{
		&s.ID, &s.AccountID, &s.StudentID, &s.TotalSolved, &s.ContestRating, &s.GlobalRank,
		&s.SnapshotDate, status, &s.ReviewedBy, &s.ReviewedAt, &s.Remarks, &s.CreatedAt,
	}
}

func scanSnapshot(row pgx.Row) (*models.Snapshot, error) {
	var (
		s      models.Snapshot
		status string
	)
	if err := row.Scan(snapshotDest(&s, &status)...); err != nil {
		return nil, err
	}
	s.Status = models.SnapshotStatus(status)
	return &s, nil
}

// Create records a pending snapshot
func (r *snapshotRepository) Create(ctx context.Context, snapshot *models.Snapshot) error {
	row, err := r.queryRow(ctx, r.sb.Insert("platform_snapshots").
		Columns("platform_account_id", "total_solved", "contest_rating", "global_rank", "snapshot_date", "status").
		Values(snapshot.AccountID, snapshot.TotalSolved, snapshot.ContestRating, snapshot.GlobalRank,
			snapshot.SnapshotDate, string(snapshot.Status)).
		Suffix("RETURNING id, created_at"))
	if err != nil {
		return err
	}
	if err := row.Scan(&snapshot.ID, &snapshot.CreatedAt); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "platform_snapshots_account_date_key"):
			return apperrors.ErrSnapshotAlreadyExists
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrAccountNotFound
		}
		return fmt.Errorf("error creating snapshot: %w", err)
	}
	return nil
}

// GetByID retrieves a snapshot by ID
func (r *snapshotRepository) GetByID(ctx context.Context, id int64) (*models.Snapshot, error) {
	row, err := r.queryRow(ctx, r.selectSnapshots().Where(squirrel.Eq{"ps.id": id}))
	if err != nil {
		return nil, err
	}
	s, err := scanSnapshot(row)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrSnapshotNotFound, "get snapshot")
	}
	return s, nil
}

// ExistsForDate checks whether the account already has a snapshot on date
func (r *snapshotRepository) ExistsForDate(ctx context.Context, accountID int64, date time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM platform_snapshots WHERE platform_account_id = $1 AND snapshot_date = $2)`,
		accountID, models.DateOnly(date)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking snapshot existence: %w", err)
	}
	return exists, nil
}

// ListByAccount lists the snapshots of an account, newest first
func (r *snapshotRepository) ListByAccount(ctx context.Context, accountID int64, query models.SnapshotQuery) ([]*models.Snapshot, error) {
	b := r.selectSnapshots().
		Where(squirrel.Eq{"ps.platform_account_id": accountID}).
		OrderBy("ps.snapshot_date DESC", "ps.id DESC")
	if query.Status != nil {
		b = b.Where(squirrel.Eq{"ps.status": string(*query.Status)})
	}
	if query.Limit > 0 {
		b = b.Limit(uint64(query.Limit))
	}

	rows, err := r.query(ctx, b)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSnapshot)
}

// Decide applies a review decision only while the snapshot is pending
func (r *snapshotRepository) Decide(ctx context.Context, id int64, decision models.SnapshotDecision) error {
	tag, err := r.exec(ctx, r.sb.Update("platform_snapshots").
		SetMap(map[string]interface{}{
			"status":      string(decision.Status),
			"reviewed_by": decision.ReviewerID,
			"reviewed_at": decision.DecidedAt,
			"remarks":     decision.Remarks,
		}).
		Where(squirrel.Eq{"id": id, "status": string(models.SnapshotPending)}))
	if err != nil {
		return fmt.Errorf("error deciding snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return apperrors.NewConflictError(fmt.Sprintf("snapshot is already %s", current.Status))
	}
	return nil
}

// ListPendingForCounsellor lists pending snapshots of the students linked to a counsellor, oldest first
func (r *snapshotRepository) ListPendingForCounsellor(ctx context.Context, counsellorUserID int64) ([]*models.PendingReview, error) {
	b := r.selectSnapshots("u.full_name", "s.register_number", "pa.platform", "pa.username").
		Join("students s ON s.id = pa.student_id").
		Join("users u ON u.id = s.user_id").
		Join("student_counsellors sc ON sc.student_id = s.id").
		Where(squirrel.Eq{"sc.counsellor_user_id": counsellorUserID, "ps.status": string(models.SnapshotPending)}).
		OrderBy("ps.snapshot_date ASC", "ps.id ASC")

	rows, err := r.query(ctx, b)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row pgx.Row) (*models.PendingReview, error) {
		var (
			p        models.PendingReview
			status   string
			platform string
		)
		dest := append(snapshotDest(&p.Snapshot, &status), &p.StudentName, &p.RegisterNumber, &platform, &p.Username)
		if err := row.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning pending snapshot: %w", err)
		}
		p.Status = models.SnapshotStatus(status)
		p.Platform = models.Platform(platform)
		return &p, nil
	})
}
