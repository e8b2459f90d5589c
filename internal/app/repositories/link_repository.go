package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
	"github.com/yigit/codetrack/internal/pkg/dberrors"
)

type linkRepository struct {
	*PostgresStore
}

// upsert writes a one-to-one link keyed by student_id, overwriting the previous staff member
func (r *linkRepository) upsert(ctx context.Context, table, staffColumn string, studentID, staffUserID int64) error {
	_, err := r.exec(ctx, r.sb.Insert(table).
		Columns("student_id", staffColumn, "assigned_at").
		Values(studentID, staffUserID, squirrel.Expr("NOW()")).
		Suffix(fmt.Sprintf("ON CONFLICT (student_id) DO UPDATE SET %s = EXCLUDED.%s, assigned_at = EXCLUDED.assigned_at",
			staffColumn, staffColumn)))
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("student or staff user not found")
		}
		return fmt.Errorf("error writing %s: %w", table, err)
	}
	return nil
}

func (r *linkRepository) studentIDs(ctx context.Context, table, staffColumn string, staffUserID int64) ([]int64, error) {
	rows, err := r.query(ctx, r.sb.Select("student_id").
		From(table).
		Where(squirrel.Eq{staffColumn: staffUserID}).
		OrderBy("student_id ASC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning student id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpsertAdvisor sets the advisor of a student
func (r *linkRepository) UpsertAdvisor(ctx context.Context, studentID, advisorUserID int64) error {
	return r.upsert(ctx, "student_advisors", "advisor_user_id", studentID, advisorUserID)
}

// UpsertCounsellor sets the counsellor of a student
func (r *linkRepository) UpsertCounsellor(ctx context.Context, studentID, counsellorUserID int64) error {
	return r.upsert(ctx, "student_counsellors", "counsellor_user_id", studentID, counsellorUserID)
}

// GetAdvisorLink retrieves the advisor link of a student
func (r *linkRepository) GetAdvisorLink(ctx context.Context, studentID int64) (*models.AdvisorLink, error) {
	row, err := r.queryRow(ctx, r.sb.Select("student_id", "advisor_user_id", "assigned_at").
		From("student_advisors").
		Where(squirrel.Eq{"student_id": studentID}))
	if err != nil {
		return nil, err
	}
	var l models.AdvisorLink
	if err := row.Scan(&l.StudentID, &l.AdvisorUserID, &l.AssignedAt); err != nil {
		return nil, notFoundOr(err, apperrors.ErrLinkNotFound, "get advisor link")
	}
	return &l, nil
}

// GetCounsellorLink retrieves the counsellor link of a student
func (r *linkRepository) GetCounsellorLink(ctx context.Context, studentID int64) (*models.CounsellorLink, error) {
	row, err := r.queryRow(ctx, r.sb.Select("student_id", "counsellor_user_id", "assigned_at").
		From("student_counsellors").
		Where(squirrel.Eq{"student_id": studentID}))
	if err != nil {
		return nil, err
	}
	var l models.CounsellorLink
	if err := row.Scan(&l.StudentID, &l.CounsellorUserID, &l.AssignedAt); err != nil {
		return nil, notFoundOr(err, apperrors.ErrLinkNotFound, "get counsellor link")
	}
	return &l, nil
}

// StudentIDsByAdvisor lists the students advised by a user
func (r *linkRepository) StudentIDsByAdvisor(ctx context.Context, advisorUserID int64) ([]int64, error) {
	return r.studentIDs(ctx, "student_advisors", "advisor_user_id", advisorUserID)
}

// StudentIDsByCounsellor lists the students counselled by a user
func (r *linkRepository) StudentIDsByCounsellor(ctx context.Context, counsellorUserID int64) ([]int64, error) {
	return r.studentIDs(ctx, "student_counsellors", "counsellor_user_id", counsellorUserID)
}
