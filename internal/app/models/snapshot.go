package models

import "time"

// SnapshotStatus is the review state of a snapshot.
type SnapshotStatus string

const (
	SnapshotPending  SnapshotStatus = "pending"
	SnapshotApproved SnapshotStatus = "approved"
	SnapshotRejected SnapshotStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s SnapshotStatus) IsTerminal() bool {
	return s == SnapshotApproved || s == SnapshotRejected
}

// SnapshotMetrics are the values a student reports for one day.
type SnapshotMetrics struct {
	TotalSolved   int  `json:"totalSolved"`
	ContestRating *int `json:"contestRating,omitempty"`
	GlobalRank    *int `json:"globalRank,omitempty"`
}

// Snapshot is a dated measurement for one platform account.
type Snapshot struct {
	ID        int64 `json:"id" db:"id"`
	AccountID int64 `json:"accountId" db:"platform_account_id"`
	// StudentID is the owner of the account, resolved on reads
	StudentID int64 `json:"studentId"`
	SnapshotMetrics
	SnapshotDate time.Time      `json:"snapshotDate" db:"snapshot_date"`
	Status       SnapshotStatus `json:"status" db:"status"`
	ReviewedBy   *int64         `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt   *time.Time     `json:"reviewedAt,omitempty" db:"reviewed_at"`
	Remarks      *string        `json:"remarks,omitempty" db:"remarks"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
}

// SnapshotDecision is a terminal review outcome written by a counsellor.
type SnapshotDecision struct {
	Status     SnapshotStatus
	ReviewerID int64
	DecidedAt  time.Time
	Remarks    *string
}

// SnapshotQuery filters snapshot listings. Results are ordered by date, newest first.
type SnapshotQuery struct {
	Status *SnapshotStatus
	Limit  int
}

// PendingReview is a pending snapshot with enough context for a reviewer.
type PendingReview struct {
	Snapshot
	StudentName    string   `json:"studentName"`
	RegisterNumber string   `json:"registerNumber"`
	Platform       Platform `json:"platform"`
	Username       string   `json:"username"`
}

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
