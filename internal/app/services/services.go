// Package services holds the business operations. Every operation takes the
// caller's resolved Identity explicitly and reports failures as apperrors kinds.
package services

import (
	"time"

	"github.com/yigit/codetrack/internal/app/models"
)

// Review event types published to interested users
const (
	EventSnapshotSubmitted = "snapshot.submitted"
	EventSnapshotApproved  = "snapshot.approved"
	EventSnapshotRejected  = "snapshot.rejected"
)

// ReviewEvent describes a change in a snapshot's review lifecycle
type ReviewEvent struct {
	Type       string                `json:"type"`
	SnapshotID int64                 `json:"snapshotId"`
	AccountID  int64                 `json:"accountId"`
	StudentID  int64                 `json:"studentId"`
	Status     models.SnapshotStatus `json:"status"`
	Remarks    *string               `json:"remarks,omitempty"`
	OccurredAt time.Time             `json:"occurredAt"`
}

// ReviewNotifier delivers review events to a user. Delivery is best-effort and
// must not block.
type ReviewNotifier interface {
	NotifyUser(userID int64, event ReviewEvent)
}

type noopNotifier struct{}

func (noopNotifier) NotifyUser(int64, ReviewEvent) {}

// NoopNotifier drops every event
var NoopNotifier ReviewNotifier = noopNotifier{}

// AssignmentResult reports per-student outcomes of a batch assignment
type AssignmentResult struct {
	Assigned []int64 `json:"assigned"`
	Skipped  []int64 `json:"skipped"`
}

// AssignedCount is the number of students linked
func (r AssignmentResult) AssignedCount() int { return len(r.Assigned) }

// SkippedCount is the number of students left unchanged
func (r AssignmentResult) SkippedCount() int { return len(r.Skipped) }

func (r AssignmentResult) record(studentID int64, assigned bool) AssignmentResult {
	if assigned {
		r.Assigned = append(r.Assigned, studentID)
	} else {
		r.Skipped = append(r.Skipped, studentID)
	}
	return r
}

func newAssignmentResult() AssignmentResult {
	return AssignmentResult{Assigned: []int64{}, Skipped: []int64{}}
}
