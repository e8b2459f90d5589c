package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

type reviewSetup struct {
	*fixture
	student    models.Identity
	profile    *models.Student
	account    *models.PlatformAccount
	counsellor models.Identity
}

func newReviewSetup(t *testing.T) *reviewSetup {
	f := newFixture(t)
	cse := f.department("CSE")
	counsellor := f.staff(f.admin, models.RoleCounsellor, cse.ID)
	student, profile := f.student("stu", &cse.ID)
	f.linkCounsellor(counsellor, profile.ID)
	return &reviewSetup{
		fixture:    f,
		student:    student,
		profile:    profile,
		account:    f.account(student, models.PlatformLeetCode),
		counsellor: counsellor,
	}
}

func TestSubmitCreatesPendingSnapshot(t *testing.T) {
	r := newReviewSetup(t)

	s, err := r.reviews.Submit(r.ctx, r.student, SubmitSnapshotInput{
		AccountID: r.account.ID,
		Metrics:   models.SnapshotMetrics{TotalSolved: 120, ContestRating: ptr(1500), GlobalRank: ptr(20000)},
		Date:      time.Date(2024, 6, 14, 18, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, models.SnapshotPending, s.Status)
	assert.Equal(t, r.profile.ID, s.StudentID)
	assert.True(t, s.SnapshotDate.Equal(time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, s.ReviewedBy)

	sent := r.notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, r.counsellor.UserID, sent[0].userID)
	assert.Equal(t, EventSnapshotSubmitted, sent[0].event.Type)
	assert.Equal(t, s.ID, sent[0].event.SnapshotID)
}

func TestSubmitFailures(t *testing.T) {
	r := newReviewSetup(t)
	other, _ := r.peer()
	otherAccount := r.peerAccount(other)
	r.submit(r.student, r.account.ID, 10, 1)

	tests := []struct {
		name   string
		caller models.Identity
		in     SubmitSnapshotInput
		want   apperrors.Kind
	}{
		{"duplicate date", r.student, SubmitSnapshotInput{AccountID: r.account.ID, Date: r.now.AddDate(0, 0, -1)}, apperrors.KindConflict},
		{"foreign account", r.student, SubmitSnapshotInput{AccountID: otherAccount.ID, Date: r.now}, apperrors.KindForbidden},
		{"unknown account", r.student, SubmitSnapshotInput{AccountID: 999, Date: r.now}, apperrors.KindNotFound},
		{"no student profile", r.counsellor, SubmitSnapshotInput{AccountID: r.account.ID, Date: r.now}, apperrors.KindForbidden},
		{"negative solved", r.student, SubmitSnapshotInput{AccountID: r.account.ID, Date: r.now, Metrics: models.SnapshotMetrics{TotalSolved: -1}}, apperrors.KindValidation},
		{"missing date", r.student, SubmitSnapshotInput{AccountID: r.account.ID}, apperrors.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.reviews.Submit(r.ctx, tt.caller, tt.in)
			assert.Equal(t, tt.want, apperrors.KindOf(err))
		})
	}
}

// peer adds a second student in the same department without a counsellor
func (r *reviewSetup) peer() (models.Identity, *models.Student) {
	return r.fixture.student("other", r.profile.DepartmentID)
}

func (r *reviewSetup) peerAccount(owner models.Identity) *models.PlatformAccount {
	return r.fixture.account(owner, models.PlatformGitHub)
}

func TestApproveIsTerminal(t *testing.T) {
	r := newReviewSetup(t)
	s := r.submit(r.student, r.account.ID, 50, 0)

	approved, err := r.reviews.Approve(r.ctx, r.counsellor, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SnapshotApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, r.counsellor.UserID, *approved.ReviewedBy)
	require.NotNil(t, approved.ReviewedAt)
	assert.True(t, approved.ReviewedAt.Equal(r.now))
	assert.Nil(t, approved.Remarks)

	_, err = r.reviews.Approve(r.ctx, r.counsellor, s.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "already approved")

	_, err = r.reviews.Reject(r.ctx, r.counsellor, s.ID, "late change of heart")
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	got, err := r.store.Snapshots().GetByID(r.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SnapshotApproved, got.Status)

	sent := r.notifier.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, r.student.UserID, sent[1].userID)
	assert.Equal(t, EventSnapshotApproved, sent[1].event.Type)
}

func TestRejectStoresRemarks(t *testing.T) {
	r := newReviewSetup(t)
	first := r.submit(r.student, r.account.ID, 50, 1)
	second := r.submit(r.student, r.account.ID, 60, 0)

	rejected, err := r.reviews.Reject(r.ctx, r.counsellor, first.ID, "  ")
	require.NoError(t, err)
	assert.Equal(t, models.SnapshotRejected, rejected.Status)
	require.NotNil(t, rejected.Remarks)
	assert.Equal(t, DefaultRejectRemarks, *rejected.Remarks)

	rejected, err = r.reviews.Reject(r.ctx, r.counsellor, second.ID, "screenshot does not match")
	require.NoError(t, err)
	assert.Equal(t, "screenshot does not match", *rejected.Remarks)

	_, err = r.reviews.Approve(r.ctx, r.counsellor, second.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already rejected")

	last := r.notifier.sent()
	assert.Equal(t, EventSnapshotRejected, last[len(last)-1].event.Type)
}

func TestDecideRequiresAssignedCounsellor(t *testing.T) {
	r := newReviewSetup(t)
	s := r.submit(r.student, r.account.ID, 50, 0)

	dept := *r.profile.DepartmentID
	stranger := r.staff(r.admin, models.RoleCounsellor, dept)
	advisor := r.staff(r.admin, models.RoleAdvisor, dept)

	_, err := r.reviews.Approve(r.ctx, stranger, s.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = r.reviews.Reject(r.ctx, advisor, s.ID, "")
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))

	_, err = r.reviews.Approve(r.ctx, r.counsellor, 999)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	got, err := r.store.Snapshots().GetByID(r.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SnapshotPending, got.Status)
}

func TestPendingQueueOnlyAssignedStudents(t *testing.T) {
	r := newReviewSetup(t)
	mine := r.submit(r.student, r.account.ID, 50, 0)
	decided := r.submit(r.student, r.account.ID, 40, 3)
	_, err := r.reviews.Approve(r.ctx, r.counsellor, decided.ID)
	require.NoError(t, err)

	other, _ := r.peer()
	r.submit(other, r.peerAccount(other).ID, 10, 0)

	queue, err := r.reviews.PendingQueue(r.ctx, r.counsellor)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, mine.ID, queue[0].ID)
	assert.Equal(t, r.profile.RegisterNumber, queue[0].RegisterNumber)
	assert.Equal(t, models.PlatformLeetCode, queue[0].Platform)

	_, err = r.reviews.PendingQueue(r.ctx, r.student)
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))
}

func TestListAndLatestSnapshots(t *testing.T) {
	r := newReviewSetup(t)

	_, err := r.reviews.LatestSnapshot(r.ctx, r.student, r.account.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	r.submit(r.student, r.account.ID, 10, 5)
	newest := r.submit(r.student, r.account.ID, 20, 1)
	r.approved(r.student, r.counsellor, r.account.ID, 15, 3)

	all, err := r.reviews.ListSnapshots(r.ctx, r.student, r.account.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{20, 15, 10}, []int{all[0].TotalSolved, all[1].TotalSolved, all[2].TotalSolved})

	onlyApproved, err := r.reviews.ListSnapshots(r.ctx, r.student, r.account.ID, ptr(models.SnapshotApproved))
	require.NoError(t, err)
	require.Len(t, onlyApproved, 1)
	assert.Equal(t, 15, onlyApproved[0].TotalSolved)

	latest, err := r.reviews.LatestSnapshot(r.ctx, r.student, r.account.ID)
	require.NoError(t, err)
	assert.Equal(t, newest.ID, latest.ID)

	other, _ := r.peer()
	_, err = r.reviews.ListSnapshots(r.ctx, other, r.account.ID, nil)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}
