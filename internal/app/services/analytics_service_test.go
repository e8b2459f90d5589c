package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/codetrack/internal/app/analytics"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

// campus is a department with a head, an advisor, a counsellor and three students:
// steady grows inside the window, stale was last approved 40 days ago and idle
// has no accounts.
type campus struct {
	*fixture
	dept       *models.Department
	hod        models.Identity
	advisor    models.Identity
	counsellor models.Identity

	steady, stale, idle             models.Identity
	steadyID, staleID, idleID       int64
	steadyAcct, steadyCF, staleAcct *models.PlatformAccount
}

func newCampus(t *testing.T) *campus {
	f := newFixture(t)
	c := &campus{fixture: f}
	c.dept = f.department("CSE")
	c.hod = f.staff(f.admin, models.RoleHOD, c.dept.ID)
	c.advisor = f.staff(c.hod, models.RoleAdvisor, c.dept.ID)
	c.counsellor = f.staff(c.advisor, models.RoleCounsellor, c.dept.ID)

	var st *models.Student
	c.steady, st = f.student("steady", &c.dept.ID)
	c.steadyID = st.ID
	c.stale, st = f.student("stale", &c.dept.ID)
	c.staleID = st.ID
	c.idle, st = f.student("idle", &c.dept.ID)
	c.idleID = st.ID

	f.linkCounsellor(c.counsellor, c.steadyID, c.staleID, c.idleID)
	_, err := f.delegation.AssignAdvisor(f.ctx, c.hod, c.advisor.UserID, []int64{c.steadyID})
	require.NoError(t, err)

	c.steadyAcct = f.account(c.steady, models.PlatformLeetCode)
	c.steadyCF = f.account(c.steady, models.PlatformCodeforces)
	c.staleAcct = f.account(c.stale, models.PlatformLeetCode)

	f.approved(c.steady, c.counsellor, c.steadyAcct.ID, 100, 10)
	f.approved(c.steady, c.counsellor, c.steadyAcct.ID, 130, 2)
	f.approved(c.steady, c.counsellor, c.steadyCF.ID, 40, 5)
	// pending snapshots never count
	f.submit(c.steady, c.steadyAcct.ID, 500, 0)

	f.approved(c.stale, c.counsellor, c.staleAcct.ID, 20, 50)
	f.approved(c.stale, c.counsellor, c.staleAcct.ID, 60, 40)
	return c
}

func TestMySummaryUsesApprovedSnapshotsOnly(t *testing.T) {
	c := newCampus(t)

	detail, err := c.analytics.MySummary(c.ctx, c.steady)
	require.NoError(t, err)
	assert.Equal(t, "CSE Department", detail.Student.DepartmentName)
	assert.Equal(t, 2, detail.Summary.LinkedAccounts)
	assert.Equal(t, 170, detail.Summary.TotalSolved)
	assert.Equal(t, 30, detail.Summary.TotalGrowth)
	require.NotNil(t, detail.Summary.LastActive)
	assert.True(t, detail.Summary.LastActive.Equal(models.DateOnly(c.now.AddDate(0, 0, -2))))

	_, err = c.analytics.MySummary(c.ctx, c.counsellor)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestAccountGrowth(t *testing.T) {
	c := newCampus(t)

	g, err := c.analytics.AccountGrowth(c.ctx, c.steady, c.steadyAcct.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, g.Delta)
	assert.InDelta(t, 30.0, g.Percent, 1e-9)
	assert.Equal(t, 130, g.LatestTotal)

	_, err = c.analytics.AccountGrowth(c.ctx, c.steady, c.steadyCF.ID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientSnapshotData)

	_, err = c.analytics.AccountGrowth(c.ctx, c.stale, c.steadyAcct.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestCounsellorViews(t *testing.T) {
	c := newCampus(t)

	sum, err := c.analytics.CounsellorSummary(c.ctx, c.counsellor)
	require.NoError(t, err)
	assert.Equal(t, c.dept.ID, sum.DepartmentID)
	assert.Equal(t, 3, sum.TotalStudents)
	assert.Equal(t, 230, sum.TotalSolved)
	assert.InDelta(t, 23.33, sum.AverageGrowth, 1e-9)
	assert.Equal(t, 1, sum.AtRiskCount, "students without accounts are not evaluated")

	rows, err := c.analytics.CounsellorStudents(c.ctx, c.counsellor)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	risky, err := c.analytics.CounsellorAtRisk(c.ctx, c.counsellor)
	require.NoError(t, err)
	require.Len(t, risky, 1)
	assert.Equal(t, c.staleID, risky[0].StudentID)
	assert.Equal(t, "Inactive (>30 days)", risky[0].Reason)

	_, err = c.analytics.CounsellorSummary(c.ctx, c.advisor)
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))

	unplaced := c.user("floating", models.RoleCounsellor)
	_, err = c.analytics.CounsellorStudents(c.ctx, unplaced)
	assert.ErrorIs(t, err, apperrors.ErrStaffDepartmentMissing)
}

func TestCounsellorViewsFlagStudentsWithoutAccounts(t *testing.T) {
	c := newCampus(t)
	c.analytics.policy.FlagWithoutAccounts = true

	risky, err := c.analytics.CounsellorAtRisk(c.ctx, c.counsellor)
	require.NoError(t, err)
	require.Len(t, risky, 2)
	assert.Equal(t, c.idleID, risky[1].StudentID)
	assert.Equal(t, analytics.ReasonNoAccounts, risky[1].Reason)
}

func TestAdvisorViews(t *testing.T) {
	c := newCampus(t)

	rows, err := c.analytics.AdvisorStudents(c.ctx, c.advisor)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, c.steadyID, rows[0].StudentID)
	assert.Equal(t, 170, rows[0].TotalSolved)
	assert.False(t, rows[0].AtRisk)

	detail, err := c.analytics.AdvisorStudentDetail(c.ctx, c.advisor, c.steadyID)
	require.NoError(t, err)
	assert.Equal(t, c.steadyID, detail.Student.StudentID)

	_, err = c.analytics.AdvisorStudentDetail(c.ctx, c.advisor, c.staleID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = c.analytics.AdvisorStudents(c.ctx, c.counsellor)
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))
}

func TestDepartmentLeaderboardAccess(t *testing.T) {
	c := newCampus(t)
	ece := c.department("ECE")
	otherHead := c.staff(c.admin, models.RoleHOD, ece.ID)

	for _, caller := range []models.Identity{c.admin, c.hod, c.counsellor} {
		board, err := c.analytics.DepartmentLeaderboard(c.ctx, caller, c.dept.ID)
		require.NoError(t, err)
		require.Len(t, board.Leaderboard, 3)
		assert.Equal(t, c.steadyID, board.Leaderboard[0].StudentID)
		assert.Equal(t, 170, board.Leaderboard[0].TotalSolved)
		assert.Equal(t, 1, board.Leaderboard[0].Rank)
		assert.Equal(t, 3, board.Leaderboard[2].Rank)
	}

	_, err := c.analytics.DepartmentLeaderboard(c.ctx, otherHead, c.dept.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = c.analytics.DepartmentLeaderboard(c.ctx, c.advisor, c.dept.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = c.analytics.DepartmentLeaderboard(c.ctx, c.admin, 999)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestInstitutionViews(t *testing.T) {
	c := newCampus(t)

	sum, err := c.analytics.InstitutionSummary(c.ctx, c.admin)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalStudents)
	assert.Equal(t, 1, sum.TotalDepartments)
	assert.Equal(t, 3, sum.TotalLinkedPlatforms)
	assert.Equal(t, 230, sum.TotalProblemsSolved)
	assert.Zero(t, sum.TotalGrowth)

	_, err = c.analytics.InstitutionSummary(c.ctx, c.hod)
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))

	perf, err := c.analytics.DepartmentPerformance(c.ctx, c.admin)
	require.NoError(t, err)
	require.Len(t, perf, 1)
	assert.Equal(t, 230, perf[0].TotalSolved)
	assert.InDelta(t, 76.67, perf[0].AverageSolved, 1e-9)

	top, err := c.analytics.TopPerformers(c.ctx, c.admin, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, c.steadyID, top[0].StudentID)
	assert.Equal(t, c.staleID, top[1].StudentID)
	assert.Equal(t, "CSE Department", top[0].DepartmentName)

	all, err := c.analytics.TopPerformers(c.ctx, c.admin, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	risky, err := c.analytics.InstitutionAtRisk(c.ctx, c.admin)
	require.NoError(t, err)
	require.Len(t, risky, 1)
	assert.Equal(t, c.staleID, risky[0].StudentID)
}
