package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/repositories"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
	"github.com/yigit/codetrack/internal/pkg/auth"
)

func TestCanCreateRole(t *testing.T) {
	f := newFixture(t)
	cse := f.department("CSE")
	ece := f.department("ECE")

	hod := f.staff(f.admin, models.RoleHOD, cse.ID)
	advisor := f.staff(hod, models.RoleAdvisor, cse.ID)
	counsellor := f.staff(advisor, models.RoleCounsellor, cse.ID)
	student, _ := f.student("stu", &cse.ID)
	spoofed := f.user("spoof", models.RoleHOD)

	tests := []struct {
		name    string
		creator models.Identity
		role    models.Role
		dept    int64
		want    bool
	}{
		{"admin creates hod anywhere", f.admin, models.RoleHOD, ece.ID, true},
		{"admin creates counsellor", f.admin, models.RoleCounsellor, ece.ID, true},
		{"admin cannot create admin", f.admin, models.RoleAdmin, cse.ID, false},
		{"head creates advisor in own department", hod, models.RoleAdvisor, cse.ID, true},
		{"head cannot create counsellor", hod, models.RoleCounsellor, cse.ID, false},
		{"head cannot create hod", hod, models.RoleHOD, cse.ID, false},
		{"head cannot create advisor elsewhere", hod, models.RoleAdvisor, ece.ID, false},
		{"advisor creates counsellor in own department", advisor, models.RoleCounsellor, cse.ID, true},
		{"advisor cannot create counsellor elsewhere", advisor, models.RoleCounsellor, ece.ID, false},
		{"advisor cannot create advisor", advisor, models.RoleAdvisor, cse.ID, false},
		{"counsellor creates nothing", counsellor, models.RoleCounsellor, cse.ID, false},
		{"student creates nothing", student, models.RoleAdvisor, cse.ID, false},
		{"hod tag without headship", spoofed, models.RoleAdvisor, cse.ID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.delegation.CanCreateRole(f.ctx, tt.creator, tt.role, tt.dept)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateStaffSecondHeadConflicts(t *testing.T) {
	f := newFixture(t)
	cse := f.department("CSE")

	first := f.staff(f.admin, models.RoleHOD, cse.ID)

	_, err := f.delegation.CreateStaff(f.ctx, f.admin, models.RoleHOD, cse.ID, models.NewStaffIdentity{
		Email: "second.hod@codetrack.test", Password: "secret123", FullName: "Second Head",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	exists, err := f.store.Users().EmailExists(f.ctx, "second.hod@codetrack.test")
	require.NoError(t, err)
	assert.False(t, exists, "failed creation must not leave a user behind")

	dept, err := f.store.Departments().GetByHeadUser(f.ctx, first.UserID)
	require.NoError(t, err)
	assert.Equal(t, cse.ID, dept.ID)

	isHead, err := f.authority.IsHeadOf(f.ctx, first, &cse.ID)
	require.NoError(t, err)
	assert.True(t, isHead)
}

func TestCreateStaffHeadCannotCreateCounsellor(t *testing.T) {
	f := newFixture(t)
	cse := f.department("CSE")
	hod := f.staff(f.admin, models.RoleHOD, cse.ID)

	_, err := f.delegation.CreateStaff(f.ctx, hod, models.RoleCounsellor, cse.ID, models.NewStaffIdentity{
		Email: "c@codetrack.test", Password: "secret123", FullName: "Counsellor",
	})
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))

	sa, err := f.delegation.CreateStaff(f.ctx, hod, models.RoleAdvisor, cse.ID, models.NewStaffIdentity{
		Email: "a@codetrack.test", Password: "secret123", FullName: "Advisor",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdvisor, sa.Role)
	require.NotNil(t, sa.CreatedBy)
	assert.Equal(t, hod.UserID, *sa.CreatedBy)

	user, err := f.store.Users().GetByID(f.ctx, sa.UserID)
	require.NoError(t, err)
	assert.True(t, user.Roles.Has(models.RoleAdvisor))
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestCreateStaffFailures(t *testing.T) {
	f := newFixture(t)
	cse := f.department("CSE")
	f.staff(f.admin, models.RoleAdvisor, cse.ID)
	student, _ := f.student("stu", &cse.ID)

	valid := models.NewStaffIdentity{Email: "new@codetrack.test", Password: "secret123", FullName: "New Staff"}

	tests := []struct {
		name     string
		creator  models.Identity
		role     models.Role
		dept     int64
		identity models.NewStaffIdentity
		want     apperrors.Kind
	}{
		{"unknown department", f.admin, models.RoleAdvisor, 999, valid, apperrors.KindNotFound},
		{"not a staff role", f.admin, models.RoleStudent, cse.ID, valid, apperrors.KindValidation},
		{"student creator", student, models.RoleAdvisor, cse.ID, valid, apperrors.KindPermissionDenied},
		{"bad email", f.admin, models.RoleAdvisor, cse.ID, models.NewStaffIdentity{Email: "nope", Password: "secret123", FullName: "X"}, apperrors.KindValidation},
		{"short password", f.admin, models.RoleAdvisor, cse.ID, models.NewStaffIdentity{Email: "x@codetrack.test", Password: "123", FullName: "X"}, apperrors.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.delegation.CreateStaff(f.ctx, tt.creator, tt.role, tt.dept, tt.identity)
			assert.Equal(t, tt.want, apperrors.KindOf(err))
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.delegation.CreateStaff(f.ctx, f.admin, models.RoleAdvisor, cse.ID, valid)
		require.NoError(t, err)
		_, err = f.delegation.CreateStaff(f.ctx, f.admin, models.RoleCounsellor, cse.ID, models.NewStaffIdentity{
			Email: "NEW@codetrack.test", Password: "secret123", FullName: "Again",
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestAssignAdvisorScopesHeadsAndOverwrites(t *testing.T) {
	f := newFixture(t)
	cse := f.department("CSE")
	ece := f.department("ECE")
	hod := f.staff(f.admin, models.RoleHOD, cse.ID)
	first := f.staff(hod, models.RoleAdvisor, cse.ID)
	second := f.staff(hod, models.RoleAdvisor, cse.ID)

	_, inside := f.student("in", &cse.ID)
	_, outside := f.student("out", &ece.ID)

	res, err := f.delegation.AssignAdvisor(f.ctx, hod, first.UserID, []int64{inside.ID, outside.ID, 999, inside.ID})
	require.NoError(t, err)
	assert.Equal(t, []int64{inside.ID}, res.Assigned)
	assert.Equal(t, []int64{outside.ID, 999}, res.Skipped)

	res, err = f.delegation.AssignAdvisor(f.ctx, f.admin, second.UserID, []int64{inside.ID, outside.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, res.AssignedCount())
	assert.Zero(t, res.SkippedCount())

	link, err := f.store.Links().GetAdvisorLink(f.ctx, inside.ID)
	require.NoError(t, err)
	assert.Equal(t, second.UserID, link.AdvisorUserID)

	ids, err := f.store.Links().StudentIDsByAdvisor(f.ctx, first.UserID)
	require.NoError(t, err)
	assert.Empty(t, ids, "reassignment replaces the previous advisor")
}

func TestAssignAdvisorRejectsCallerAndTarget(t *testing.T) {
	f := newFixture(t)
	cse := f.department("CSE")
	advisor := f.staff(f.admin, models.RoleAdvisor, cse.ID)
	counsellor := f.staff(f.admin, models.RoleCounsellor, cse.ID)
	spoofed := f.user("spoof", models.RoleHOD)
	_, st := f.student("stu", &cse.ID)

	_, err := f.delegation.AssignAdvisor(f.ctx, f.admin, counsellor.UserID, []int64{st.ID})
	assert.Equal(t, apperrors.KindInvalidTarget, apperrors.KindOf(err))

	_, err = f.delegation.AssignAdvisor(f.ctx, f.admin, 999, []int64{st.ID})
	assert.Equal(t, apperrors.KindInvalidTarget, apperrors.KindOf(err))

	_, err = f.delegation.AssignAdvisor(f.ctx, advisor, advisor.UserID, []int64{st.ID})
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))

	_, err = f.delegation.AssignAdvisor(f.ctx, spoofed, advisor.UserID, []int64{st.ID})
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))

	_, err = f.store.Links().GetAdvisorLink(f.ctx, st.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestAssignCounsellorAdvisorSkipsUnlinkedStudents(t *testing.T) {
	f := newFixture(t)
	cse := f.department("CSE")
	advisor := f.staff(f.admin, models.RoleAdvisor, cse.ID)
	other := f.staff(f.admin, models.RoleAdvisor, cse.ID)
	counsellor := f.staff(advisor, models.RoleCounsellor, cse.ID)

	_, mine := f.student("mine", &cse.ID)
	_, theirs := f.student("theirs", &cse.ID)
	_, nobody := f.student("nobody", &cse.ID)

	_, err := f.delegation.AssignAdvisor(f.ctx, f.admin, advisor.UserID, []int64{mine.ID})
	require.NoError(t, err)
	_, err = f.delegation.AssignAdvisor(f.ctx, f.admin, other.UserID, []int64{theirs.ID})
	require.NoError(t, err)

	res, err := f.delegation.AssignCounsellor(f.ctx, advisor, counsellor.UserID, []int64{mine.ID, theirs.ID, nobody.ID})
	require.NoError(t, err)
	assert.Equal(t, []int64{mine.ID}, res.Assigned)
	assert.ElementsMatch(t, []int64{theirs.ID, nobody.ID}, res.Skipped)

	ids, err := f.store.Links().StudentIDsByCounsellor(f.ctx, counsellor.UserID)
	require.NoError(t, err)
	assert.Equal(t, []int64{mine.ID}, ids)
}

func TestAssignCounsellorCallersAndOverwrite(t *testing.T) {
	f := newFixture(t)
	cse := f.department("CSE")
	hod := f.staff(f.admin, models.RoleHOD, cse.ID)
	advisor := f.staff(hod, models.RoleAdvisor, cse.ID)
	c1 := f.staff(f.admin, models.RoleCounsellor, cse.ID)
	c2 := f.staff(f.admin, models.RoleCounsellor, cse.ID)
	studentID, st := f.student("stu", &cse.ID)

	_, err := f.delegation.AssignCounsellor(f.ctx, c1, c2.UserID, []int64{st.ID})
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))

	_, err = f.delegation.AssignCounsellor(f.ctx, studentID, c1.UserID, []int64{st.ID})
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))

	_, err = f.delegation.AssignCounsellor(f.ctx, hod, advisor.UserID, []int64{st.ID})
	assert.Equal(t, apperrors.KindInvalidTarget, apperrors.KindOf(err))

	res, err := f.delegation.AssignCounsellor(f.ctx, hod, c1.UserID, []int64{st.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, res.AssignedCount())

	res, err = f.delegation.AssignCounsellor(f.ctx, f.admin, c2.UserID, []int64{st.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, res.AssignedCount())

	link, err := f.store.Links().GetCounsellorLink(f.ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, c2.UserID, link.CounsellorUserID)

	ids, err := f.store.Links().StudentIDsByCounsellor(f.ctx, c1.UserID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListTeam(t *testing.T) {
	f := newFixture(t)
	cse := f.department("CSE")
	ece := f.department("ECE")
	hod := f.staff(f.admin, models.RoleHOD, cse.ID)
	advisor := f.staff(hod, models.RoleAdvisor, cse.ID)
	f.staff(advisor, models.RoleCounsellor, cse.ID)
	f.staff(f.admin, models.RoleCounsellor, ece.ID)
	counsellor := f.staff(f.admin, models.RoleCounsellor, cse.ID)

	all, err := f.delegation.ListTeam(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	team, err := f.delegation.ListTeam(f.ctx, hod)
	require.NoError(t, err)
	assert.Len(t, team, 3)
	for _, m := range team {
		assert.Equal(t, cse.ID, m.DepartmentID)
		assert.NotEqual(t, models.RoleHOD, m.Role)
	}

	team, err = f.delegation.ListTeam(f.ctx, advisor)
	require.NoError(t, err)
	assert.Len(t, team, 2)
	for _, m := range team {
		assert.Equal(t, models.RoleCounsellor, m.Role)
		assert.Equal(t, cse.ID, m.DepartmentID)
	}

	_, err = f.delegation.ListTeam(f.ctx, counsellor)
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))
}

func TestAssignStudentDepartment(t *testing.T) {
	f := newFixture(t)
	cse := f.department("CSE")
	studentID, st := f.student("stu", nil)

	_, err := f.delegation.AssignStudentDepartment(f.ctx, studentID, st.ID, cse.ID)
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))

	_, err = f.delegation.AssignStudentDepartment(f.ctx, f.admin, 999, cse.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = f.delegation.AssignStudentDepartment(f.ctx, f.admin, st.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)

	out, err := f.delegation.AssignStudentDepartment(f.ctx, f.admin, st.ID, cse.ID)
	require.NoError(t, err)
	assert.Equal(t, "CSE Department", out.DepartmentName)

	got, err := f.store.Students().GetByID(f.ctx, st.ID)
	require.NoError(t, err)
	assert.True(t, got.InDepartment(cse.ID))
}

// rootReads counts repository lookups made outside a transaction.
type rootReads struct {
	repositories.Store
	n int
}

func (r *rootReads) Users() repositories.UserRepository             { r.n++; return r.Store.Users() }
func (r *rootReads) Departments() repositories.DepartmentRepository { r.n++; return r.Store.Departments() }
func (r *rootReads) Staff() repositories.StaffRepository            { r.n++; return r.Store.Staff() }

func TestCreateStaffReadsAuthorityInTransaction(t *testing.T) {
	f := newFixture(t)
	cse := f.department("CSE")
	ece := f.department("ECE")
	hod := f.staff(f.admin, models.RoleHOD, cse.ID)

	counted := &rootReads{Store: f.store}
	svc := NewDelegationService(counted, f.authority, &auth.BcryptHasher{Cost: bcrypt.MinCost})

	_, err := svc.CreateStaff(f.ctx, hod, models.RoleAdvisor, cse.ID, models.NewStaffIdentity{
		Email: "advisor@codetrack.test", Password: "secret123", FullName: "Advisor",
	})
	require.NoError(t, err)

	_, err = svc.CreateStaff(f.ctx, hod, models.RoleAdvisor, ece.ID, models.NewStaffIdentity{
		Email: "elsewhere@codetrack.test", Password: "secret123", FullName: "Advisor",
	})
	assert.Equal(t, apperrors.KindPermissionDenied, apperrors.KindOf(err))

	_, err = svc.CreateStaff(f.ctx, hod, models.RoleAdvisor, 9999, models.NewStaffIdentity{
		Email: "nowhere@codetrack.test", Password: "secret123", FullName: "Advisor",
	})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	assert.Zero(t, counted.n)
}
