package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

func TestCreateDepartment(t *testing.T) {
	f := newFixture(t)

	d, err := f.departments.CreateDepartment(f.ctx, f.admin, "  Computer Science ", "cse")
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", d.Name)
	assert.Equal(t, "CSE", d.Code)

	tests := []struct {
		name   string
		caller models.Identity
		dname  string
		code   string
		want   apperrors.Kind
	}{
		{"duplicate code", f.admin, "Other", "CSE", apperrors.KindConflict},
		{"blank name", f.admin, " ", "ECE", apperrors.KindValidation},
		{"non alphanumeric code", f.admin, "Mech", "ME-1", apperrors.KindValidation},
		{"not admin", f.user("hod", models.RoleHOD), "Civil", "CIV", apperrors.KindPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.departments.CreateDepartment(f.ctx, tt.caller, tt.dname, tt.code)
			assert.Equal(t, tt.want, apperrors.KindOf(err))
		})
	}

	all, err := f.departments.GetAllDepartments(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeleteDepartmentRefusesWhileStudentsAssigned(t *testing.T) {
	f := newFixture(t)
	cse := f.department("CSE")
	_, st := f.student("s", &cse.ID)

	err := f.departments.DeleteDepartment(f.ctx, f.admin, cse.ID)
	assert.ErrorIs(t, err, apperrors.ErrDepartmentHasStudents)

	ece := f.department("ECE")
	moved, err := f.delegation.AssignStudentDepartment(f.ctx, f.admin, st.ID, ece.ID)
	require.NoError(t, err)
	assert.Equal(t, "ECE Department", moved.DepartmentName)
	require.NoError(t, f.departments.DeleteDepartment(f.ctx, f.admin, cse.ID))

	_, err = f.departments.GetDepartmentByID(f.ctx, cse.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	err = f.departments.DeleteDepartment(f.ctx, f.admin, cse.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestLinkPlatform(t *testing.T) {
	f := newFixture(t)
	owner, st := f.student("s", nil)

	a, err := f.platforms.Link(f.ctx, owner, " LeetCode ", "alice")
	require.NoError(t, err)
	assert.Equal(t, models.PlatformLeetCode, a.Platform)
	assert.Equal(t, "https://leetcode.com/alice", a.ProfileURL)
	assert.Equal(t, st.ID, a.StudentID)

	_, err = f.platforms.Link(f.ctx, owner, "leetcode", "alice2")
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	_, err = f.platforms.Link(f.ctx, owner, "topcoder", "alice")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "codeforces, github, hackerrank, leetcode")

	_, err = f.platforms.Link(f.ctx, owner, "github", "  ")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = f.platforms.Link(f.ctx, f.admin, "github", "root")
	assert.ErrorIs(t, err, apperrors.ErrStudentProfileMissing)

	mine, err := f.platforms.ListMine(f.ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestUnlinkPlatformRemovesSnapshots(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.student("s", nil)
	other, _ := f.student("o", nil)
	acct := f.account(owner, models.PlatformCodeforces)
	snap := f.submit(owner, acct.ID, 10, 0)

	err := f.platforms.Unlink(f.ctx, other, acct.ID)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	require.NoError(t, f.platforms.Unlink(f.ctx, owner, acct.ID))

	_, err = f.store.Snapshots().GetByID(f.ctx, snap.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	err = f.platforms.Unlink(f.ctx, owner, acct.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	user, student, err := f.auth.Register(f.ctx, RegisterInput{Email: "Ada@Example.com", Password: "secret123", FullName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.Roles.Has(models.RoleStudent))
	assert.Equal(t, RegisterNumber(user.ID), student.RegisterNumber)
	assert.Equal(t, 2024, student.AdmissionYear)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	_, _, err = f.auth.Register(f.ctx, RegisterInput{Email: "ada@example.com", Password: "secret123", FullName: "Ada"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, _, err = f.auth.Register(f.ctx, RegisterInput{Email: "bob@example.com", Password: "123", FullName: "Bob"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	res, err := f.auth.Login(f.ctx, "ADA@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token.AccessToken)
	assert.Equal(t, user.ID, res.User.ID)

	_, err = f.auth.Login(f.ctx, "ada@example.com", "wrong-pass")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.auth.Login(f.ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestMeIncludesProfiles(t *testing.T) {
	f := newFixture(t)
	cse := f.department("CSE")
	hod := f.staff(f.admin, models.RoleHOD, cse.ID)

	p, err := f.auth.Me(f.ctx, hod)
	require.NoError(t, err)
	require.NotNil(t, p.Staff)
	assert.Equal(t, cse.ID, p.Staff.DepartmentID)
	require.NotNil(t, p.HeadOf)
	assert.Equal(t, cse.ID, p.HeadOf.ID)
	assert.Nil(t, p.Student)
	assert.True(t, p.Capability.Has(models.RoleHOD))

	st, profile := f.student("s", nil)
	p, err = f.auth.Me(f.ctx, st)
	require.NoError(t, err)
	require.NotNil(t, p.Student)
	assert.Equal(t, profile.ID, p.Student.ID)
	assert.Nil(t, p.Staff)
	assert.Nil(t, p.HeadOf)
}
