package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/codetrack/internal/app/analytics"
	appauth "github.com/yigit/codetrack/internal/app/auth"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/repositories/memory"
	"github.com/yigit/codetrack/internal/pkg/auth"
)

type notification struct {
	userID int64
	event  ReviewEvent
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *recordingNotifier) NotifyUser(userID int64, event ReviewEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{userID: userID, event: event})
}

func (n *recordingNotifier) sent() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.events...)
}

type fixture struct {
	t   *testing.T
	ctx context.Context
	now time.Time
	seq int

	store       *memory.Store
	authority   *appauth.RoleAuthority
	notifier    *recordingNotifier
	delegation  *DelegationService
	reviews     *ReviewService
	analytics   *AnalyticsService
	platforms   *PlatformService
	departments *DepartmentService
	auth        *AuthService

	admin models.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	store := memory.New()
	store.SetClock(func() time.Time { return now })

	authority := appauth.NewRoleAuthority(store)
	hasher := &auth.BcryptHasher{Cost: bcrypt.MinCost}
	notifier := &recordingNotifier{}
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "codetrack-test"})

	f := &fixture{
		t:           t,
		ctx:         context.Background(),
		now:         now,
		store:       store,
		authority:   authority,
		notifier:    notifier,
		delegation:  NewDelegationService(store, authority, hasher),
		reviews:     NewReviewService(store, authority, notifier),
		analytics:   NewAnalyticsService(store, authority, analytics.RiskPolicy{Window: 30 * 24 * time.Hour}, 10),
		platforms:   NewPlatformService(store),
		departments: NewDepartmentService(store, authority),
		auth:        NewAuthService(store, authority, hasher, jwtService, zerolog.Nop()),
	}
	f.reviews.now = func() time.Time { return now }
	f.analytics.now = func() time.Time { return now }
	f.auth.now = func() time.Time { return now }

	f.admin = f.user("admin", models.RoleAdmin)
	return f
}

func (f *fixture) email(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d@codetrack.test", prefix, f.seq)
}

// user inserts a user holding roles directly, bypassing delegation
func (f *fixture) user(name string, roles ...models.Role) models.Identity {
	f.t.Helper()
	u := &models.User{Email: f.email(name), FullName: name, IsActive: true, Roles: models.NewRoleSet(roles...)}
	require.NoError(f.t, f.store.Users().Create(f.ctx, u))
	return u.Identity()
}

func (f *fixture) department(code string) *models.Department {
	f.t.Helper()
	d, err := f.departments.CreateDepartment(f.ctx, f.admin, code+" Department", code)
	require.NoError(f.t, err)
	return d
}

// staff creates a staff member through the delegation graph
func (f *fixture) staff(creator models.Identity, role models.Role, departmentID int64) models.Identity {
	f.t.Helper()
	sa, err := f.delegation.CreateStaff(f.ctx, creator, role, departmentID, models.NewStaffIdentity{
		Email:    f.email(string(role)),
		Password: "secret123",
		FullName: fmt.Sprintf("%s %d", role, f.seq),
	})
	require.NoError(f.t, err)
	return models.Identity{UserID: sa.UserID, Roles: models.NewRoleSet(role)}
}

func (f *fixture) student(name string, departmentID *int64) (models.Identity, *models.Student) {
	f.t.Helper()
	id := f.user(name, models.RoleStudent)
	st := &models.Student{UserID: id.UserID, RegisterNumber: RegisterNumber(id.UserID), AdmissionYear: 2024, DepartmentID: departmentID}
	require.NoError(f.t, f.store.Students().Create(f.ctx, st))
	return id, st
}

func (f *fixture) account(owner models.Identity, platform models.Platform) *models.PlatformAccount {
	f.t.Helper()
	a, err := f.platforms.Link(f.ctx, owner, string(platform), "user"+fmt.Sprint(owner.UserID))
	require.NoError(f.t, err)
	return a
}

func (f *fixture) submit(owner models.Identity, accountID int64, solved, daysAgo int) *models.Snapshot {
	f.t.Helper()
	s, err := f.reviews.Submit(f.ctx, owner, SubmitSnapshotInput{
		AccountID: accountID,
		Metrics:   models.SnapshotMetrics{TotalSolved: solved},
		Date:      f.now.AddDate(0, 0, -daysAgo),
	})
	require.NoError(f.t, err)
	return s
}

func (f *fixture) linkCounsellor(counsellor models.Identity, studentIDs ...int64) {
	f.t.Helper()
	res, err := f.delegation.AssignCounsellor(f.ctx, f.admin, counsellor.UserID, studentIDs)
	require.NoError(f.t, err)
	require.Len(f.t, res.Assigned, len(studentIDs))
}

// approved submits and approves a snapshot in one step
func (f *fixture) approved(owner, counsellor models.Identity, accountID int64, solved, daysAgo int) *models.Snapshot {
	f.t.Helper()
	s := f.submit(owner, accountID, solved, daysAgo)
	out, err := f.reviews.Approve(f.ctx, counsellor, s.ID)
	require.NoError(f.t, err)
	return out
}

func ptr[T any](v T) *T { return &v }
