package repositories

import (
	"context"
	"time"

	"github.com/yigit/codetrack/internal/app/models"
)

// Store groups the repositories behind one transactional boundary.
// Implementations return apperrors kinds (NotFound, Conflict) for domain failures
// and wrap everything else.
type Store interface {
	Users() UserRepository
	Departments() DepartmentRepository
	Staff() StaffRepository
	Students() StudentRepository
	Links() LinkRepository
	Platforms() PlatformRepository
	Snapshots() SnapshotRepository

	// WithTx runs fn against a Store bound to a single transaction. The transaction
	// commits when fn returns nil and rolls back otherwise. Nested calls reuse the
	// outer transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// UserRepository persists users and their role tags.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// Create inserts the user together with every role in user.Roles.
	Create(ctx context.Context, user *models.User) error
	AddRole(ctx context.Context, userID int64, role models.Role) error
}

// DepartmentRepository persists departments and their headship.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *models.Department) error
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	GetByCode(ctx context.Context, code string) (*models.Department, error)
	GetAll(ctx context.Context) ([]*models.Department, error)
	// GetByHeadUser returns the department whose recorded head belongs to userID.
	GetByHeadUser(ctx context.Context, userID int64) (*models.Department, error)
	// SetHead records staffID as head only when the department has none.
	SetHead(ctx context.Context, departmentID, staffID int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// StaffRepository persists staff assignments.
type StaffRepository interface {
	Create(ctx context.Context, staff *models.StaffAssignment) error
	GetByID(ctx context.Context, id int64) (*models.StaffAssignment, error)
	GetByUserID(ctx context.Context, userID int64) (*models.StaffAssignment, error)
	List(ctx context.Context, filter models.StaffFilter) ([]*models.StaffMember, error)
}

// StudentRepository persists student profiles.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]*models.Student, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*models.Student, error)
	ListAll(ctx context.Context) ([]*models.Student, error)
	SetDepartment(ctx context.Context, studentID int64, departmentID *int64) error
	CountByDepartment(ctx context.Context, departmentID int64) (int, error)
	Count(ctx context.Context) (int, error)
}

// LinkRepository persists the one-to-one student advisor and counsellor links.
type LinkRepository interface {
	// UpsertAdvisor replaces any existing advisor of the student.
	UpsertAdvisor(ctx context.Context, studentID, advisorUserID int64) error
	// UpsertCounsellor replaces any existing counsellor of the student.
	UpsertCounsellor(ctx context.Context, studentID, counsellorUserID int64) error
	GetAdvisorLink(ctx context.Context, studentID int64) (*models.AdvisorLink, error)
	GetCounsellorLink(ctx context.Context, studentID int64) (*models.CounsellorLink, error)
	StudentIDsByAdvisor(ctx context.Context, advisorUserID int64) ([]int64, error)
	StudentIDsByCounsellor(ctx context.Context, counsellorUserID int64) ([]int64, error)
}

// PlatformRepository persists platform accounts.
type PlatformRepository interface {
	Create(ctx context.Context, account *models.PlatformAccount) error
	GetByID(ctx context.Context, id int64) (*models.PlatformAccount, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.PlatformAccount, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// SnapshotRepository persists snapshots and their review decisions.
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *models.Snapshot) error
	GetByID(ctx context.Context, id int64) (*models.Snapshot, error)
	ExistsForDate(ctx context.Context, accountID int64, date time.Time) (bool, error)
	// ListByAccount returns snapshots newest first.
	ListByAccount(ctx context.Context, accountID int64, query models.SnapshotQuery) ([]*models.Snapshot, error)
	// Decide moves a pending snapshot to a terminal status. It fails with a
	// Conflict when the snapshot is no longer pending.
	Decide(ctx context.Context, id int64, decision models.SnapshotDecision) error
	ListPendingForCounsellor(ctx context.Context, counsellorUserID int64) ([]*models.PendingReview, error)
}
