// Package memory is an in-process Store used by tests and by the memory database driver.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/repositories"
)

type tables struct {
	seq         int64
	users       map[int64]models.User
	departments map[int64]models.Department
	staff       map[int64]models.StaffAssignment
	students    map[int64]models.Student
	advisors    map[int64]models.AdvisorLink    // keyed by student ID
	counsellors map[int64]models.CounsellorLink // keyed by student ID
	accounts    map[int64]models.PlatformAccount
	snapshots   map[int64]models.Snapshot
}

func newTables() *tables {
	return &tables{
		users:       map[int64]models.User{},
		departments: map[int64]models.Department{},
		staff:       map[int64]models.StaffAssignment{},
		students:    map[int64]models.Student{},
		advisors:    map[int64]models.AdvisorLink{},
		counsellors: map[int64]models.CounsellorLink{},
		accounts:    map[int64]models.PlatformAccount{},
		snapshots:   map[int64]models.Snapshot{},
	}
}

func cloneMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies every table. Records are stored by value and pointer fields are
// only ever replaced, never written through, so a shallow value copy is enough.
func (t *tables) clone() *tables {
	return &tables{
		seq:         t.seq,
		users:       cloneMap(t.users),
		departments: cloneMap(t.departments),
		staff:       cloneMap(t.staff),
		students:    cloneMap(t.students),
		advisors:    cloneMap(t.advisors),
		counsellors: cloneMap(t.counsellors),
		accounts:    cloneMap(t.accounts),
		snapshots:   cloneMap(t.snapshots),
	}
}

func (t *tables) nextID() int64 {
	t.seq++
	return t.seq
}

type database struct {
	mu   sync.Mutex
	data *tables
	now  func() time.Time
}

// Store is a mutex-guarded Store. Transactions hold the lock for their whole
// duration and publish their working copy only on success.
type Store struct {
	db *database
	tx *tables
}

var _ repositories.Store = (*Store)(nil)

// New returns an empty store
func New() *Store {
	return &Store{db: &database{data: newTables(), now: time.Now}}
}

// SetClock overrides the time source used for created and assigned timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.now = now
}

func (s *Store) run(fn func(t *tables) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return fn(s.db.data)
}

func (s *Store) Users() repositories.UserRepository             { return &userRepository{s} }
func (s *Store) Departments() repositories.DepartmentRepository { return &departmentRepository{s} }
func (s *Store) Staff() repositories.StaffRepository            { return &staffRepository{s} }
func (s *Store) Students() repositories.StudentRepository       { return &studentRepository{s} }
func (s *Store) Links() repositories.LinkRepository             { return &linkRepository{s} }
func (s *Store) Platforms() repositories.PlatformRepository     { return &platformRepository{s} }
func (s *Store) Snapshots() repositories.SnapshotRepository     { return &snapshotRepository{s} }

// WithTx implements repositories.Store
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	work := s.db.data.clone()
	if err := fn(ctx, &Store{db: s.db, tx: work}); err != nil {
		return err
	}
	s.db.data = work
	return nil
}
