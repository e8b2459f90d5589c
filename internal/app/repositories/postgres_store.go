package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/codetrack/internal/db"
	"github.com/yigit/codetrack/internal/pkg/logger"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store on top of pgx
type PostgresStore struct {
	db   *db.PostgresDB
	q    querier
	inTx bool
	sb   squirrel.StatementBuilderType
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a store backed by the given pool
func NewPostgresStore(pg *db.PostgresDB) *PostgresStore {
	return &PostgresStore{
		db: pg,
		q:  pg.Pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (s *PostgresStore) Users() UserRepository             { return &userRepository{s} }
func (s *PostgresStore) Departments() DepartmentRepository { return &departmentRepository{s} }
func (s *PostgresStore) Staff() StaffRepository            { return &staffRepository{s} }
func (s *PostgresStore) Students() StudentRepository       { return &studentRepository{s} }
func (s *PostgresStore) Links() LinkRepository             { return &linkRepository{s} }
func (s *PostgresStore) Platforms() PlatformRepository     { return &platformRepository{s} }
func (s *PostgresStore) Snapshots() SnapshotRepository     { return &snapshotRepository{s} }

// WithTx implements Store
func (s *PostgresStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &PostgresStore{db: s.db, q: tx, inTx: true, sb: s.sb})
	})
}

// queryRow builds and runs a single-row query
func (s *PostgresStore) queryRow(ctx context.Context, b squirrel.Sqlizer) (pgx.Row, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return s.q.QueryRow(ctx, sql, args...), nil
}

func (s *PostgresStore) query(ctx context.Context, b squirrel.Sqlizer) (pgx.Rows, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("sql", sql).Msg("Query failed")
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return rows, nil
}

func (s *PostgresStore) exec(ctx context.Context, b squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("failed to build statement: %w", err)
	}
	return s.q.Exec(ctx, sql, args...)
}

func (s *PostgresStore) count(ctx context.Context, b squirrel.SelectBuilder) (int, error) {
	row, err := s.queryRow(ctx, b)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return n, nil
}

// notFoundOr maps pgx.ErrNoRows to notFound and wraps anything else
func notFoundOr(err, notFound error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	logger.Error().Err(err).Str("op", op).Msg("Database error")
	return fmt.Errorf("%s: %w", op, err)
}

// collect drains rows using scan for each row
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}
