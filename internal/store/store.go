package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("not found")

// Store holds the ent SQL driver and provides access to repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver

	// now is the clock used for created_at/updated_at columns.
	now func() time.Time
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs auto-migration.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection and in-memory databases are per
	// connection too; a single connection keeps both consistent.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db, drv: drv, now: time.Now}, nil
}

func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}

// Driver returns the underlying ent SQL driver.
func (s *Store) Driver() *entsql.Driver {
	return s.drv
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// SetClock replaces the timestamp source. Tests use it to pin dates.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) Topics() TopicRepo          { return &topicRepo{s} }
func (s *Store) ConceptMap() ConceptMapRepo { return &conceptMapRepo{s} }
func (s *Store) Concepts() ConceptRepo      { return &conceptRepo{s} }
func (s *Store) Attempts() AttemptRepo      { return &attemptRepo{s} }
func (s *Store) Prompts() PromptRepo        { return &promptRepo{s} }
func (s *Store) History() HistoryRepo       { return &historyRepo{s} }
func (s *Store) EventRepo() EventRepo       { return &eventRepo{s} }

// builder returns a SQLite statement builder.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// query runs a select and scans every row into dst, a pointer to a slice.
// Rows are drained and closed before returning.
func (s *Store) query(ctx context.Context, q entsql.Querier, dst any) error {
	stmt, args := q.Query()
	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, stmt, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	return entsql.ScanSlice(rows, dst)
}

// exec runs a statement and returns its result.
func (s *Store) exec(ctx context.Context, q entsql.Querier) (sql.Result, error) {
	stmt, args := q.Query()
	var res sql.Result
	if err := s.drv.Exec(ctx, stmt, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// insert runs an insert and returns the new row id.
func (s *Store) insert(ctx context.Context, q entsql.Querier) (int, error) {
	res, err := s.exec(ctx, q)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return int(id), nil
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
