/*
Package sqlite provides a SQLite-backed payroll.Persister.

PURPOSE:
  Alternate backend to the JSON file. Same full-snapshot semantics: Save
  replaces everything inside one SQL transaction, Load reads everything back.

KEY TABLES:
  employees: one row per employee; ledgers are stored as the same JSON
             record the file backend writes (payroll.EncodeEmployee)
  users:     operator credentials

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, and a single open connection so that
  ":memory:" databases are shared by every statement.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging) so a crash
  mid-save leaves the previous snapshot readable.

USAGE:
  db, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer db.Close()

  store := payroll.NewStore(db)

MIGRATION:
  Schema is auto-migrated on New().
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/payroll-ledger/generic"
	"github.com/warp/payroll-ledger/payroll"
)

// Store implements payroll.Persister using SQLite.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn += "?_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, path: dbPath}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		name TEXT PRIMARY KEY,
		kind TEXT NOT NULL CHECK (kind IN ('hourly', 'salaried')),
		phone TEXT NOT NULL DEFAULT '',
		record_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_kind ON employees(kind);

	CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PERSISTER (payroll.Persister interface)
// =============================================================================

// Load reads every row. An empty database returns (nil, nil).
func (s *Store) Load(ctx context.Context) (*payroll.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := payroll.NewSnapshot()
	if err := s.loadEmployees(ctx, snap); err != nil {
		return nil, s.fail("load", err)
	}
	if err := s.loadUsers(ctx, snap); err != nil {
		return nil, s.fail("load", err)
	}
	if len(snap.Employees) == 0 && len(snap.Users) == 0 {
		return nil, nil
	}
	return snap, nil
}

func (s *Store) loadEmployees(ctx context.Context, snap *payroll.Snapshot) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, kind, phone, record_json FROM employees ORDER BY name",
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, kind, phone, record string
		if err := rows.Scan(&name, &kind, &phone, &record); err != nil {
			return err
		}
		e, err := payroll.DecodeEmployee(name, payroll.Kind(kind), []byte(record))
		if err != nil {
			return fmt.Errorf("employee %q: %w", name, err)
		}
		e.Phone = phone
		snap.Employees[name] = e
	}
	return rows.Err()
}

func (s *Store) loadUsers(ctx context.Context, snap *payroll.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, "SELECT username, password_hash FROM users")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var user, hash string
		if err := rows.Scan(&user, &hash); err != nil {
			return err
		}
		snap.Users[user] = hash
	}
	return rows.Err()
}

// Save replaces both tables with snap inside one transaction.
func (s *Store) Save(ctx context.Context, snap *payroll.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.withTx(ctx, func(tx *sql.Tx) error {
		return saveSnapshot(ctx, tx, snap)
	}); err != nil {
		return s.fail("save", err)
	}
	return nil
}

func saveSnapshot(ctx context.Context, tx *sql.Tx, snap *payroll.Snapshot) error {
	for _, table := range []string{"employees", "users"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	insertEmployee, err := tx.PrepareContext(ctx, `
		INSERT INTO employees (name, kind, phone, record_json, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer insertEmployee.Close()

	for name, e := range snap.Employees {
		record, err := payroll.EncodeEmployee(e)
		if err != nil {
			return fmt.Errorf("employee %q: %w", name, err)
		}
		if _, err := insertEmployee.ExecContext(ctx, name, string(e.Kind), e.Phone, string(record), now); err != nil {
			return err
		}
	}

	for user, hash := range snap.Users {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO users (username, password_hash) VALUES (?, ?)", user, hash,
		); err != nil {
			return err
		}
	}
	return nil
}

// withTx executes a function within a database transaction.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(sqlTx); err != nil {
		return err
	}
	return sqlTx.Commit()
}

func (s *Store) fail(op string, err error) error {
	return &generic.PersistenceError{Op: op, Path: s.path, Err: err}
}

// =============================================================================
// UTILITIES
// =============================================================================

// EmployeeCount returns the number of stored employees per kind.
func (s *Store) EmployeeCount(ctx context.Context) (map[payroll.Kind]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM employees GROUP BY kind")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[payroll.Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[payroll.Kind(kind)] = n
	}
	return counts, rows.Err()
}
