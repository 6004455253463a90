// Package sqlite implements the store.Store interface on SQLite.
//
// It is intended for single-node deployments and for tests. All
// repositories run against a shared *sql.DB (or *sql.Tx inside a
// transaction) through the dbtx interface, so the same query code
// serves both paths.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/covenhall/arcana/internal/auth/store"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the SQLite-backed implementation of store.Store.
type Store struct {
	db *sql.DB
	q  dbtx
}

var _ store.Store = (*Store)(nil)

// New opens (or creates) the SQLite database at path. Use ":memory:"
// for an ephemeral database in tests.
func New(path string) (*Store, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite's write model serializes anyway; a single connection
	// avoids SQLITE_BUSY churn under concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Store{db: db, q: db}, nil
}

func (s *Store) Users() store.Users                 { return &usersRepo{q: s.q} }
func (s *Store) Clients() store.Clients             { return &clientsRepo{q: s.q} }
func (s *Store) Sessions() store.Sessions           { return &sessionsRepo{q: s.q} }
func (s *Store) Verifications() store.Verifications { return &verificationsRepo{q: s.q} }

// WithTx runs fn inside a transaction, committing on nil and rolling
// back on error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Tx begins a transaction the caller must Commit or Rollback.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	if s.db == nil {
		return nil, fmt.Errorf("nested transactions are not supported")
	}
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{Store: Store{q: sqlTx}, tx: sqlTx}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("store is transaction-scoped")
	}
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// mapNotFound translates sql.ErrNoRows into the store sentinel.
func mapNotFound(err error) error {
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint translates unique/primary-key violations into the
// store sentinel. modernc.org/sqlite surfaces these as plain errors
// whose text carries the SQLite constraint message.
func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed") && strings.Contains(msg, "PRIMARY KEY") {
		return store.ErrAlreadyExists
	}
	return err
}

// joinScopes and splitScopes store scope lists as a single
// space-delimited column, matching the token wire format.
func joinScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}

func splitScopes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
