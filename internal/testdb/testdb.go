// Package testdb provides database helpers for integration tests.
//
// Tests run inside a transaction that is rolled back when the test
// completes, so they can run in parallel against the same database
// without interfering with each other and without manual cleanup.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// EnvDatabaseURL is the environment variable holding the test database
// connection string. Tests that need a database are skipped when it is
// not set.
const EnvDatabaseURL = "KANBAN_TEST_DATABASE_URL"

var migrateOnce sync.Once

// Get opens a connection to the test database, applies pending
// migrations once per process, and registers cleanup on the test.
// It skips the test when EnvDatabaseURL is not set.
func Get(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv(EnvDatabaseURL)
	if url == "" {
		t.Skipf("skipping: %s not set", EnvDatabaseURL)
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	migrateOnce.Do(func() {
		if err := migrate(db); err != nil {
			t.Fatalf("failed to migrate test database: %v", err)
		}
	})

	return db
}

// WithTx runs fn inside a transaction that is always rolled back,
// isolating the test's writes from other tests.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Errorf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}

func migrate(db *sql.DB) error {
	dir, err := migrationsDir()
	if err != nil {
		return err
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.Up(db, dir)
}

// migrationsDir locates the migrations directory by walking up from this
// file to the module root. Tests run with package-local working
// directories, so a relative path would not resolve.
func migrationsDir() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to determine current file path")
	}

	dir := filepath.Dir(currentFile)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "migrations"), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root from %s", currentFile)
		}
		dir = parent
	}
}
