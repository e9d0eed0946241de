// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	_ "github.com/lib/pq" // registers the "postgres" driver for schema setup
	"github.com/redis/go-redis/v9"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// ResetSampleSchema drops and recreates the sample table, then inserts names
// in order. A nil entry inserts a NULL name.
func ResetSampleSchema(ctx context.Context, databaseURL string, names ...*string) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := applyMigration(ctx, db, "000001_sample.down.sql"); err != nil {
		return err
	}
	if err := applyMigration(ctx, db, "000001_sample.up.sql"); err != nil {
		return err
	}

	for _, name := range names {
		if _, err := db.ExecContext(ctx, "INSERT INTO sample (name) VALUES ($1)", name); err != nil {
			return fmt.Errorf("insert sample: %w", err)
		}
	}

	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, file string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	migration, err := os.ReadFile(filepath.Join(root, "migrations", file))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", file, err)
	}
	if _, err := db.ExecContext(ctx, string(migration)); err != nil {
		return fmt.Errorf("apply migration %s: %w", file, err)
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", "..")), nil
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
