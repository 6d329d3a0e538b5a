// Package testdb provisions an isolated PostgreSQL schema for integration tests.
//
// Tests call Open, which skips unless TAXON_TEST_DB_DSN names a reachable
// database. Each caller gets its own schema with migrations applied, selected
// through search_path, so packages can run in parallel against one database.
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/taxon/migrations"
)

// EnvDSN names the environment variable holding the test database URL.
const EnvDSN = "TAXON_TEST_DB_DSN"

// Open returns a pool bound to a fresh migrated schema. The schema is dropped
// when the test finishes.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s not set", EnvDSN)
	}

	admin, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { admin.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, admin.PingContext(ctx), "ping test database")

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	quoted := pgx.Identifier{schema}.Sanitize()

	_, err = admin.ExecContext(ctx, "CREATE SCHEMA "+quoted)
	require.NoError(t, err)
	t.Cleanup(func() {
		admin.Exec("DROP SCHEMA " + quoted + " CASCADE")
	})

	scoped, err := withSearchPath(dsn, schema)
	require.NoError(t, err)
	require.NoError(t, migrations.Up(scoped), "apply migrations")

	db, err := sql.Open("pgx", scoped)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

// Truncate empties the given tables.
func Truncate(t testing.TB, db *sql.DB, tables ...string) {
	t.Helper()
	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[i] = pgx.Identifier{table}.Sanitize()
	}
	_, err := db.Exec("TRUNCATE " + strings.Join(quoted, ", "))
	require.NoError(t, err)
}

func withSearchPath(dsn, schema string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", EnvDSN, err)
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
