// Package testutil provides the session-store backends used by tests.
// Postgres helpers skip the test when TEST_DATABASE_URL is unset; the Redis
// helper runs an in-process miniredis and never skips.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/hos-planner/migrations"
)

// migrateOnce applies the schema once per test binary.
var (
	migrateOnce sync.Once
	migrateErr  error
)

// NewPool returns a pool on TEST_DATABASE_URL with the client_state schema
// applied. The pool is closed when the test finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := requireDSN(t)
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	migrateOnce.Do(func() {
		provider, err := goose.NewProvider(goose.DialectPostgres, stdlib.OpenDBFromPool(pool), migrations.FS)
		if err != nil {
			migrateErr = err
			return
		}
		_, migrateErr = provider.Up(ctx)
	})
	if migrateErr != nil {
		t.Fatalf("testutil.NewPool: migrate: %v", migrateErr)
	}
	return pool
}

// NewTx opens a transaction that is rolled back when the test finishes, so
// rows written through it never outlive the test.
func NewTx(t *testing.T) pgx.Tx {
	t.Helper()
	tx, err := NewPool(t).Begin(context.Background())
	if err != nil {
		t.Fatalf("testutil.NewTx: begin: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })
	return tx
}

// NewSQLDB opens a database/sql handle on TEST_DATABASE_URL for goose
// round-trip tests. No migrations are applied.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.PingContext(context.Background()); err != nil {
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}
	return db
}

// NewRedis starts a miniredis server and returns a client connected to it.
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres test")
	}
	return dsn
}
