// Package repo contains the durable storage behind the session store: a small
// key-value repository scoped to one client namespace.
// Each backend has its own file; all of them satisfy KVRepo.
// No business logic lives here, only storage and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/hos-planner/internal/domain"
)

// KVRepo stores string values by key within a single scope.
// The session store depends on this interface, not on a backend, which
// allows it to be unit-tested with the in-memory implementation.
type KVRepo interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if nothing is stored.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgKVRepo is the Postgres implementation of KVRepo, backed by the
// client_state table.
type pgKVRepo struct {
	db    db
	scope string
}

// NewPostgresKVRepo constructs a KVRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresKVRepo(db db, scope string) KVRepo {
	return &pgKVRepo{db: db, scope: scope}
}

func (r *pgKVRepo) Get(ctx context.Context, key string) (string, error) {
	const q = `
		SELECT value
		FROM client_state
		WHERE scope = @scope AND key = @key`

	var value string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"scope": r.scope, "key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("repo.KVRepo.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.KVRepo.Get: %w", err)
	}
	return value, nil
}

func (r *pgKVRepo) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO client_state (scope, key, value)
		VALUES (@scope, @key, @value)
		ON CONFLICT (scope, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	args := pgx.NamedArgs{"scope": r.scope, "key": key, "value": value}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.KVRepo.Set: %w", err)
	}
	return nil
}

func (r *pgKVRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	const q = `DELETE FROM client_state WHERE scope = @scope AND key = ANY(@keys)`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"scope": r.scope, "keys": keys}); err != nil {
		return fmt.Errorf("repo.KVRepo.Delete: %w", err)
	}
	return nil
}
