package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/hos-planner/migrations"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Options selects and configures a KVRepo backend.
type Options struct {
	Backend       string
	Scope         string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open connects the configured backend and returns the repo with a close
// function. The Postgres backend applies pending migrations before returning.
func Open(ctx context.Context, opts Options) (KVRepo, func(), error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryKVRepo(), func() {}, nil

	case BackendPostgres:
		// pgxpool.New does not open connections; the ping below does.
		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("repo.Open: create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repo.Open: ping postgres: %w", err)
		}
		if err := migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return NewPostgresKVRepo(pool, opts.Scope), pool.Close, nil

	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("repo.Open: ping redis: %w", err)
		}
		return NewRedisKVRepo(client, opts.Scope), func() { _ = client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("repo.Open: unknown backend %q", opts.Backend)
}

// migrate applies the embedded goose migrations through a database/sql
// handle borrowed from the pool. The handle is not closed here; its
// connections belong to the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDBFromPool(pool)

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		return fmt.Errorf("repo.Open: create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("repo.Open: run migrations: %w", err)
	}
	for _, r := range results {
		slog.Info("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}
