package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/hos-planner/internal/domain"
)

// redisKVRepo is the Redis implementation of KVRepo.
// Keys are stored as "<scope>:<key>" without expiry; token lifetime is
// governed by the server, not by the store.
type redisKVRepo struct {
	client redis.Cmdable
	scope  string
}

// NewRedisKVRepo constructs a KVRepo backed by the given Redis client.
func NewRedisKVRepo(client redis.Cmdable, scope string) KVRepo {
	return &redisKVRepo{client: client, scope: scope}
}

func (r *redisKVRepo) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("repo.KVRepo.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.KVRepo.Get: %w", err)
	}
	return v, nil
}

func (r *redisKVRepo) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("repo.KVRepo.Set: %w", err)
	}
	return nil
}

func (r *redisKVRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("repo.KVRepo.Delete: %w", err)
	}
	return nil
}

func (r *redisKVRepo) key(k string) string {
	return r.scope + ":" + k
}
