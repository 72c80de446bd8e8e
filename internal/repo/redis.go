package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisRepo struct {
	client *redis.Client
	prefix string
}

func NewRedisRepo(ctx context.Context, client *redis.Client, prefix string) (*RedisRepo, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisRepo{client: client, prefix: prefix}, nil
}

func (r *RedisRepo) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrorNotFound
	}
	return value, err
}

func (r *RedisRepo) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

// Close is a no-op: the client is shared with the weather cache and owned
// by the caller.
func (r *RedisRepo) Close() error {
	return nil
}
