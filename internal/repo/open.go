package repo

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Options struct {
	Backend     string
	DatabaseURL string
	SQLitePath  string
	Redis       *redis.Client
	RedisPrefix string
}

// Open returns the snapshot repository selected by opts.Backend.
func Open(ctx context.Context, opts Options) (SnapshotRepository, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryRepo(), nil
	case BackendSQLite:
		return NewSQLiteRepo(ctx, opts.SQLitePath)
	case BackendPostgres:
		return NewPostgresRepo(ctx, opts.DatabaseURL)
	case BackendRedis:
		if opts.Redis == nil {
			return nil, fmt.Errorf("redis backend requires a redis client")
		}
		return NewRedisRepo(ctx, opts.Redis, opts.RedisPrefix)
	}
	return nil, fmt.Errorf("%w: %q", ErrorUnknownBackend, opts.Backend)
}
