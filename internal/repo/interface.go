package repo

import (
	"context"
	"embed"
	"errors"
)

var (
	ErrorNotFound       = errors.New("not found")
	ErrorUnknownBackend = errors.New("unknown storage backend")
)

//go:embed schema/*.sql
var schemaFS embed.FS

// SnapshotRepository stores whole serialized blobs under fixed keys.
// There are no partial writes: Set replaces the previous value.
type SnapshotRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
