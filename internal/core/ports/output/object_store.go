package ports

import "context"

// ObjectStore is durable byte-blob storage keyed by derived blob keys.
// Implementations retry transient failures internally and return
// domain.ErrNotFound for missing keys and domain.ErrStorage when
// unreachable.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Stat(ctx context.Context, key string) (int64, error)
}
