package store

import "context"

// Store is the durable key-value collaborator behind the history repository.
// The repository keeps the entire collection under a single logical key, so
// a Set must be atomic at the driver's own layer: after a failed write the
// prior value must still be readable intact.
type Store interface {
	// Get returns the value for key. The second return is false when the
	// key has never been written or has been removed.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
