package store

import "context"

// Keys shared by every surface.
const (
	BlocksKey      = "quickLinksBlocks"
	ActiveBlockKey = "quickLinksActiveBlock"

	// CorruptBlocksKey keeps an undecodable collection before the
	// defaults are seeded over it.
	CorruptBlocksKey = BlocksKey + ".corrupt"
)

// Adapter is the durable key/value boundary. Set replaces the whole
// value for key; a reader never observes half of a write.
type Adapter interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Watchable adapters can signal that another writer changed the data.
// The channel is closed when ctx is done.
type Watchable interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}
