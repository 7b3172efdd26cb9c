package ports

import "context"

// Well-known keys of the extension's persistent storage.
const (
	KeySentinelResult = "sentinel_result"
	KeyGenesisResult  = "genesis_result"
	KeyVisitLog       = "visitLog"
	KeyNotifications  = "notifications"
)

// KVStore is the durable key-value contract behind every persisted value.
// Values are opaque JSON documents. Implementations should return errors instead of
// panicking so that callers can degrade to a miss or a no-op.
type KVStore interface {
	// Get returns the raw bytes for key. ok=false if not found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key, replacing any prior value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, key string) error
}

// WatchableStore is a KVStore that reports successful writes.
type WatchableStore interface {
	KVStore
	// Watch delivers the latest value written to key. Slow readers only see the most
	// recent value. The returned func cancels the watch and closes the channel.
	Watch(key string) (<-chan []byte, func())
}
