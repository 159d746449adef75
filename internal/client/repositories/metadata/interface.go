// Package metadata is a small key-value store for device-level state that is
// not an entity in its own right: the persisted sync-enabled toggle, device
// bookkeeping and similar flags.
package metadata

import "context"

// Keys used by the rest of the client.
const (
	KeySyncEnabled = "sync_enabled"
	KeyDeviceID    = "device_id"
)

// Repository is the key-value contract. Get returns (nil, nil) for a missing
// key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	// GetBool interprets "1" as true; a missing key returns the default.
	GetBool(ctx context.Context, key string, def bool) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}
