package storage

import (
	"context"
	"fmt"
)

// KV is the on-device key/value store holding whole serialized collections.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	// Keys lists every stored key starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// ClearUser removes every collection stored for userID.
func ClearUser(ctx context.Context, kv KV, userID string) error {
	if userID == "" {
		return fmt.Errorf("user id required")
	}
	keys := make([]string, 0, 2*len(UserDomains))
	for _, d := range UserDomains {
		key := ScopedKey(d, userID)
		keys = append(keys, key, CorruptKey(key))
	}
	if err := kv.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("clear user %s: %w", userID, err)
	}
	return nil
}
