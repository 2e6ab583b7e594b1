package bootstrap

import (
	"context"
	"fmt"

	"github.com/filmdesk/filmdesk-backend/config"
	"github.com/filmdesk/filmdesk-backend/internal/storage"
)

// OpenKV opens the device store selected by LOCAL_STORE.
func OpenKV(ctx context.Context, cfg config.LocalStoreConfig) (storage.KV, error) {
	switch cfg.Kind {
	case config.LocalStoreRedis:
		return storage.OpenRedisKV(ctx, cfg.RedisURL)
	case config.LocalStoreSQLite:
		return storage.OpenSQLiteKV(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown local store %q", cfg.Kind)
	}
}
