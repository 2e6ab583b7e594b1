package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/filmdesk/filmdesk-backend/config"
	"github.com/filmdesk/filmdesk-backend/internal/db"
)

type DBOptions struct {
	Config    config.DatabaseConfig
	ConnectTO time.Duration
}

// OpenDB connects to the remote store and applies schema migrations when enabled.
// It returns nil, nil when no DSN is configured.
func OpenDB(ctx context.Context, opt DBOptions) (*db.DB, error) {
	if !opt.Config.Enabled() {
		log.Println("[db] DB_DSN not set, device store is authoritative")
		return nil, nil
	}
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	if opt.Config.Migrate {
		if err := db.Migrate(opt.Config.DSN); err != nil {
			return nil, fmt.Errorf("db migrate: %w", err)
		}
	}

	conn, err := db.Open(cctx, opt.Config)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	return conn, nil
}
