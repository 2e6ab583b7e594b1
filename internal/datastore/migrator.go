package datastore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/filmdesk/filmdesk-backend/internal/logging"
	"github.com/filmdesk/filmdesk-backend/internal/storage"
)

// Migrator copies a user's legacy device records into the remote backend once.
// Any remote record for the user is the permanent completion marker.
type Migrator[T any] struct {
	schema *storage.Schema[T]
	local  storage.Backend[T]
	remote storage.Backend[T]
}

func NewMigrator[T any](schema *storage.Schema[T], local, remote storage.Backend[T]) *Migrator[T] {
	return &Migrator[T]{schema: schema, local: local, remote: remote}
}

// MigrateIfNeeded inserts every local record for userID into the remote backend in one
// batch, unless the remote already holds records for the user.
func (m *Migrator[T]) MigrateIfNeeded(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	f := storage.Filter{UserID: userID}

	done, err := m.remote.Exists(ctx, f)
	if err != nil {
		return fmt.Errorf("migrate %s: check remote: %w", m.schema.Domain, err)
	}
	if done {
		return nil
	}

	recs, err := m.local.SelectAll(ctx, f)
	if err != nil {
		return fmt.Errorf("migrate %s: read local: %w", m.schema.Domain, err)
	}
	if len(recs) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(recs))
	batch := recs[:0]
	for i := range recs {
		id := m.schema.ID(&recs[i])
		if *id == "" {
			*id = uuid.NewString()
		}
		if _, dup := seen[*id]; dup {
			continue
		}
		seen[*id] = struct{}{}
		batch = append(batch, recs[i])
	}

	if err := m.remote.Insert(ctx, userID, batch); err != nil {
		return fmt.Errorf("migrate %s: insert: %w", m.schema.Domain, err)
	}
	logging.New(ctx, "migrate").LogInfof("migrate", "domain=%s user=%s records=%d", m.schema.Domain, userID, len(batch))
	return nil
}
