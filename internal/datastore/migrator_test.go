package datastore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmdesk/filmdesk-backend/internal/datastore"
	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/storage"
)

const legacyTasks = `{
	"p1": [
		{"id":"t1","description":"Scout","assignedTo":"c1","status":"pending"},
		{"id":"t2","description":"Cast","assignedTo":["c1","c2"],"status":"pending"}
	],
	"p2": [{"id":"t3","description":"Edit","status":"completed"}]
}`

func setupMigration(t *testing.T) (local, remote *storage.KVBackend[domain.Task], localKV storage.KV) {
	localKV = setupKV(t)
	local = storage.NewKVBackend(localKV, domain.TaskSchema)
	remote = storage.NewKVBackend(setupKV(t), domain.TaskSchema)
	return local, remote, localKV
}

func TestMigrator_CopiesOnce(t *testing.T) {
	ctx := context.Background()
	local, remote, localKV := setupMigration(t)
	require.NoError(t, localKV.Set(ctx, "tasks:u1", legacyTasks))

	m := datastore.NewMigrator[domain.Task](domain.TaskSchema, local, remote)
	require.NoError(t, m.MigrateIfNeeded(ctx, "u1"))

	got, err := remote.SelectAll(ctx, storage.Filter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "p1", got[0].ProjectID)
	assert.Equal(t, domain.StringList{"c1"}, got[0].AssignedTo)

	// new local data after completion is never copied
	require.NoError(t, local.Insert(ctx, "u1", []domain.Task{{ID: "t4", ProjectID: "p1"}}))
	require.NoError(t, m.MigrateIfNeeded(ctx, "u1"))
	require.NoError(t, m.MigrateIfNeeded(ctx, "u1"))

	got, err = remote.SelectAll(ctx, storage.Filter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestMigrator_NothingLocal(t *testing.T) {
	ctx := context.Background()
	local, remote, _ := setupMigration(t)

	m := datastore.NewMigrator[domain.Task](domain.TaskSchema, local, remote)
	require.NoError(t, m.MigrateIfNeeded(ctx, "u1"))
	require.NoError(t, m.MigrateIfNeeded(ctx, ""))

	ok, err := remote.Exists(ctx, storage.Filter{UserID: "u1"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMigrator_DropsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	local, remote, localKV := setupMigration(t)
	require.NoError(t, localKV.Set(ctx, "tasks:u1", `{"p1":[{"id":"t1"},{"id":"t1"},{"id":""}]}`))

	m := datastore.NewMigrator[domain.Task](domain.TaskSchema, local, remote)
	require.NoError(t, m.MigrateIfNeeded(ctx, "u1"))

	got, err := remote.SelectAll(ctx, storage.Filter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.NotEmpty(t, got[1].ID)
}

func TestStore_LoadMigratesThenReadsRemote(t *testing.T) {
	ctx := context.Background()
	local, remote, localKV := setupMigration(t)
	require.NoError(t, localKV.Set(ctx, "tasks:u1", legacyTasks))

	s := datastore.New(datastore.Config[domain.Task]{
		Schema:   domain.TaskSchema,
		Backend:  remote,
		Migrator: datastore.NewMigrator[domain.Task](domain.TaskSchema, local, remote),
	})
	require.NoError(t, s.Load(ctx, "u1"))
	require.NoError(t, s.Load(ctx, "u1"))

	assert.Len(t, s.List(), 3)
	assert.ElementsMatch(t, []string{"p1", "p2"}, s.Projects())
}

func TestStore_MigrationFailureStillLoads(t *testing.T) {
	ctx := context.Background()
	local, remote, localKV := setupMigration(t)
	require.NoError(t, localKV.Set(ctx, "tasks:u1", legacyTasks))
	require.NoError(t, remote.Insert(ctx, "u1", []domain.Task{{ID: "r1", ProjectID: "p9"}}))

	failing := &hookedBackend[domain.Task]{Backend: remote, existsErr: errors.New("remote unavailable")}
	s := datastore.New(datastore.Config[domain.Task]{
		Schema:   domain.TaskSchema,
		Backend:  remote,
		Migrator: datastore.NewMigrator[domain.Task](domain.TaskSchema, local, failing),
	})
	require.NoError(t, s.Load(ctx, "u1"))

	assert.Equal(t, []string{"r1"}, ids(domain.TaskSchema, s.List()))
}
