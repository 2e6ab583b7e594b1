package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/storage"
)

func setupKV(t *testing.T) storage.KV {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return storage.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestKVBackend_LegacyNestedLayout(t *testing.T) {
	ctx := context.Background()
	kv := setupKV(t)
	legacy := `{
		"p1": [{"id":"t1","description":"Scout","assignedTo":"c1","startDate":"2024-01-01T00:00:00.000Z","endDate":"2024-01-03T00:00:00.000Z","status":"pendiente"}],
		"p2": [{"id":"t2","description":"Cast","assignedTo":["c1","c2"],"startDate":"2024-02-01T00:00:00Z","endDate":"2024-02-03T00:00:00Z","status":"completed"}]
	}`
	require.NoError(t, kv.Set(ctx, "tasks:u1", legacy))

	b := storage.NewKVBackend(kv, domain.TaskSchema)
	got, err := b.SelectAll(ctx, storage.Filter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "p1", got[0].ProjectID)
	assert.Equal(t, domain.StringList{"c1"}, got[0].AssignedTo)
	assert.Equal(t, domain.TaskPending, got[0].Status)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), got[0].EndDate.UTC())
	assert.Equal(t, "p2", got[1].ProjectID)

	onlyP2, err := b.SelectAll(ctx, storage.Filter{UserID: "u1", ProjectID: "p2"})
	require.NoError(t, err)
	require.Len(t, onlyP2, 1)
	assert.Equal(t, "t2", onlyP2[0].ID)
}

func TestKVBackend_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	kv := setupKV(t)
	require.NoError(t, kv.Set(ctx, "projects:u1", "{not json"))

	b := storage.NewKVBackend(kv, domain.ProjectSchema)
	_, err := b.SelectAll(ctx, storage.Filter{UserID: "u1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrCorruptPayload))
}

func TestKVBackend_WriteAfterCorruptPayload(t *testing.T) {
	ctx := context.Background()
	kv := setupKV(t)
	require.NoError(t, kv.Set(ctx, "projects:u1", "{not json"))
	b := storage.NewKVBackend(kv, domain.ProjectSchema)

	require.NoError(t, b.Insert(ctx, "u1", []domain.Project{{ID: "p1", Title: "Fresh"}}))

	got, err := b.SelectAll(ctx, storage.Filter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Fresh", got[0].Title)

	raw, ok, err := kv.Get(ctx, storage.CorruptKey("projects:u1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "{not json", raw)

	_, _, err = b.Locate(ctx, "p1")
	require.NoError(t, err)
}

func TestKVBackend_DeleteAfterCorruptPayload(t *testing.T) {
	ctx := context.Background()
	kv := setupKV(t)
	require.NoError(t, kv.Set(ctx, "tasks:u1", "[[["))
	b := storage.NewKVBackend(kv, domain.TaskSchema)

	require.NoError(t, b.Delete(ctx, storage.Filter{UserID: "u1", ProjectID: "p1"}))

	got, err := b.SelectAll(ctx, storage.Filter{UserID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestKVBackend_IdentityIsolation(t *testing.T) {
	ctx := context.Background()
	kv := setupKV(t)
	b := storage.NewKVBackend(kv, domain.ProjectSchema)

	require.NoError(t, b.Insert(ctx, "A", []domain.Project{{ID: "p1", Title: "Alpha"}}))
	require.NoError(t, b.Insert(ctx, "B", []domain.Project{{ID: "p2", Title: "Beta"}}))

	a, err := b.SelectAll(ctx, storage.Filter{UserID: "A"})
	require.NoError(t, err)
	require.Len(t, a, 1)
	assert.Equal(t, "Alpha", a[0].Title)

	ok, err := b.Exists(ctx, storage.Filter{UserID: "C"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVBackend_InsertUpdateDelete(t *testing.T) {
	ctx := context.Background()
	b := storage.NewKVBackend(setupKV(t), domain.BudgetSchema)

	require.NoError(t, b.Insert(ctx, "u1", []domain.BudgetItem{
		{ID: "b1", ProjectID: "p1", Category: "Crew", Status: domain.BudgetPending},
		{ID: "b2", ProjectID: "p2", Category: "Gear", Status: domain.BudgetPending},
	}))

	err := b.Insert(ctx, "u1", []domain.BudgetItem{{ID: "b1", ProjectID: "p1"}})
	assert.True(t, errors.Is(err, storage.ErrDuplicate))

	patch := domain.BudgetItem{Status: domain.BudgetApproved, Category: "ignored"}
	require.NoError(t, b.Update(ctx, "u1", "b1", &patch, []string{"status"}))
	require.NoError(t, b.Update(ctx, "u1", "missing", &patch, []string{"status"}))

	err = b.Update(ctx, "u1", "b1", &patch, []string{"nope"})
	assert.True(t, errors.Is(err, storage.ErrUnknownField))

	got, err := b.SelectAll(ctx, storage.Filter{UserID: "u1", ID: "b1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.BudgetApproved, got[0].Status)
	assert.Equal(t, "Crew", got[0].Category)

	require.NoError(t, b.Delete(ctx, storage.Filter{UserID: "u1", ProjectID: "p1"}))
	rest, err := b.SelectAll(ctx, storage.Filter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "b2", rest[0].ID)

	require.NoError(t, b.Delete(ctx, storage.Filter{UserID: "u1", ID: "missing"}))
	assert.Error(t, b.Delete(ctx, storage.Filter{UserID: "u1"}))
}

func TestKVBackend_OnePerProject(t *testing.T) {
	ctx := context.Background()
	kv := setupKV(t)
	require.NoError(t, kv.Set(ctx, "directors:u1", `{"p1":{"id":"d1","name":"Agnès","email":"a@x.fr"}}`))

	b := storage.NewKVBackend(kv, domain.DirectorSchema)
	got, err := b.SelectAll(ctx, storage.Filter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ProjectID)

	require.NoError(t, b.Insert(ctx, "u1", []domain.Director{{ID: "d2", ProjectID: "p2", Name: "Bong"}}))
	raw, ok, err := kv.Get(ctx, "directors:u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"p2":{`)
}

func TestKVBackend_Locate(t *testing.T) {
	ctx := context.Background()
	kv := setupKV(t)
	b := storage.NewKVBackend(kv, domain.VisitorSchema)

	require.NoError(t, b.Insert(ctx, "owner-1", []domain.Visitor{{ID: "tok-1", ProjectID: "p1", Email: "v@x.com"}}))
	require.NoError(t, kv.Set(ctx, "visitors:broken", "{not json"))

	owner, v, err := b.Locate(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", owner)
	assert.Equal(t, "p1", v.ProjectID)
	assert.Equal(t, domain.VisitorPending, v.Status)

	_, _, err = b.Locate(ctx, "tok-2")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}
