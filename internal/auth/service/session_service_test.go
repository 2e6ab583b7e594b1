package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmdesk/filmdesk-backend/internal/auth"
	"github.com/filmdesk/filmdesk-backend/internal/domain"
	"github.com/filmdesk/filmdesk-backend/internal/storage"
)

type fakeTokens struct{ forgotten []string }

func (f *fakeTokens) Forget(_ context.Context, userID string) error {
	f.forgotten = append(f.forgotten, userID)
	return nil
}

func TestSessionService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	kv, err := storage.OpenSQLiteKV(":memory:")
	require.NoError(t, err)
	defer kv.Close()

	identity := auth.NewIdentity()
	var events []string
	identity.Subscribe(func(uid string) { events = append(events, uid) })
	tokens := &fakeTokens{}
	svc := NewSessionService(identity, kv, tokens)

	require.NoError(t, kv.Set(ctx, storage.ScopedKey(storage.KeyProjects, "u1"), `[{"id":"old"}]`))

	u, err := svc.Register(ctx, domain.User{ID: "u1", Email: "jane@studio.io"})
	require.NoError(t, err)
	assert.Equal(t, "jane", u.Name)
	assert.Equal(t, domain.RoleMember, u.Role)

	_, ok, err := kv.Get(ctx, storage.ScopedKey(storage.KeyProjects, "u1"))
	require.NoError(t, err)
	assert.False(t, ok, "register starts from a blank canvas")

	require.NotNil(t, svc.Current())
	require.NoError(t, svc.Logout(ctx))
	assert.Nil(t, svc.Current())
	assert.Equal(t, []string{"u1"}, tokens.forgotten)
	assert.Equal(t, []string{"u1", ""}, events)

	_, err = svc.Login(ctx, domain.User{})
	assert.Error(t, err)
}
