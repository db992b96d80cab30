package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"session-auth/internal/model"
)

func TestMemoryUserRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryUserRepository()

	_, err := repo.FindByUsername(ctx, "alice")
	require.ErrorIs(t, err, model.ErrUserNotFound)

	require.NoError(t, repo.Create(ctx, model.User{Username: "alice", PasswordHash: []byte("h1"), Role: model.RoleUser}))
	require.ErrorIs(t, repo.Create(ctx, model.User{Username: "alice"}), model.ErrUserAlreadyExists)

	require.NoError(t, repo.UpdatePassword(ctx, "alice", []byte("h2")))
	require.NoError(t, repo.UpdateRole(ctx, "alice", model.RoleAdmin))

	u, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []byte("h2"), u.PasswordHash)
	require.Equal(t, model.RoleAdmin, u.Role)

	require.ErrorIs(t, repo.UpdatePassword(ctx, "ghost", []byte("x")), model.ErrUserNotFound)
	require.ErrorIs(t, repo.UpdateRole(ctx, "ghost", model.RoleAdmin), model.ErrUserNotFound)
}

func TestMemorySessionRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemorySessionRepository()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	older := model.Session{ID: uuid.New(), Username: "alice", LoginTime: base}
	newer := model.Session{ID: uuid.New(), Username: "bob", LoginTime: base.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	listed, err := repo.ListByLoginTimeDesc(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, newer.ID, listed[0].ID)
	require.Equal(t, older.ID, listed[1].ID)

	matched, err := repo.SetLogout(ctx, older.ID, base.Add(30*time.Minute))
	require.NoError(t, err)
	require.True(t, matched)

	matched, err = repo.SetLogout(ctx, uuid.New(), base)
	require.NoError(t, err)
	require.False(t, matched)

	got, ok := repo.Get(older.ID)
	require.True(t, ok)
	require.NotNil(t, got.LogoutTime)
	require.Equal(t, base.Add(30*time.Minute), *got.LogoutTime)

	require.NoError(t, repo.Delete(ctx, older.ID))
	require.ErrorIs(t, repo.Delete(ctx, older.ID), model.ErrSessionNotFound)
	require.Equal(t, 1, repo.Len())
}
