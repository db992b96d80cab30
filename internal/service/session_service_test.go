package service

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"session-auth/internal/model"
	"session-auth/internal/repository"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestSessionServiceList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := repository.NewMemorySessionRepository()
	svc := NewSessionService(store, mustLocation(t, "Asia/Kolkata"), nil)

	first := model.Session{ID: uuid.New(), Username: "alice", LoginTime: time.Date(2024, 1, 15, 18, 45, 30, 0, time.UTC)}
	logout := time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC)
	first.LogoutTime = &logout
	second := model.Session{ID: uuid.New(), Username: "bob", LoginTime: time.Date(2024, 1, 16, 4, 30, 0, 0, time.UTC)}
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))

	views, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)

	require.Equal(t, model.SessionView{
		ID:         second.ID.String(),
		Username:   "bob",
		LoginTime:  "16/01/2024, 10:00:00 AM",
		LogoutTime: model.ActiveMarker,
	}, views[0])

	require.Equal(t, model.SessionView{
		ID:         first.ID.String(),
		Username:   "alice",
		LoginTime:  "16/01/2024, 12:15:30 AM",
		LogoutTime: "16/01/2024, 12:30:00 AM",
	}, views[1])
}

func TestSessionServiceListEmpty(t *testing.T) {
	t.Parallel()

	svc := NewSessionService(repository.NewMemorySessionRepository(), nil, nil)
	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, views)
	require.Empty(t, views)
}

func TestSessionServiceTimezoneIsConfigurable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := repository.NewMemorySessionRepository()
	require.NoError(t, store.Create(ctx, model.Session{
		ID:        uuid.New(),
		Username:  "alice",
		LoginTime: time.Date(2024, 7, 1, 13, 5, 9, 0, time.UTC),
	}))

	views, err := NewSessionService(store, time.UTC, nil).List(ctx)
	require.NoError(t, err)
	require.Equal(t, "01/07/2024, 01:05:09 PM", views[0].LoginTime)
}

func TestSessionServiceDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := repository.NewMemorySessionRepository()
	svc := NewSessionService(store, time.UTC, nil)

	id := uuid.New()
	require.NoError(t, store.Create(ctx, model.Session{ID: id, Username: "alice", LoginTime: time.Now().UTC()}))

	require.NoError(t, svc.Delete(ctx, id.String()))
	require.ErrorIs(t, svc.Delete(ctx, id.String()), model.ErrSessionNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "garbage"), model.ErrMalformedSession)
}
