package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pribylovaa/register-service/internal/models"
	"github.com/pribylovaa/register-service/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestIntegration_SaveSession_And_ByToken_OK(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()
	u := seedUser(t, st, "alice@example.com")

	exp := time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)
	s := &models.Session{UserID: u.ID, Token: "tok-1", ExpiresAt: exp}
	require.NoError(t, st.SaveSession(ctx, s))
	require.NotEqual(t, uuid.Nil, s.ID)

	got, err := st.SessionByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, s.ID, got.ID)
	require.Equal(t, u.ID, got.UserID)
	require.True(t, exp.Equal(got.ExpiresAt))
}

func TestIntegration_SaveSession_DuplicateToken(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()
	u := seedUser(t, st, "alice@example.com")

	exp := time.Now().Add(time.Hour)
	require.NoError(t, st.SaveSession(ctx, &models.Session{UserID: u.ID, Token: "tok", ExpiresAt: exp}))

	err := st.SaveSession(ctx, &models.Session{UserID: u.ID, Token: "tok", ExpiresAt: exp})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestIntegration_SaveSession_UnknownUser(t *testing.T) {
	st := startPostgres(t)

	err := st.SaveSession(context.Background(), &models.Session{
		UserID:    uuid.New(),
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestIntegration_SessionsByUserID(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()
	alice := seedUser(t, st, "alice@example.com")
	bob := seedUser(t, st, "bob@example.com")

	exp := time.Now().Add(time.Hour)
	require.NoError(t, st.SaveSession(ctx, &models.Session{UserID: alice.ID, Token: "a1", ExpiresAt: exp}))
	require.NoError(t, st.SaveSession(ctx, &models.Session{UserID: alice.ID, Token: "a2", ExpiresAt: exp}))
	require.NoError(t, st.SaveSession(ctx, &models.Session{UserID: bob.ID, Token: "b1", ExpiresAt: exp}))

	got, err := st.SessionsByUserID(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, s := range got {
		require.Equal(t, alice.ID, s.UserID)
	}

	got, err = st.SessionsByUserID(ctx, uuid.New())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestIntegration_DeleteExpiredSessions(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()
	u := seedUser(t, st, "alice@example.com")

	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, st.SaveSession(ctx, &models.Session{UserID: u.ID, Token: "old", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, st.SaveSession(ctx, &models.Session{UserID: u.ID, Token: "edge", ExpiresAt: now}))
	require.NoError(t, st.SaveSession(ctx, &models.Session{UserID: u.ID, Token: "live", ExpiresAt: now.Add(time.Hour)}))

	n, err := st.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	_, err = st.SessionByToken(ctx, "live")
	require.NoError(t, err)
	_, err = st.SessionByToken(ctx, "old")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
