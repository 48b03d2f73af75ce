package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionManager("test-secret", time.Hour, rdb)
}

func TestSessionLifecycle(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	token, err := m.Start(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	require.NoError(t, m.End(ctx, "user-1"))
	_, err = m.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := newManager(t)

	_, err := m.Validate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestNewLoginReplacesOldSession(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	first, err := m.Start(ctx, "user-1")
	require.NoError(t, err)
	time.Sleep(time.Second)
	second, err := m.Start(ctx, "user-1")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = m.Validate(ctx, first)
	assert.ErrorIs(t, err, ErrInvalidSession)
	userID, err := m.Validate(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenSignedWithOtherSecretFails(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	m := NewSessionManager("secret-a", time.Hour, rdb)
	other := NewSessionManager("secret-b", time.Hour, rdb)
	ctx := context.Background()

	token, err := other.Start(ctx, "user-1")
	require.NoError(t, err)

	_, err = m.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
