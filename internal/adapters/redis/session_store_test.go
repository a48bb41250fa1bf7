package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/ports"
	"github.com/tramatch/tramatch-web/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func newSession(id, userID string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID:          id,
		UserID:      userID,
		Username:    "yamato",
		CompanyName: "ヤマト運輸",
		Email:       "user@example.jp",
		Role:        domainauth.RoleUser,
		Approved:    true,
		ExpiresAt:   time.Now().Add(ttl),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := newSession("test-session-1", "user-123", 30*time.Minute)
	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.UserID, retrieved.UserID)
	assert.Equal(t, session.CompanyName, retrieved.CompanyName)
	assert.Equal(t, session.Role, retrieved.Role)
	assert.True(t, retrieved.Approved)
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	_, err := store.Get(ctx, "non-existent")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("test-session-delete", "user-123", 30*time.Minute)))
	_, err := store.Get(ctx, "test-session-delete")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "test-session-delete"))

	_, err = store.Get(ctx, "test-session-delete")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_DeleteUser(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("phone", "user-1", time.Hour)))
	require.NoError(t, store.Save(ctx, newSession("laptop", "user-1", time.Hour)))
	require.NoError(t, store.Save(ctx, newSession("other", "user-2", time.Hour)))

	require.NoError(t, store.DeleteUser(ctx, "user-1"))

	for _, id := range []string{"phone", "laptop"} {
		_, err := store.Get(ctx, id)
		assert.ErrorIs(t, err, ports.ErrSessionNotFound, id)
	}
	_, err := store.Get(ctx, "other")
	assert.NoError(t, err)
}

func TestSessionStore_TTLExpiration(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("test-session-ttl", "user-123", 100*time.Millisecond)))

	time.Sleep(200 * time.Millisecond)

	_, err := store.Get(ctx, "test-session-ttl")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_ClockExpiryDeletesKey(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("skewed", "user-123", time.Hour)))
	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err := store.Get(ctx, "skewed")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	n, err := client.Exists(ctx, store.key("skewed")).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSessionStore_SaveRejectsInvalid(t *testing.T) {
	store := NewSessionStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}))
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, domainauth.Session{ExpiresAt: time.Now().Add(time.Hour)}))
	assert.Error(t, store.Save(ctx, newSession("old", "u", -time.Minute)))
}
