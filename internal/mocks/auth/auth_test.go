package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/ports"
)

func TestMockAuthProvider_Begin(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()
	in := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"}

	authURL, state, nonce, err := provider.Begin(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	_, state, nonce, err = provider.Begin(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "state-2", state)
	assert.Equal(t, "nonce-2", nonce)
}

func TestMockAuthProvider_Exchange(t *testing.T) {
	provider := NewMockAuthProvider()
	id, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c"})
	require.NoError(t, err)
	assert.Equal(t, "mock.user@example.jp", id.Email)
	assert.True(t, id.ExpiresAt.After(time.Now()))

	provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("denied")
	}
	_, err = provider.Exchange(context.Background(), ports.ExchangeInput{})
	assert.EqualError(t, err, "denied")
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	require.Error(t, store.Save(ctx, domainauth.Session{}))
	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "s1", Role: domainauth.RoleAdmin}))
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "s1"))
	assert.Equal(t, 0, store.Len())

	store.Err = errors.New("redis down")
	_, err = store.Get(ctx, "s1")
	assert.EqualError(t, err, "redis down")
}

func TestStaticRoleMapper(t *testing.T) {
	m := StaticRoleMapper{AdminGroup: "tramatch-admins"}
	assert.Equal(t, domainauth.RoleAdmin, m.Map([]string{"x", "tramatch-admins"}))
	assert.Equal(t, domainauth.RoleUser, m.Map([]string{"x"}))
	assert.Equal(t, domainauth.RoleUser, StaticRoleMapper{}.Map([]string{""}))
}
