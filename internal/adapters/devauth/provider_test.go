package devauth

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tramatch/tramatch-web/internal/ports"
)

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{Subject: "dev-user", Email: "Dev@Example.JP", Groups: []string{"tramatch-admin"}})
	require.NoError(t, err)

	authURL, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/dashboard"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(authURL, "/auth/callback?"), authURL)
	assert.NotEmpty(t, state)
	assert.NotEmpty(t, nonce)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, state, u.Query().Get("state"))

	fixed := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	prov.now = func() time.Time { return fixed }
	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	require.NoError(t, err)
	assert.Equal(t, "dev-user", id.Subject)
	assert.Equal(t, "dev@example.jp", id.Email)
	assert.Equal(t, []string{"tramatch-admin"}, id.Groups)
	assert.Equal(t, fixed.Add(8*time.Hour), id.ExpiresAt)
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Email: "a@example.jp"})
	assert.ErrorContains(t, err, "Subject is required")

	_, err = NewProvider(Config{Subject: "x"})
	assert.ErrorContains(t, err, "Email is required")
}
