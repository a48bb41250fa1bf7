package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
)

func TestSessionStateFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, domainauth.Anonymous(), SessionStateFromContext(ctx))
	assert.Empty(t, currentUserID(ctx))

	st := domainauth.StateFromSession(domainauth.Session{UserID: "u1", Role: domainauth.RoleAdmin})
	ctx = SetSessionStateInContext(ctx, st)
	assert.True(t, SessionStateFromContext(ctx).IsAdmin)
	assert.Equal(t, "u1", currentUserID(ctx))
}

func TestSessionInContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetSessionFromContext(ctx))
	assert.Equal(t, ctx, SetSessionInContext(ctx, nil))

	s := &domainauth.Session{ID: "sid"}
	assert.Same(t, s, GetSessionFromContext(SetSessionInContext(ctx, s)))
}
