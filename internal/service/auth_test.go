package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tramatch/tramatch-web/internal/core"
	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
	"github.com/tramatch/tramatch-web/internal/mocks"
	authmocks "github.com/tramatch/tramatch-web/internal/mocks/auth"
	"github.com/tramatch/tramatch-web/internal/ports"
)

type authFixture struct {
	svc      *AuthService
	users    *mocks.MockUserRepository
	sessions *authmocks.MemorySessionStore
	provider *authmocks.MockAuthProvider
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := authFixture{
		users:    mocks.NewMockUserRepository(ctrl),
		sessions: authmocks.NewMemorySessionStore(),
		provider: authmocks.NewMockAuthProvider(),
	}
	f.svc = NewAuthService(AuthServiceOptions{
		Provider: f.provider,
		Sessions: f.sessions,
		Roles:    authmocks.StaticRoleMapper{AdminGroup: "tramatch-admin"},
		Users:    f.users,
	})
	return f
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := HashPassword(password)
	require.NoError(t, err)
	return h
}

func TestNewAuthService(t *testing.T) {
	sessions := authmocks.NewMemorySessionStore()
	ctrl := gomock.NewController(t)
	svc := NewAuthService(AuthServiceOptions{Sessions: sessions, Users: mocks.NewMockUserRepository(ctrl)})

	assert.Equal(t, DefaultSessionTTL, svc.ttl)
	assert.False(t, svc.SSOEnabled())

	assert.Panics(t, func() { NewAuthService(AuthServiceOptions{}) })
	assert.Panics(t, func() { NewAuthService(AuthServiceOptions{Sessions: sessions}) })
}

func TestAuthService_PasswordLogin(t *testing.T) {
	ctx := context.Background()
	user := &model.User{
		ID:           "u-1",
		Username:     "sato",
		Email:        "sato@example.jp",
		CompanyName:  "佐藤運送",
		Role:         "user",
		Approved:     true,
		PasswordHash: hashed(t, "correct-horse"),
	}

	t.Run("by username", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByUsername(ctx, "sato").Return(user, nil)

		sess, err := f.svc.PasswordLogin(ctx, " sato ", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, "u-1", sess.UserID)
		assert.Equal(t, "佐藤運送", sess.CompanyName)
		assert.Equal(t, domainauth.RoleUser, sess.Role)
		assert.True(t, sess.Approved)
		assert.WithinDuration(t, time.Now().Add(DefaultSessionTTL), sess.ExpiresAt, time.Minute)
		assert.Equal(t, 1, f.sessions.Len())
	})

	t.Run("by email", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByEmail(ctx, "sato@example.jp").Return(user, nil)

		_, err := f.svc.PasswordLogin(ctx, "sato@example.jp", "correct-horse")
		require.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByUsername(ctx, "sato").Return(user, nil)

		_, err := f.svc.PasswordLogin(ctx, "sato", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Zero(t, f.sessions.Len())
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByUsername(ctx, "ghost").Return(nil, apperrors.NotFound("user not found"))

		_, err := f.svc.PasswordLogin(ctx, "ghost", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("sso-only account", func(t *testing.T) {
		f := newAuthFixture(t)
		sso := *user
		sso.PasswordHash = ""
		f.users.EXPECT().GetByUsername(ctx, "sato").Return(&sso, nil)

		_, err := f.svc.PasswordLogin(ctx, "sato", "correct-horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty input", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.PasswordLogin(ctx, "", "x")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByUsername(ctx, "sato").Return(nil, errors.New("db down"))

		_, err := f.svc.PasswordLogin(ctx, "sato", "correct-horse")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_BeginLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.svc.BeginLogin(ctx, "http://localhost:8080/auth/callback")
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", res.AuthURL)
	assert.Equal(t, "state-1", res.State)
	assert.Equal(t, "nonce-1", res.Nonce)

	_, err = f.svc.BeginLogin(ctx, "")
	require.Error(t, err)

	f.provider.BeginFunc = func(context.Context, ports.BeginInput) (string, string, string, error) {
		return "", "", "", errors.New("idp down")
	}
	_, err = f.svc.BeginLogin(ctx, "http://localhost:8080/auth/callback")
	assert.ErrorContains(t, err, "begin auth flow")
}

func TestAuthService_SSODisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewAuthService(AuthServiceOptions{
		Sessions: authmocks.NewMemorySessionStore(),
		Users:    mocks.NewMockUserRepository(ctrl),
	})

	_, err := svc.BeginLogin(context.Background(), "http://x")
	assert.ErrorIs(t, err, ErrSSODisabled)
	_, err = svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
	assert.ErrorIs(t, err, ErrSSODisabled)
}

func TestAuthService_CompleteLogin(t *testing.T) {
	ctx := context.Background()
	input := CompleteLoginInput{Code: "code", State: "state", Nonce: "nonce"}

	t.Run("links existing account", func(t *testing.T) {
		f := newAuthFixture(t)
		existing := &model.User{ID: "u-1", Username: "mock", Email: "mock.user@example.jp", Role: "user", Approved: true}
		f.users.EXPECT().GetByEmail(ctx, "mock.user@example.jp").Return(existing, nil)

		res, err := f.svc.CompleteLogin(ctx, input)
		require.NoError(t, err)
		assert.False(t, res.Provisioned)
		assert.Equal(t, "u-1", res.Session.UserID)
		assert.True(t, res.Session.Approved)
		// The identity expiry is sooner than the default TTL.
		assert.WithinDuration(t, time.Now().Add(time.Hour), res.Session.ExpiresAt, time.Minute)
	})

	t.Run("provisions unapproved account", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByEmail(ctx, "mock.user@example.jp").Return(nil, apperrors.NotFound("user not found"))
		f.users.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, p core.CreateUserParams) (*model.User, error) {
				assert.Equal(t, "mock.user-k-user-1", p.Username)
				assert.Equal(t, "Mock User", p.CompanyName)
				assert.Empty(t, p.PasswordHash)
				assert.False(t, p.Approved)
				assert.Equal(t, "user", p.Role)
				return &model.User{ID: "u-new", Username: p.Username, Email: p.Email, Role: p.Role}, nil
			})

		res, err := f.svc.CompleteLogin(ctx, input)
		require.NoError(t, err)
		assert.True(t, res.Provisioned)
		assert.False(t, res.Session.Approved)
	})

	t.Run("admin group promotes", func(t *testing.T) {
		f := newAuthFixture(t)
		f.provider.DefaultUser.Groups = []string{"tramatch-admin"}
		existing := &model.User{ID: "u-1", Email: "mock.user@example.jp", Role: "user", Approved: true}
		f.users.EXPECT().GetByEmail(ctx, "mock.user@example.jp").Return(existing, nil)
		f.users.EXPECT().SetRole(ctx, "u-1", "admin").Return(nil)

		res, err := f.svc.CompleteLogin(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleAdmin, res.Session.Role)
	})

	t.Run("missing parameters", func(t *testing.T) {
		f := newAuthFixture(t)
		for _, in := range []CompleteLoginInput{
			{State: "s", Nonce: "n"},
			{Code: "c", Nonce: "n"},
			{Code: "c", State: "s"},
		} {
			_, err := f.svc.CompleteLogin(ctx, in)
			assert.Error(t, err)
		}
	})

	t.Run("exchange failure", func(t *testing.T) {
		f := newAuthFixture(t)
		f.provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{}, errors.New("invalid_grant")
		}
		_, err := f.svc.CompleteLogin(ctx, input)
		assert.ErrorContains(t, err, "exchange authorization code")
		assert.Zero(t, f.sessions.Len())
	})
}

func TestSSOUsername(t *testing.T) {
	tests := []struct {
		name string
		id   domainauth.Identity
		want string
	}{
		{"plain", domainauth.Identity{Email: "taro@example.jp", Subject: "abc"}, "taro-abc"},
		{"short local part", domainauth.Identity{Email: "a@example.jp", Subject: "1"}, "usera-1"},
		{"strips symbols", domainauth.Identity{Email: "ta+ro@example.jp", Subject: "x|y"}, "taro-xy"},
		{"long subject", domainauth.Identity{Email: "taro@example.jp", Subject: "0123456789abcdef"}, "taro-89abcdef"},
		{"no subject", domainauth.Identity{Email: "taro@example.jp"}, "taro"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ssoUsername(tt.id))
		})
	}
}

func TestAuthService_ResolveState(t *testing.T) {
	ctx := context.Background()

	t.Run("no cookie", func(t *testing.T) {
		f := newAuthFixture(t)
		assert.Equal(t, domainauth.Anonymous(), f.svc.ResolveState(ctx, ""))
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newAuthFixture(t)
		assert.Equal(t, domainauth.Anonymous(), f.svc.ResolveState(ctx, "nope"))
	})

	t.Run("valid admin session", func(t *testing.T) {
		f := newAuthFixture(t)
		require.NoError(t, f.sessions.Save(ctx, domainauth.Session{
			ID: "s1", UserID: "u-1", Role: domainauth.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour),
		}))
		st := f.svc.ResolveState(ctx, "s1")
		assert.True(t, st.IsAuthenticated)
		assert.True(t, st.IsAdmin)
		assert.False(t, st.IsLoading)
		require.NotNil(t, st.User)
		assert.Equal(t, "u-1", st.User.ID)
	})

	t.Run("expired session is removed", func(t *testing.T) {
		f := newAuthFixture(t)
		require.NoError(t, f.sessions.Save(ctx, domainauth.Session{
			ID: "old", UserID: "u-1", ExpiresAt: time.Now().Add(-time.Minute),
		}))
		assert.Equal(t, domainauth.Anonymous(), f.svc.ResolveState(ctx, "old"))
		assert.Zero(t, f.sessions.Len())
	})

	t.Run("store unavailable", func(t *testing.T) {
		f := newAuthFixture(t)
		f.sessions.Err = errors.New("connection refused")
		st := f.svc.ResolveState(ctx, "s1")
		assert.True(t, st.IsLoading)
		assert.False(t, st.IsAuthenticated)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)
	require.NoError(t, f.sessions.Save(ctx, domainauth.Session{
		ID: "s1", UserID: "u-1", Approved: false, Role: domainauth.RoleUser, ExpiresAt: exp,
	}))
	f.users.EXPECT().GetByID(ctx, "u-1").Return(&model.User{
		ID: "u-1", Username: "sato", CompanyName: "佐藤運送", Role: "admin", Approved: true,
	}, nil)

	sess, err := f.svc.Refresh(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, sess.Approved)
	assert.Equal(t, domainauth.RoleAdmin, sess.Role)
	assert.Equal(t, exp, sess.ExpiresAt)

	stored, err := f.sessions.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "佐藤運送", stored.CompanyName)

	_, err = f.svc.Refresh(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sessions.Save(ctx, domainauth.Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)}))

	require.NoError(t, f.svc.Logout(ctx, "s1"))
	assert.Zero(t, f.sessions.Len())
	require.NoError(t, f.svc.Logout(ctx, ""))

	f.sessions.Err = errors.New("down")
	assert.ErrorContains(t, f.svc.Logout(ctx, "s1"), "delete session")
}

func TestGenerateSessionID(t *testing.T) {
	a, b := generateSessionID(), generateSessionID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
