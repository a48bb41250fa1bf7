package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tramatch/tramatch-web/internal/core"
	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
	"github.com/tramatch/tramatch-web/internal/service"
)

func testUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := service.HashPassword(password)
	require.NoError(t, err)
	return &model.User{
		ID:           "u-1",
		Username:     "yamada",
		Email:        "yamada@example.jp",
		PasswordHash: hash,
		CompanyName:  "山田運送",
		Role:         string(domainauth.RoleUser),
		Approved:     true,
	}
}

func TestLogin_Success(t *testing.T) {
	tests := []struct {
		name         string
		login        string
		redirectURI  string
		wantLocation string
	}{
		{"username back to page", "yamada", "/cargo?from=tokyo", "/cargo?from=tokyo"},
		{"email defaults home", "yamada@example.jp", "", "/home"},
		{"landing becomes home", "yamada", "/", "/home"},
		{"external redirect ignored", "yamada", "https://evil.example.com/x", "/home"},
		{"scheme-relative redirect ignored", "yamada", "//evil.example.com", "/home"},
		{"backslash redirect ignored", "yamada", `/\evil.example.com`, "/home"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			user := testUser(t, "correct-horse")
			f.users.EXPECT().GetByUsername(gomock.Any(), "yamada").Return(user, nil).AnyTimes()
			f.users.EXPECT().GetByEmail(gomock.Any(), "yamada@example.jp").Return(user, nil).AnyTimes()

			rec := f.serve(postRequest("/login", url.Values{
				"login":        {tt.login},
				"password":     {"correct-horse"},
				"redirect_uri": {tt.redirectURI},
			}))

			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			c := findCookie(rec, SessionCookie)
			require.NotNil(t, c)
			assert.True(t, c.HttpOnly)
			assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
			assert.Equal(t, 1, f.sessions.Len())
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newRouterFixture(t)
	f.users.EXPECT().GetByUsername(gomock.Any(), "yamada").Return(testUser(t, "correct-horse"), nil)
	f.users.EXPECT().GetByUsername(gomock.Any(), "nobody").Return(nil, apperrors.NotFound("user not found"))

	for _, login := range []string{"yamada", "nobody"} {
		rec := f.serve(postRequest("/login", url.Values{"login": {login}, "password": {"wrong-password"}}))

		assert.Equal(t, http.StatusUnauthorized, rec.Code, login)
		body := rec.Body.String()
		assert.Contains(t, body, errMsgLoginFailed, login)
		assert.Contains(t, body, `name="login" value="`+login+`"`, "login is echoed")
		assert.NotContains(t, body, "wrong-password", "password is never echoed")
		assert.Nil(t, findCookie(rec, SessionCookie))
	}
	assert.Zero(t, f.sessions.Len())
}

func TestLogin_SessionStoreDown(t *testing.T) {
	f := newRouterFixture(t)
	f.users.EXPECT().GetByUsername(gomock.Any(), "yamada").Return(testUser(t, "correct-horse"), nil)
	f.sessions.Err = errors.New("redis: connection refused")

	rec := f.serve(postRequest("/login", url.Values{"login": {"yamada"}, "password": {"correct-horse"}}))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), errMsgSessionFailed)
	assert.Nil(t, findCookie(rec, SessionCookie))
}

func TestLogin_HTMXRedirect(t *testing.T) {
	f := newRouterFixture(t)
	f.users.EXPECT().GetByUsername(gomock.Any(), "yamada").Return(testUser(t, "correct-horse"), nil)

	rec := f.serve(htmx(postRequest("/login", url.Values{
		"login":        {"yamada"},
		"password":     {"correct-horse"},
		"redirect_uri": {"/my-cargo"},
	}), ""))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/my-cargo", rec.Header().Get("Hx-Redirect"))
}

func TestLogout(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.login(t, domainauth.RoleUser)
	require.Equal(t, 1, f.sessions.Len())

	rec := f.serve(postRequest("/logout", nil, cookie))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	c := findCookie(rec, SessionCookie)
	require.NotNil(t, c)
	assert.Negative(t, c.MaxAge)
	assert.Zero(t, f.sessions.Len())
}

func TestRegister_PasswordMismatch(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.serve(postRequest("/register", url.Values{
		"username":         {"sato"},
		"password":         {"password-one"},
		"password_confirm": {"password-two"},
		"email":            {"sato@example.jp"},
		"company_name":     {"佐藤物流"},
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-field="password_confirm"`)
	assert.NotContains(t, rec.Body.String(), "password-one")
}

func TestRegister_SignsIn(t *testing.T) {
	f := newRouterFixture(t)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p core.CreateUserParams) (*model.User, error) {
			assert.Equal(t, "sato", p.Username)
			assert.Equal(t, string(domainauth.RoleUser), p.Role)
			assert.NotEqual(t, "password-one", p.PasswordHash)
			return &model.User{ID: "u-sato", Username: p.Username}, nil
		})
	f.users.EXPECT().GetByUsername(gomock.Any(), "sato").Return(testUserNamed(t, "sato", "password-one"), nil)

	rec := f.serve(postRequest("/register", url.Values{
		"username":         {"sato"},
		"password":         {"password-one"},
		"password_confirm": {"password-one"},
		"email":            {"sato@example.jp"},
		"company_name":     {"佐藤物流"},
		"contact_name":     {"佐藤"},
	}))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))
	assert.NotNil(t, findCookie(rec, SessionCookie))
}

func TestRegister_ValidationErrors(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.serve(postRequest("/register", url.Values{
		"username":         {"x"},
		"password":         {"short"},
		"password_confirm": {"short"},
		"email":            {"not-an-email"},
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	for _, field := range []string{"username", "password", "email", "company_name", FormErrorKey} {
		assert.Contains(t, body, `data-field="`+field+`"`)
	}
}

func testUserNamed(t *testing.T, username, password string) *model.User {
	t.Helper()
	u := testUser(t, password)
	u.ID = "u-" + username
	u.Username = username
	u.Approved = false
	return u
}

func TestForgotPassword(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.serve(postRequest("/forgot-password", url.Values{"email": {""}}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-field="email"`)

	rec = f.serve(postRequest("/forgot-password", url.Values{"email": {"unknown@example.jp"}}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="flash"`)
}

func TestSessionAPI(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.serve(getRequest("/api/session"))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		assert.JSONEq(t, `{"is_authenticated":false,"is_admin":false,"is_loading":false}`, rec.Body.String())
	})

	t.Run("admin", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.serve(getRequest("/api/session", f.login(t, domainauth.RoleAdmin)))

		require.Equal(t, http.StatusOK, rec.Code)
		var st domainauth.SessionState
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
		assert.True(t, st.IsAuthenticated)
		assert.True(t, st.IsAdmin)
		require.NotNil(t, st.User)
		assert.Equal(t, "user-admin", st.User.ID)
		assert.Equal(t, domainauth.RoleAdmin, st.User.Role)
	})

	t.Run("store unreachable", func(t *testing.T) {
		f := newRouterFixture(t)
		cookie := f.login(t, domainauth.RoleUser)
		f.sessions.Err = errors.New("redis: i/o timeout")
		rec := f.serve(getRequest("/api/session", cookie))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
		assert.JSONEq(t, `{"is_authenticated":false,"is_admin":false,"is_loading":true}`, rec.Body.String())
	})

	t.Run("expired session is anonymous", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.serve(getRequest("/api/session", &http.Cookie{Name: SessionCookie, Value: "gone"}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"is_authenticated":false,"is_admin":false,"is_loading":false}`, rec.Body.String())
	})
}

func TestSSO_DisabledIsNotFound(t *testing.T) {
	f := newRouterFixture(t)
	assert.Equal(t, http.StatusNotFound, f.serve(getRequest("/auth/login")).Code)
	assert.Equal(t, http.StatusNotFound, f.serve(getRequest("/auth/callback?code=x&state=y")).Code)
}

func TestSSO_RoundTrip(t *testing.T) {
	f := newSSORouterFixture(t)
	existing := testUser(t, "unused-password")
	existing.Email = f.provider.DefaultUser.Email
	f.users.EXPECT().GetByEmail(gomock.Any(), existing.Email).Return(existing, nil)

	rec := f.serve(getRequest("/auth/login?redirect_uri=%2Fcargo"))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://mock-idp/auth", rec.Header().Get("Location"))
	state := findCookie(rec, oauthStateCookie)
	nonce := findCookie(rec, oauthNonceCookie)
	next := findCookie(rec, postLoginCookie)
	require.NotNil(t, state)
	require.NotNil(t, nonce)
	require.NotNil(t, next)
	assert.Equal(t, "/cargo", next.Value)

	rec = f.serve(getRequest("/auth/callback?code=abc&state="+url.QueryEscape(state.Value), state, nonce, next))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/cargo", rec.Header().Get("Location"))
	assert.NotNil(t, findCookie(rec, SessionCookie))
	assert.Equal(t, 1, f.sessions.Len())
}

func TestSSO_StateMismatch(t *testing.T) {
	f := newSSORouterFixture(t)

	rec := f.serve(getRequest("/auth/callback?code=abc&state=forged",
		&http.Cookie{Name: oauthStateCookie, Value: "state-1"},
		&http.Cookie{Name: oauthNonceCookie, Value: "nonce-1"},
	))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, findCookie(rec, SessionCookie))
}

func TestPostLoginTarget(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/home"},
		{"/", "/home"},
		{"/login", "/home"},
		{"/cargo/abc", "/cargo/abc"},
		{"/trucks?area=大阪", "/trucks?area=大阪"},
		{"https://evil.example.com", "/home"},
		{"//evil.example.com/path", "/home"},
		{"javascript:alert(1)", "/home"},
		{`/\evil.example.com`, "/home"},
		{`/cargo\..\x`, "/home"},
		{"/cargo\r\nSet-Cookie:x=1", "/home"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, postLoginTarget(tt.in), tt.in)
	}
}
