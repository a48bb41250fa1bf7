package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	"github.com/tramatch/tramatch-web/internal/domain/nav"
	"github.com/tramatch/tramatch-web/internal/service"
)

const (
	oauthStateCookie    = "oauth_state"
	oauthNonceCookie    = "oauth_nonce"
	postLoginCookie     = "post_login_redirect"
	oauthCookieMaxAge   = 600
	errMsgLoginFailed   = "ユーザー名またはパスワードが正しくありません"
	errMsgSessionFailed = "ログインできませんでした。時間をおいて再度お試しください。"
)

// Login handles the password form.
// POST /login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	sess, err := h.svc.Auth.PasswordLogin(r.Context(), r.PostForm.Get("login"), r.PostForm.Get("password"))
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		h.renderForm(w, r, FormRender{Path: nav.LoginPath, Status: http.StatusUnauthorized},
			model.FieldErrors{FormErrorKey: errMsgLoginFailed})
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "password login failed", "error", err)
		h.renderForm(w, r, FormRender{Path: nav.LoginPath, Status: http.StatusServiceUnavailable},
			model.FieldErrors{FormErrorKey: errMsgSessionFailed})
		return
	}
	h.setSessionCookie(w, r, *sess)
	seeOther(w, r, postLoginTarget(r.PostForm.Get("redirect_uri")))
}

// Register creates an unapproved account and signs it in.
// POST /register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	f := r.PostForm
	req := model.RegisterRequest{
		Username:    f.Get("username"),
		Password:    f.Get("password"),
		Email:       f.Get("email"),
		CompanyName: f.Get("company_name"),
		ContactName: f.Get("contact_name"),
		Phone:       f.Get("phone"),
		Address:     f.Get("address"),
	}
	if f.Get("password") != f.Get("password_confirm") {
		h.renderForm(w, r, FormRender{Path: "/register"}, model.FieldErrors{
			"password_confirm": "パスワードが一致しません",
			FormErrorKey:       errMsgFixBelow,
		})
		return
	}
	if _, err := h.svc.Users.Register(r.Context(), req); err != nil {
		h.RenderError(w, r, FormRender{Path: "/register"}, err)
		return
	}
	sess, err := h.svc.Auth.PasswordLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		// The account exists; the user can sign in once the store is back.
		h.logger.WarnContext(r.Context(), "login after registration failed", "error", err)
		seeOther(w, r, nav.LoginPath)
		return
	}
	h.setSessionCookie(w, r, *sess)
	seeOther(w, r, nav.HomePath)
}

// Logout ends the session.
// POST /logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if err := h.svc.Auth.Logout(r.Context(), c.Value); err != nil {
			h.logger.WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	h.clearCookie(w, r, SessionCookie)
	seeOther(w, r, "/")
}

// ForgotPassword acknowledges a reset request. The response does not
// reveal whether the address is registered.
// POST /forgot-password.
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	if strings.TrimSpace(r.PostForm.Get("email")) == "" {
		h.renderForm(w, r, FormRender{Path: "/forgot-password"}, model.FieldErrors{
			"email":      "メールアドレスを入力してください",
			FormErrorKey: errMsgFixBelow,
		})
		return
	}
	h.logger.InfoContext(r.Context(), "password reset requested")
	h.renderFlash(w, r, FormRender{Path: "/forgot-password"},
		"ご登録のメールアドレス宛に再設定の手順をお送りしました。")
}

// ResetPassword acknowledges a new password submission.
// POST /reset-password.
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	f := r.PostForm
	fe := model.FieldErrors{}
	if len([]rune(f.Get("password"))) < model.MinPasswordLength {
		fe["password"] = "パスワードは8文字以上で入力してください"
	}
	if f.Get("password") != f.Get("password_confirm") {
		fe["password_confirm"] = "パスワードが一致しません"
	}
	if len(fe) > 0 {
		fe[FormErrorKey] = errMsgFixBelow
		h.renderForm(w, r, FormRender{Path: "/reset-password"}, fe)
		return
	}
	h.renderFlash(w, r, FormRender{Path: "/reset-password"}, "パスワードの再設定を受け付けました。")
}

// SSOLogin starts the single sign-on flow.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *Handlers) SSOLogin(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Auth.SSOEnabled() {
		http.NotFound(w, r)
		return
	}
	redirectURI := postLoginTarget(r.URL.Query().Get("redirect_uri"))
	result, err := h.svc.Auth.BeginLogin(r.Context(), h.callbackURL(r))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "begin sso login failed", "error", err)
		h.pages.Problem(w, r, ProblemParams{Status: http.StatusBadGateway, Heading: "ログインできません", Message: errMsgSessionFailed})
		return
	}
	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// SSOCallback finishes the single sign-on flow.
// GET /auth/callback?code=<code>&state=<state>.
func (h *Handlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Auth.SSOEnabled() {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		h.ssoFailed(w, r, http.StatusBadRequest, errors.New("code and state are required"))
		return
	}
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value != state {
		h.ssoFailed(w, r, http.StatusBadRequest, errors.New("invalid or missing state parameter"))
		return
	}
	nonceCookie, err := r.Cookie(oauthNonceCookie)
	if err != nil {
		h.ssoFailed(w, r, http.StatusBadRequest, errors.New("missing nonce"))
		return
	}

	result, err := h.svc.Auth.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.ssoFailed(w, r, http.StatusBadGateway, err)
		return
	}

	h.setSessionCookie(w, r, result.Session)
	h.clearCookie(w, r, oauthStateCookie)
	h.clearCookie(w, r, oauthNonceCookie)
	http.Redirect(w, r, h.postLoginRedirect(w, r), http.StatusFound)
}

func (h *Handlers) ssoFailed(w http.ResponseWriter, r *http.Request, status int, err error) {
	h.logger.WarnContext(r.Context(), "sso callback rejected", "status", status, "error", err)
	h.pages.Problem(w, r, ProblemParams{Status: status, Heading: "ログインできません", Message: errMsgSessionFailed})
}

// Session reports the session contract as JSON.
// GET /api/session.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	st := SessionStateFromContext(r.Context())
	w.Header().Set("Cache-Control", "no-store")
	status := http.StatusOK
	if st.IsLoading {
		w.Header().Set("Retry-After", "1")
		status = http.StatusServiceUnavailable
	}
	WriteJSON(w, status, st)
}

// postLoginTarget keeps only same-origin relative paths. The landing and
// login pages send a signed-in user to the dashboard.
func postLoginTarget(candidate string) string {
	target := safeRedirectPath(candidate)
	switch target {
	case "/", nav.LoginPath:
		return nav.HomePath
	}
	return target
}

func (h *Handlers) callbackURL(r *http.Request) string {
	if h.baseURL != "" {
		return strings.TrimRight(h.baseURL, "/") + "/auth/callback"
	}
	scheme := "http"
	if isSecureRequest(r) {
		scheme = "https"
	}
	return (&url.URL{Scheme: scheme, Host: r.Host, Path: "/auth/callback"}).String()
}

// clearCookie expires a cookie, mirroring the attributes it was set with.
func (h *Handlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// setOAuthCookies stores the state, nonce and post-login redirect for the callback.
func (h *Handlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	for name, value := range map[string]string{
		oauthStateCookie: p.State,
		oauthNonceCookie: p.Nonce,
		postLoginCookie:  p.RedirectURI,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   h.cookieDomain,
			HttpOnly: true,
			Secure:   isSecureRequest(r),
			SameSite: http.SameSiteLaxMode,
			MaxAge:   oauthCookieMaxAge,
		})
	}
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *Handlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// postLoginRedirect returns the stored destination and clears the cookie.
func (h *Handlers) postLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	target := nav.HomePath
	if c, err := r.Cookie(postLoginCookie); err == nil {
		target = postLoginTarget(c.Value)
		h.clearCookie(w, r, postLoginCookie)
	}
	return target
}
