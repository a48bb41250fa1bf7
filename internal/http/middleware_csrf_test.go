package httpx

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler(seen *string) http.Handler {
	return CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = GetCSRFToken(r)
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCSRFProtection_SafeMethodsIssueToken(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		var seen string
		rec := httptest.NewRecorder()
		csrfHandler(&seen).ServeHTTP(rec, httptest.NewRequest(method, "/cargo", nil))

		assert.Equal(t, http.StatusOK, rec.Code, method)
		c := findCookie(rec, CSRFCookieName)
		require.NotNil(t, c, method)
		assert.NotEmpty(t, c.Value)
		assert.Equal(t, c.Value, seen, "handlers see the issued token")
		assert.False(t, c.HttpOnly, "htmx reads the token from the page, the cookie stays readable")
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	}
}

func TestCSRFProtection_Posts(t *testing.T) {
	tests := []struct {
		name       string
		cookie     string
		header     string
		form       url.Values
		ctype      string
		wantStatus int
	}{
		{"header token", "tok", "tok", nil, "", http.StatusOK},
		{"form token", "tok", "", url.Values{CSRFFieldName: {"tok"}}, "application/x-www-form-urlencoded", http.StatusOK},
		{"missing token", "tok", "", nil, "", http.StatusForbidden},
		{"mismatched header", "tok", "other", nil, "", http.StatusForbidden},
		{"mismatched form", "tok", "", url.Values{CSRFFieldName: {"other"}}, "application/x-www-form-urlencoded", http.StatusForbidden},
		{"form token ignored for json", "tok", "", url.Values{CSRFFieldName: {"tok"}}, "application/json", http.StatusForbidden},
		{"no cookie", "", "tok", nil, "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *strings.Reader
			if tt.form != nil {
				body = strings.NewReader(tt.form.Encode())
			} else {
				body = strings.NewReader("")
			}
			r := httptest.NewRequest(http.MethodPost, "/cargo/new", body)
			if tt.ctype != "" {
				r.Header.Set("Content-Type", tt.ctype)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				r.Header.Set(CSRFHeaderName, tt.header)
			}
			rec := httptest.NewRecorder()
			csrfHandler(nil).ServeHTTP(rec, r)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCSRFProtection_ExistingCookieKept(t *testing.T) {
	var seen string
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing"})
	rec := httptest.NewRecorder()
	csrfHandler(&seen).ServeHTTP(rec, r)

	assert.Nil(t, findCookie(rec, CSRFCookieName))
	assert.Equal(t, "existing", seen)
}

func TestCSRFProtection_SecureCookie(t *testing.T) {
	tests := []struct {
		name string
		prep func(r *http.Request)
		want bool
	}{
		{"plain http", func(*http.Request) {}, false},
		{"tls", func(r *http.Request) { r.TLS = &tls.ConnectionState{} }, true},
		{"forwarded https", func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "https") }, true},
		{"forwarded chain", func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "http, HTTPS") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prep(r)
			rec := httptest.NewRecorder()
			csrfHandler(nil).ServeHTTP(rec, r)

			c := findCookie(rec, CSRFCookieName)
			require.NotNil(t, c)
			assert.Equal(t, tt.want, c.Secure)
		})
	}
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}
