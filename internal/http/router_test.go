package httpx

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/domain/nav"
	"github.com/tramatch/tramatch-web/internal/mocks"
	authmocks "github.com/tramatch/tramatch-web/internal/mocks/auth"
	"github.com/tramatch/tramatch-web/internal/service"
)

const testCSRFToken = "test-csrf-token"

// stubViews renders a marker for the view plus any form errors and flash,
// which is all the handler tests look at.
type stubViews struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (s *stubViews) RenderHTML(_ context.Context, view string, data any) (template.HTML, error) {
	s.mu.Lock()
	s.calls = append(s.calls, view)
	err := s.fail[view]
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div data-view="%s">`, view)
	if pd, ok := data.(*PageData); ok {
		keys := make([]string, 0, len(pd.Errors))
		for k := range pd.Errors {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, `<p class="error" data-field="%s">%s</p>`, k, template.HTMLEscapeString(pd.Errors[k]))
		}
		if pd.Flash != "" {
			fmt.Fprintf(&b, `<p class="flash">%s</p>`, template.HTMLEscapeString(pd.Flash))
		}
		for _, k := range []string{"title", "login", "password"} {
			if v := pd.Value(k); v != "" {
				fmt.Fprintf(&b, `<input name="%s" value="%s">`, k, template.HTMLEscapeString(v))
			}
		}
	}
	b.WriteString(`</div>`)
	return template.HTML(b.String()), nil
}

func (s *stubViews) rendered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type countingPreloader struct{ n atomic.Int32 }

func (c *countingPreloader) Trigger() { c.n.Add(1) }

type routerFixture struct {
	handler       http.Handler
	provider      *authmocks.MockAuthProvider // nil unless SSO is enabled
	sessions      *authmocks.MemorySessionStore
	users         *mocks.MockUserRepository
	cargo         *mocks.MockCargoRepository
	trucks        *mocks.MockTruckRepository
	notifications *mocks.MockNotificationRepository
	announcements *mocks.MockAnnouncementRepository
	views         *stubViews
	preloader     *countingPreloader
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	return buildRouterFixture(t, false)
}

func newSSORouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	return buildRouterFixture(t, true)
}

func buildRouterFixture(t *testing.T, sso bool) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &routerFixture{
		sessions:      authmocks.NewMemorySessionStore(),
		users:         mocks.NewMockUserRepository(ctrl),
		cargo:         mocks.NewMockCargoRepository(ctrl),
		trucks:        mocks.NewMockTruckRepository(ctrl),
		notifications: mocks.NewMockNotificationRepository(ctrl),
		announcements: mocks.NewMockAnnouncementRepository(ctrl),
		views:         &stubViews{fail: map[string]error{}},
		preloader:     &countingPreloader{},
	}
	f.notifications.EXPECT().CountUnread(gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()
	f.announcements.EXPECT().List(gomock.Any(), true, gomock.Any()).Return(nil, nil).AnyTimes()

	authOpts := service.AuthServiceOptions{
		Sessions: f.sessions,
		Roles:    authmocks.StaticRoleMapper{AdminGroup: "tramatch-admin"},
		Users:    f.users,
	}
	if sso {
		f.provider = authmocks.NewMockAuthProvider()
		authOpts.Provider = f.provider
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := NewRouter(RouterServices{
		Auth: service.NewAuthService(authOpts),
		Users: service.NewUserService(service.UserServiceOptions{
			Repo:          f.users,
			Sessions:      f.sessions,
			Notifications: f.notifications,
			Logger:        logger,
		}),
		Listings: service.NewListingService(service.ListingServiceOptions{
			Cargo:         f.cargo,
			Trucks:        f.trucks,
			Notifications: f.notifications,
			Logger:        logger,
		}),
		Notifications: service.NewNotificationService(service.NotificationServiceOptions{
			Repo:   f.notifications,
			Users:  f.users,
			Logger: logger,
		}),
		Announcements: service.NewAnnouncementService(service.AnnouncementServiceOptions{Repo: f.announcements}),
		Views:         f.views,
		Preloader:     f.preloader,
		Settings:      []SettingRow{{Name: "APP_ENV", Value: "test"}},
		BaseURL:       "https://tramatch.example.jp",
		Logger:        logger,
	})
	require.NoError(t, err)
	f.handler = h
	return f
}

// login stores a live session and returns its cookie.
func (f *routerFixture) login(t *testing.T, role domainauth.Role) *http.Cookie {
	t.Helper()
	sess := domainauth.Session{
		ID:          "sess-" + string(role),
		UserID:      "user-" + string(role),
		Username:    string(role) + "-user",
		CompanyName: "テスト運輸",
		Email:       string(role) + "@example.jp",
		Role:        role,
		Approved:    true,
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	require.NoError(t, f.sessions.Save(context.Background(), sess))
	return &http.Cookie{Name: SessionCookie, Value: sess.ID}
}

func (f *routerFixture) serve(r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, r)
	return rec
}

func getRequest(target string, cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

// postRequest builds a form post carrying a valid CSRF token.
func postRequest(target string, form url.Values, cookies ...*http.Cookie) *http.Request {
	if form == nil {
		form = url.Values{}
	}
	form.Set(CSRFFieldName, testCSRFToken)
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func htmx(r *http.Request, chrome nav.Chrome) *http.Request {
	r.Header.Set("Hx-Request", "true")
	if chrome != "" {
		r.Header.Set("X-Tramatch-Chrome", string(chrome))
	}
	return r
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
