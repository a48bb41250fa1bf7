package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/domain/nav"
)

func TestToggleSidebar(t *testing.T) {
	tests := []struct {
		name      string
		persisted *http.Cookie
		wantValue string
		wantOpen  bool
	}{
		{"no cookie means open, closes", nil, "false", false},
		{"open closes", &http.Cookie{Name: nav.SidebarCookie, Value: "true"}, "false", false},
		{"closed opens", &http.Cookie{Name: nav.SidebarCookie, Value: "false"}, "true", true},
		{"garbage means open", &http.Cookie{Name: nav.SidebarCookie, Value: "maybe"}, "false", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t)
			cookies := []*http.Cookie{f.login(t, domainauth.RoleUser)}
			if tt.persisted != nil {
				cookies = append(cookies, tt.persisted)
			}
			rec := f.serve(postRequest("/ui/sidebar/toggle", nil, cookies...))

			require.Equal(t, http.StatusOK, rec.Code)
			c := findCookie(rec, nav.SidebarCookie)
			require.NotNil(t, c)
			assert.Equal(t, tt.wantValue, c.Value)
			assert.Equal(t, "/", c.Path)
			assert.Positive(t, c.MaxAge)
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			assert.Contains(t, rec.Body.String(), `class="sidebar-flag"`)
			if tt.wantOpen {
				assert.Contains(t, rec.Body.String(), "checked")
			} else {
				assert.NotContains(t, rec.Body.String(), "checked")
			}
		})
	}
}

func TestToggleSidebar_RequiresSession(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.serve(postRequest("/ui/sidebar/toggle", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Nil(t, findCookie(rec, nav.SidebarCookie))
}

func TestToggleSidebar_RequiresCSRF(t *testing.T) {
	f := newRouterFixture(t)
	r := getRequest("/ui/sidebar/toggle", f.login(t, domainauth.RoleUser))
	r.Method = http.MethodPost
	rec := f.serve(r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestToggleAdminGroup(t *testing.T) {
	f := newRouterFixture(t)
	admin := f.login(t, domainauth.RoleAdmin)

	rec := f.serve(htmx(postRequest("/ui/sidebar/admin?expanded=true", nil, admin), nav.ChromeDashboard))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `aria-expanded="false"`)
	assert.Contains(t, rec.Body.String(), `hx-post="/ui/sidebar/admin?expanded=false"`)

	rec = f.serve(htmx(postRequest("/ui/sidebar/admin?expanded=false", nil, admin), nav.ChromeDashboard))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `aria-expanded="true"`)
}

func TestToggleAdminGroup_AdminOnlyEntries(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.serve(postRequest("/ui/sidebar/admin?expanded=false", nil, f.login(t, domainauth.RoleAdmin)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/admin/users"`)
}

func TestToggleAdminGroup_AdminOnly(t *testing.T) {
	f := newRouterFixture(t)
	user := f.login(t, domainauth.RoleUser)

	rec := f.serve(postRequest("/ui/sidebar/admin?expanded=false", nil, user))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))
	assert.NotContains(t, rec.Body.String(), `id="sidebar-admin"`)

	rec = f.serve(htmx(postRequest("/ui/sidebar/admin?expanded=false", nil, user), nav.ChromeDashboard))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Hx-Redirect"))
	assert.Empty(t, rec.Body.String())
}

func TestMobileSidebar(t *testing.T) {
	f := newRouterFixture(t)
	user := f.login(t, domainauth.RoleUser)

	r := htmx(getRequest("/ui/sidebar/mobile?open=true", user), nav.ChromeDashboard)
	r.Header.Set("Hx-Current-Url", "http://localhost/cargo")
	rec := f.serve(r)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "mobile-drawer open")
	assert.Contains(t, body, `aria-current="page"`)
	assert.NotContains(t, body, `href="/admin/users"`, "users never see admin entries")

	rec = f.serve(htmx(getRequest("/ui/sidebar/mobile?open=false", user), nav.ChromeDashboard))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "mobile-drawer open")
	assert.Nil(t, findCookie(rec, nav.SidebarCookie), "the drawer is not persisted")
}
