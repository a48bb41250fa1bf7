package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tramatch/tramatch-web/internal/domain/nav"
	"github.com/tramatch/tramatch-web/internal/http/ui/chrome"
)

const sidebarCookieMaxAge = 365 * 24 * time.Hour

// ToggleSidebar flips the desktop sidebar, persists the new value and
// returns the swapped flag element.
// POST /ui/sidebar/toggle.
func (h *Handlers) ToggleSidebar(w http.ResponseWriter, r *http.Request) {
	raw, present := "", false
	if c, err := r.Cookie(nav.SidebarCookie); err == nil {
		raw, present = c.Value, true
	}
	st := nav.MountSidebar(currentPath(r), nav.ParsePersistedOpen(raw, present))
	open := st.ToggleDesktop()
	http.SetCookie(w, &http.Cookie{
		Name:     nav.SidebarCookie,
		Value:    nav.FormatPersistedOpen(open),
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   int(sidebarCookieMaxAge.Seconds()),
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set("Cache-Control", "no-store")
	writeNode(w, http.StatusOK, chrome.SidebarFlag(open))
}

// ToggleAdminGroup re-renders the admin group with its expanded flag
// flipped. The client sends the flag it currently shows.
// POST /ui/sidebar/admin?expanded=<bool>.
func (h *Handlers) ToggleAdminGroup(w http.ResponseWriter, r *http.Request) {
	path := currentPath(r)
	st := nav.MountSidebar(path, true)
	if v, err := strconv.ParseBool(r.URL.Query().Get("expanded")); err == nil {
		st.AdminExpanded = v
	}
	st.ToggleAdmin()
	menu := nav.BuildMenu(SessionStateFromContext(r.Context()).Role())
	w.Header().Set("Cache-Control", "no-store")
	writeNode(w, http.StatusOK, chrome.AdminGroup(menu.Admin, path, st.AdminExpanded))
}

// MobileSidebar renders the mobile drawer open or closed.
// GET /ui/sidebar/mobile?open=<bool>.
func (h *Handlers) MobileSidebar(w http.ResponseWriter, r *http.Request) {
	path := currentPath(r)
	st := nav.MountSidebar(path, true)
	if open, _ := strconv.ParseBool(r.URL.Query().Get("open")); open {
		st.OpenMobile()
	} else {
		st.CloseMobile()
	}
	menu := nav.BuildMenu(SessionStateFromContext(r.Context()).Role())
	w.Header().Set("Cache-Control", "no-store")
	writeNode(w, http.StatusOK, chrome.MobileDrawer(menu, path, st.MobileOpen))
}
