package httpx

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/tramatch/tramatch-web/internal/domain/nav"
	"github.com/tramatch/tramatch-web/internal/http/ui/chrome"
)

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// IsHistoryRestore reports true when htmx is restoring history (Hx-History-Restore-Request: true).
func IsHistoryRestore(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-History-Restore-Request"), "true")
}

// WantsPartial returns true when only the content fragment should be sent.
// History restores need the whole document.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !IsHistoryRestore(r)
}

// ClientChrome returns the shell the browser says it is showing, or "" for
// requests that did not come from one of our pages.
func ClientChrome(r *http.Request) nav.Chrome {
	switch nav.Chrome(r.Header.Get(chrome.Header)) {
	case nav.ChromeDashboard:
		return nav.ChromeDashboard
	case nav.ChromeMarketing:
		return nav.ChromeMarketing
	default:
		return ""
	}
}

// SetHXRedirect instructs htmx to redirect the browser to the given URL.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set("Hx-Redirect", url) }

// SetErrorSwap points an htmx error response at the content area, so the
// error page replaces the view the user navigated away from.
func SetErrorSwap(w http.ResponseWriter) {
	w.Header().Set("Hx-Retarget", "#"+chrome.ContentID)
	w.Header().Set("Hx-Reswap", "innerHTML")
}

// SetHXTrigger triggers a client-side event after swap with optional payload.
// If payload is nil, the value true is used for the event.
func SetHXTrigger(w http.ResponseWriter, event string, payload any) {
	var value any = true
	if payload != nil {
		value = payload
	}
	b, err := json.Marshal(map[string]any{event: value})
	if err != nil {
		w.Header().Set("Hx-Trigger", "{\""+event+"\":true}")
		return
	}
	w.Header().Set("Hx-Trigger", string(b))
}

// seeOther sends the browser to location: a 303 for ordinary requests, an
// Hx-Redirect full navigation for htmx requests.
func seeOther(w http.ResponseWriter, r *http.Request, location string) {
	if IsHTMX(r) {
		SetHXRedirect(w, location)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// loginURL is the login page that returns to next after signing in.
func loginURL(next string) string {
	next = safeRedirectPath(next)
	if next == "/" {
		return nav.LoginPath
	}
	q := url.Values{}
	q.Set("redirect_uri", next)
	return nav.LoginPath + "?" + q.Encode()
}

// redirectToLogin sends an anonymous visitor to the login page, remembering
// where they were.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	seeOther(w, r, loginURL(redirectPathForRequest(r)))
}

// redirectPathForRequest is the page the user was on: the current browser
// URL for htmx requests, the request URI otherwise.
func redirectPathForRequest(r *http.Request) string {
	if IsHTMX(r) {
		if current := safeRedirectFromURL(r.Header.Get("Hx-Current-Url")); current != "/" {
			return current
		}
		if referer := safeRedirectFromURL(r.Header.Get("Referer")); referer != "/" {
			return referer
		}
	}
	return safeRedirectPath(r.URL.RequestURI())
}

func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "/"
	}
	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}
	return safeRedirectPath(raw)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
// Browsers treat "\" like "/", so "/\host" is protocol-relative and is
// rejected along with control characters.
func safeRedirectPath(candidate string) string {
	if candidate == "" || strings.ContainsFunc(candidate, func(r rune) bool { return r == '\\' || r < 0x20 || r == 0x7f }) {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	return candidate
}

// currentPath is the path of the page the browser shows, used by fragment
// endpoints to highlight the active menu entry.
func currentPath(r *http.Request) string {
	u, err := url.Parse(r.Header.Get("Hx-Current-Url"))
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
