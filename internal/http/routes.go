package httpx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"

	tramatch "github.com/tramatch/tramatch-web"
	"github.com/tramatch/tramatch-web/internal/domain/nav"
	"github.com/tramatch/tramatch-web/internal/observability/metrics"
	"github.com/tramatch/tramatch-web/internal/service"
)

// StaticPathFromRoot is the on-disk static directory used in dev mode.
const StaticPathFromRoot = "frontend/static"

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Listings      *service.ListingService
	Notifications *service.NotificationService
	Announcements *service.AnnouncementService
	Content       *service.ContentService // Optional: generation pages show a notice when nil
	Admin         *service.AdminService

	Table     *nav.Table
	Views     ViewRenderer
	Preloader Preloader // Optional

	// Ping backs /healthz; nil reports healthy without checking.
	Ping    func(context.Context) error
	Metrics *metrics.Registry // Optional: /metrics is not served when nil
	// Settings rows for the read-only admin settings view.
	Settings []SettingRow

	Compression  CompressionConfig
	CookieDomain string
	BaseURL      string
	IsDev        bool
	Logger       *slog.Logger
}

// Handlers serves every non-GET page endpoint.
type Handlers struct {
	svc          RouterServices
	pages        *Pages
	cookieDomain string
	baseURL      string
	logger       *slog.Logger
}

// NewRouter builds the application handler: page dispatch through the
// route table, form posts, htmx fragments, the session API and health checks.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Views == nil {
		return nil, errors.New("router: views are required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	table := services.Table
	if table == nil {
		t, err := nav.NewAppTable()
		if err != nil {
			return nil, fmt.Errorf("router: route table: %w", err)
		}
		table = t
	}

	loaders := &pageLoaders{svc: services}
	pages := NewPages(PagesConfig{
		Table:     table,
		Views:     services.Views,
		Preloader: services.Preloader,
		Loaders:   loaders.Loaders(),
		Unread:    loaders.unreadCount,
		Metrics:   services.Metrics,
		Logger:    logger,
	})
	h := &Handlers{
		svc:          services,
		pages:        pages,
		cookieDomain: services.CookieDomain,
		baseURL:      services.BaseURL,
		logger:       logger,
	}

	var resolver SessionResolver
	if services.Auth != nil {
		resolver = services.Auth
	}

	mux := http.NewServeMux()
	handle := func(pattern string, hf http.HandlerFunc, mws ...func(http.Handler) http.Handler) {
		mux.Handle(pattern, Chain(withRoutePattern(pattern, hf), mws...))
	}
	authed := RequireSession(false)
	admin := RequireSession(true)

	health := healthHandler(services.Ping, logger)
	handle("GET /healthz", health)
	handle("HEAD /healthz", health)
	if services.Metrics != nil {
		handle("GET /metrics", services.Metrics.Handler().ServeHTTP)
	}
	mux.Handle("GET /static/", staticHandler(services.IsDev))

	handle("GET /api/session", h.Session)

	registerAuthRoutes(handle, h)
	registerListingRoutes(handle, h, authed)
	registerAccountRoutes(handle, h, authed)
	registerAdminRoutes(handle, h, admin)
	registerSidebarRoutes(handle, h, authed, admin)

	// Every other GET goes through the route table.
	mux.Handle("GET /", pages)

	return Chain(mux,
		Recover(logger),
		Logging(logger, services.Metrics),
		Compression(services.Compression),
		CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain}),
		ResolveSession(resolver),
	), nil
}

type handleFunc func(pattern string, hf http.HandlerFunc, mws ...func(http.Handler) http.Handler)

func withRoutePattern(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setRoutePattern(r, pattern)
		next.ServeHTTP(w, r)
	})
}

func registerAuthRoutes(handle handleFunc, h *Handlers) {
	handle("POST /login", h.Login)
	handle("POST /register", h.Register)
	handle("POST /logout", h.Logout)
	handle("POST /forgot-password", h.ForgotPassword)
	handle("POST /reset-password", h.ResetPassword)
	handle("GET /auth/login", h.SSOLogin)
	handle("GET /auth/callback", h.SSOCallback)
}

func registerListingRoutes(handle handleFunc, h *Handlers, authed func(http.Handler) http.Handler) {
	handle("POST /cargo/new", h.CreateCargo, authed)
	handle("POST /cargo/edit/{id}", h.UpdateCargo, authed)
	// "/cargo/{id}/status" would overlap "/cargo/edit/{id}" in ServeMux, so
	// the action segment is matched by the handler.
	handle("POST /cargo/{id}/{action}", actions(map[string]http.HandlerFunc{"status": h.SetCargoStatus}), authed)
	handle("POST /trucks/new", h.CreateTruck, authed)
	handle("POST /trucks/edit/{id}", h.UpdateTruck, authed)
	handle("POST /trucks/{id}/{action}", actions(map[string]http.HandlerFunc{"status": h.SetTruckStatus}), authed)
}

func actions(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hf, ok := m[r.PathValue("action")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		hf(w, r)
	}
}

func registerAccountRoutes(handle handleFunc, h *Handlers, authed func(http.Handler) http.Handler) {
	handle("POST /settings/profile", h.UpdateProfile, authed)
	handle("POST /settings/password", h.ChangePassword, authed)
	handle("POST /notifications/read", h.MarkNotificationsRead, authed)
}

func registerAdminRoutes(handle handleFunc, h *Handlers, admin func(http.Handler) http.Handler) {
	handle("POST /admin/users/{id}/approve", h.ApproveUser, admin)
	handle("POST /admin/users/{id}/role", h.SetUserRole, admin)
	handle("POST /admin/announcements", h.CreateAnnouncement, admin)
	handle("POST /admin/announcements/{id}/publish", h.PublishAnnouncement, admin)
	handle("POST /admin/announcements/{id}/delete", h.DeleteAnnouncement, admin)
	handle("POST /admin/notifications", h.Broadcast, admin)
	handle("POST /admin/content/{kind}", h.GenerateContent, admin)
}

func registerSidebarRoutes(handle handleFunc, h *Handlers, authed, admin func(http.Handler) http.Handler) {
	handle("POST /ui/sidebar/toggle", h.ToggleSidebar, authed)
	handle("POST /ui/sidebar/admin", h.ToggleAdminGroup, admin)
	handle("GET /ui/sidebar/mobile", h.MobileSidebar, authed)
}

// staticHandler serves /static/*: from disk in dev mode so edits show up
// immediately, from the embedded FS otherwise.
func staticHandler(isDev bool) http.Handler {
	var fsys fs.FS
	if isDev {
		fsys = os.DirFS(StaticPathFromRoot)
	} else {
		sub, err := fs.Sub(tramatch.StaticFS, StaticPathFromRoot)
		if err != nil {
			slog.Default().Error("static sub-filesystem failed; serving from disk", "error", err)
			sub = os.DirFS(StaticPathFromRoot)
		}
		fsys = sub
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(fsys))), isDev)
}

var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders marks content-hashed assets immutable. Other
// assets are revalidated, and never cached in dev mode.
func staticWithCacheHeaders(handler http.Handler, isDev bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case hashedFilePattern.MatchString(r.URL.Path):
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case isDev:
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		default:
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
		handler.ServeHTTP(w, r)
	})
}
