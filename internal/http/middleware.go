package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/observability/metrics"
)

// SessionCookie holds the opaque session id.
const SessionCookie = "session_id"

// Logging returns a middleware that logs HTTP requests and records request
// metrics. Metrics are labelled with the route pattern that served the
// request, never the raw path.
func Logging(logger *slog.Logger, m *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			info := &routeInfo{}
			r = r.WithContext(context.WithValue(r.Context(), routeInfoKey{}, info))
			next.ServeHTTP(ww, r)

			d := time.Since(start)
			route := info.pattern
			if route == "" {
				route = r.Pattern
			}
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(r.Method, route, ww.status, d)
			if strings.HasPrefix(r.URL.Path, "/static/") {
				return
			}
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", route),
				slog.Int("status", ww.status),
				slog.Duration("duration", d),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *respWriter) WriteHeader(status int) {
	if !w.wrote {
		w.status = status
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Write(b []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(b)
}

func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// routeInfo lets the page dispatcher report which table pattern it matched.
type routeInfo struct{ pattern string }

type routeInfoKey struct{}

func setRoutePattern(r *http.Request, pattern string) {
	if info, ok := r.Context().Value(routeInfoKey{}).(*routeInfo); ok {
		info.pattern = pattern
	}
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionResolver is the subset of the auth service the resolver needs.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*domainauth.Session, domainauth.SessionState)
}

// ResolveSession returns a middleware that resolves the session cookie once
// per request and stores the resulting state (and session, if any) in the
// request context. It never rejects a request; guards decide what to do.
func ResolveSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver == nil || strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}
			var sid string
			if c, err := r.Cookie(SessionCookie); err == nil {
				sid = c.Value
			}
			sess, st := resolver.Resolve(r.Context(), sid)
			ctx := SetSessionStateInContext(r.Context(), st)
			ctx = SetSessionInContext(ctx, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession guards form and fragment endpoints that are not part of
// the route table. Unresolved sessions get 503, anonymous visitors are sent
// to login and, when admin is set, non-admins are sent home.
func RequireSession(admin bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := SessionStateFromContext(r.Context())
			switch {
			case st.IsLoading:
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			case !st.IsAuthenticated:
				redirectToLogin(w, r)
			case admin && !st.IsAdmin:
				seeOther(w, r, "/home")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// Chain applies middlewares so the first one listed runs first.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
