package httpx

import (
	"context"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
)

// stateKey is an unexported context key type to avoid collisions across packages.
type stateKey struct{}

// sessionKey carries the raw session alongside the resolved state.
type sessionKey struct{}

// SetSessionStateInContext returns a child context carrying the resolved session state.
func SetSessionStateInContext(ctx context.Context, st domainauth.SessionState) context.Context {
	return context.WithValue(ctx, stateKey{}, st)
}

// SessionStateFromContext returns the state resolved by SessionResolver. A
// request that never passed through the resolver is anonymous.
func SessionStateFromContext(ctx context.Context) domainauth.SessionState {
	if st, ok := ctx.Value(stateKey{}).(domainauth.SessionState); ok {
		return st
	}
	return domainauth.Anonymous()
}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext retrieves the signed-in session, or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok {
		return s
	}
	return nil
}

// currentUserID returns the signed-in user's id, or "".
func currentUserID(ctx context.Context) string {
	st := SessionStateFromContext(ctx)
	if st.User == nil {
		return ""
	}
	return st.User.ID
}
