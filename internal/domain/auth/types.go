package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role is the closed set of application roles. Anything that is not
// recognised as admin is treated as a regular user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored role string onto the closed Role variant.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// IsAdmin reports whether r grants administrator access.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	Subject     string
	Email       string
	DisplayName string
	Groups      []string
	ExpiresAt   time.Time
}

// Session is the server-side record persisted for a signed-in user.
// ID is an opaque random identifier carried in the session cookie.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	Approved    bool      `json:"approved"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool { return s.Role.IsAdmin() }

// UserProfile is the user view exposed to pages and the session API.
type UserProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	Approved    bool   `json:"approved"`
}

// SessionState is the per-request answer to "who is looking at this page".
// IsLoading means the session could not be resolved yet (for example the
// session store is unreachable); guards must not decide anything while it is set.
type SessionState struct {
	IsAuthenticated bool         `json:"is_authenticated"`
	IsAdmin         bool         `json:"is_admin"`
	IsLoading       bool         `json:"is_loading"`
	User            *UserProfile `json:"user,omitempty"`
}

// Anonymous is the resolved state of a visitor without a session.
func Anonymous() SessionState { return SessionState{} }

// Loading is the unresolved state.
func Loading() SessionState { return SessionState{IsLoading: true} }

// StateFromSession builds the resolved state for a valid session.
func StateFromSession(s Session) SessionState {
	return SessionState{
		IsAuthenticated: true,
		IsAdmin:         s.IsAdmin(),
		User: &UserProfile{
			ID:          s.UserID,
			Username:    s.Username,
			CompanyName: s.CompanyName,
			Email:       s.Email,
			Role:        s.Role,
			Approved:    s.Approved,
		},
	}
}

// Role returns the role to build navigation for. Unauthenticated and
// unresolved states fall back to RoleUser.
func (st SessionState) Role() Role {
	if st.User == nil {
		return RoleUser
	}
	return st.User.Role
}
