package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode selects the single sign-on provider. Password login is always
// available.
type AuthMode string

const (
	// AuthModePassword disables single sign-on.
	AuthModePassword AuthMode = "password"
	// AuthModeOAuth adds OAuth/OIDC sign-on.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock adds a local sign-on provider (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "", "password", "none":
		*a = AuthModePassword
		return nil
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	// GroupsClaim is a JMESPath expression over the ID token claims.
	GroupsClaim string `env:"GROUPS_CLAIM" envDefault:"groups"`
}

// Complete reports whether every setting the OIDC provider needs is present.
func (o OAuthConfig) Complete() bool {
	return o.ClientID != "" && o.ClientSecret != "" && o.DiscoveryURL != ""
}

// DevAuthConfig controls the mock sign-on identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-user"`
	Email  string   `env:"EMAIL"   envDefault:"dev@tramatch.local"`
	Groups []string `env:"GROUPS"  envDefault:"tramatch-admin"     envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup is the identity provider group whose members sign in as
	// admins through SSO.
	AdminGroup string `env:"ADMIN_GROUP" envDefault:"tramatch-admin"`

	// SessionTTL bounds how long a session stays valid in the store.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// Sanitize applies guardrails to auth values.
func (a *AuthConfig) Sanitize() {
	if a.Mode == "" {
		a.Mode = AuthModePassword
	}
	a.AdminGroup = strings.TrimSpace(a.AdminGroup)
	a.OAuth.DiscoveryURL = strings.TrimSpace(a.OAuth.DiscoveryURL)
	if a.SessionTTL < time.Minute {
		a.SessionTTL = 24 * time.Hour
	}
}
