package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tramatch/tramatch-web/internal/core"
	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
	"github.com/tramatch/tramatch-web/internal/ports"
)

// DefaultSessionTTL applies when AuthServiceOptions.SessionTTL is zero.
const DefaultSessionTTL = 24 * time.Hour

var (
	// ErrInvalidCredentials is returned for any failed password login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSSODisabled is returned by the SSO flow when no provider is configured.
	ErrSSODisabled = errors.New("single sign-on is not configured")

	errSessionExpired = errors.New("session expired")

	reNonUsername = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)
)

// dummyHash is compared against when the user does not exist so failed
// lookups cost the same as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("tramatch-timing"), bcrypt.DefaultCost)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider   ports.AuthProvider // Optional: SSO is disabled when nil
	Sessions   ports.SessionStore
	Roles      ports.RoleMapper
	Users      core.UserRepository
	SessionTTL time.Duration
}

// AuthService handles password and SSO sign-in and owns the session lifecycle.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper
	users    core.UserRepository
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Sessions == nil {
		panic("AuthService requires a session store")
	}
	if opts.Users == nil {
		panic("AuthService requires a user repository")
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		users:    opts.Users,
		ttl:      ttl,
		now:      time.Now,
	}
}

// SSOEnabled reports whether an SSO provider is configured.
func (s *AuthService) SSOEnabled() bool { return s.provider != nil }

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// PasswordLogin verifies credentials and starts a session. The login name
// may be a username or an email address.
func (s *AuthService) PasswordLogin(ctx context.Context, login, password string) (*domainauth.Session, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var (
		user *model.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.users.GetByEmail(ctx, login)
	} else {
		user, err = s.users.GetByUsername(ctx, login)
	}
	switch {
	case apperrors.IsNotFound(err):
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, user, s.now().Add(s.ttl))
}

// BeginLoginResult contains the result of beginning an SSO login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an SSO flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, ErrSSODisabled
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing an SSO login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing an SSO login flow.
type CompleteLoginResult struct {
	Session     domainauth.Session
	Provisioned bool
}

// CompleteLogin exchanges the code for an identity, links it to a local
// account by email (creating an unapproved one when none exists) and
// starts a session. Membership in an admin group promotes the account.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if s.provider == nil {
		return nil, ErrSSODisabled
	}
	switch {
	case input.Code == "":
		return nil, errors.New("authorization code is required")
	case input.State == "":
		return nil, errors.New("state parameter is required")
	case input.Nonce == "":
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	role := domainauth.RoleUser
	if s.roles != nil {
		role = s.roles.Map(identity.Groups)
	}

	user, provisioned, err := s.linkIdentity(ctx, identity, role)
	if err != nil {
		return nil, err
	}

	expires := s.now().Add(s.ttl)
	if !identity.ExpiresAt.IsZero() && identity.ExpiresAt.Before(expires) {
		expires = identity.ExpiresAt
	}
	sess, err := s.startSession(ctx, user, expires)
	if err != nil {
		return nil, err
	}
	return &CompleteLoginResult{Session: *sess, Provisioned: provisioned}, nil
}

func (s *AuthService) linkIdentity(
	ctx context.Context,
	id domainauth.Identity,
	role domainauth.Role,
) (*model.User, bool, error) {
	user, err := s.users.GetByEmail(ctx, id.Email)
	if err == nil {
		if role.IsAdmin() && !domainauth.ParseRole(user.Role).IsAdmin() {
			if setErr := s.users.SetRole(ctx, user.ID, string(domainauth.RoleAdmin)); setErr != nil {
				return nil, false, fmt.Errorf("promote user: %w", setErr)
			}
			user.Role = string(domainauth.RoleAdmin)
		}
		return user, false, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, false, fmt.Errorf("lookup user: %w", err)
	}

	company := id.DisplayName
	if company == "" {
		company = id.Email
	}
	user, err = s.users.Create(ctx, core.CreateUserParams{
		Username:    ssoUsername(id),
		Email:       id.Email,
		CompanyName: company,
		ContactName: id.DisplayName,
		Role:        string(role),
	})
	if err != nil {
		return nil, false, fmt.Errorf("provision user: %w", err)
	}
	slog.InfoContext(ctx, "provisioned sso user", "user_id", user.ID, "role", user.Role)
	return user, true, nil
}

// ssoUsername derives a valid username from the email local part plus a
// short suffix of the subject.
func ssoUsername(id domainauth.Identity) string {
	local, _, _ := strings.Cut(id.Email, "@")
	base := reNonUsername.ReplaceAllString(local, "")
	if len(base) > 20 {
		base = base[:20]
	}
	if len(base) < 3 {
		base = "user" + base
	}
	suffix := reNonUsername.ReplaceAllString(id.Subject, "")
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	if suffix == "" {
		return base
	}
	return base + "-" + suffix
}

func (s *AuthService) startSession(ctx context.Context, user *model.User, expires time.Time) (*domainauth.Session, error) {
	sess := sessionFromUser(generateSessionID(), user, expires)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &sess, nil
}

func sessionFromUser(id string, user *model.User, expires time.Time) domainauth.Session {
	return domainauth.Session{
		ID:          id,
		UserID:      user.ID,
		Username:    user.Username,
		CompanyName: user.CompanyName,
		Email:       user.Email,
		Role:        domainauth.ParseRole(user.Role),
		Approved:    user.Approved,
		ExpiresAt:   expires,
	}
}

// GetSession retrieves a live session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, ports.ErrSessionNotFound
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// ResolveState answers "who is looking at this page" for a session cookie
// value. A missing, unknown or expired session is anonymous; any other
// failure leaves the state unresolved so guards wait instead of redirecting.
func (s *AuthService) ResolveState(ctx context.Context, sessionID string) domainauth.SessionState {
	_, st := s.Resolve(ctx, sessionID)
	return st
}

// Resolve is ResolveState that also returns the live session, when there is one.
func (s *AuthService) Resolve(ctx context.Context, sessionID string) (*domainauth.Session, domainauth.SessionState) {
	if sessionID == "" {
		return nil, domainauth.Anonymous()
	}
	sess, err := s.GetSession(ctx, sessionID)
	switch {
	case err == nil:
		return sess, domainauth.StateFromSession(*sess)
	case errors.Is(err, ports.ErrSessionNotFound), errors.Is(err, errSessionExpired):
		return nil, domainauth.Anonymous()
	default:
		slog.WarnContext(ctx, "session store unavailable", "error", err)
		return nil, domainauth.Loading()
	}
}

// Refresh rewrites a session from the current user record, keeping its expiry.
func (s *AuthService) Refresh(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	updated := sessionFromUser(sess.ID, user, sess.ExpiresAt)
	if err := s.sessions.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &updated, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// generateSessionID creates a random session ID.
func generateSessionID() string {
	return uuid.New().String()
}
