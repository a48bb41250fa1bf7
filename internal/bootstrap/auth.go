package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tramatch/tramatch-web/config"
	"github.com/tramatch/tramatch-web/internal/adapters/authroles"
	"github.com/tramatch/tramatch-web/internal/adapters/devauth"
	"github.com/tramatch/tramatch-web/internal/adapters/oidc"
	redisadapter "github.com/tramatch/tramatch-web/internal/adapters/redis"
	"github.com/tramatch/tramatch-web/internal/core"
	"github.com/tramatch/tramatch-web/internal/ports"
	"github.com/tramatch/tramatch-web/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth     config.AuthConfig
	Sessions ports.SessionStore
	Users    core.UserRepository
	Logger   *slog.Logger
}

// NewSessionStore builds the Redis session store shared by the auth and
// user services.
func NewSessionStore(client redis.UniversalClient, prefix string) *redisadapter.SessionStore {
	if prefix == "" {
		prefix = "tramatch:session:"
	}
	return redisadapter.NewSessionStoreWithPrefix(client, prefix)
}

// BuildAuthService creates the auth service. Password login is always
// available; the configured mode only decides which SSO provider, if any,
// is attached. A provider that cannot be built leaves SSO disabled.
func BuildAuthService(ctx context.Context, cfg AuthConfig) *service.AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := service.AuthServiceOptions{
		Sessions:   cfg.Sessions,
		Roles:      authroles.StaticRoleMapper{AdminGroups: []string{cfg.Auth.AdminGroup}},
		Users:      cfg.Users,
		SessionTTL: cfg.Auth.SessionTTL,
	}

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		opts.Provider = buildDevAuthProvider(cfg.Auth, logger)
	case config.AuthModeOAuth:
		opts.Provider = buildOIDCProvider(ctx, cfg.Auth, logger)
	case config.AuthModePassword:
	}

	logger.Info("auth configured", "mode", cfg.Auth.Mode, "sso", opts.Provider != nil)
	return service.NewAuthService(opts)
}

//nolint:ireturn // nil interface disables SSO.
func buildDevAuthProvider(cfg config.AuthConfig, logger *slog.Logger) ports.AuthProvider {
	prov, err := devauth.NewProvider(devauth.Config{
		Subject:         cfg.DevAuth.UserID,
		Email:           cfg.DevAuth.Email,
		DisplayName:     cfg.DevAuth.UserID,
		Groups:          cfg.DevAuth.Groups,
		SessionDuration: cfg.SessionTTL,
	})
	if err != nil {
		logger.Warn("failed to create dev auth provider, SSO disabled", "error", err)
		return nil
	}
	return prov
}

//nolint:ireturn // nil interface disables SSO.
func buildOIDCProvider(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) ports.AuthProvider {
	oauth := cfg.OAuth
	if !oauth.Complete() {
		logger.Warn("AUTH_MODE=oauth but required config missing; SSO disabled",
			"discovery_url_empty", oauth.DiscoveryURL == "",
			"client_id_empty", oauth.ClientID == "",
			"client_secret_empty", oauth.ClientSecret == "",
		)
		return nil
	}

	discoveryCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	prov, err := oidc.NewProvider(discoveryCtx, oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		GroupsClaim:  oauth.GroupsClaim,
	})
	if err != nil {
		logger.Warn("failed to create OIDC provider, SSO disabled", "error", err)
		return nil
	}
	return prov
}
